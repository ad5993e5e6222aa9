package main

import (
	"github.com/spf13/cobra"

	"econtab/internal/config"
	"econtab/internal/fetch"
	"econtab/internal/infrastructure"
	"econtab/internal/pipeline"
)

// NewConvertCmd creates the convert command: fetch a source, optionally
// normalize it, and re-export it in another format.
func NewConvertCmd() *cobra.Command {
	var flags pipelineFlags
	cmd := &cobra.Command{
		Use:   "convert <url-or-path>",
		Short: "Convert tabular data from one format to another",
		Example: `  econtab convert data.csv --format xlsx --out data.xlsx
  econtab convert https://example.org/gdp.json --format csv
  econtab convert stats.xlsx --sheet Quarterly --coerce gdp:float --format markdown
  econtab convert "sheets://1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/Class Data!A1:F31" --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			req, err := buildRequest(cfg, &flags, args[0])
			if err != nil {
				return err
			}
			return runPipeline(cmd, cfg, flags, req)
		},
	}
	registerPipelineFlags(cmd, &flags)
	return cmd
}

// registerPipelineFlags attaches the fetch/parse/normalize/export flags
// shared by convert and query.
func registerPipelineFlags(cmd *cobra.Command, f *pipelineFlags) {
	cmd.Flags().StringVar(&f.kind, "kind", "", "input kind override (csv, json, html, xlsx, pdf)")
	cmd.Flags().BoolVar(&f.rendered, "rendered", false, "fetch through a headless browser (JavaScript pages)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "workbook sheet name (xlsx input and output)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "field delimiter (csv input and output)")
	cmd.Flags().StringVar(&f.contains, "contains", "", "select the HTML table whose text contains this string")

	cmd.Flags().StringArrayVar(&f.coerce, "coerce", nil, "coerce a column: col:type[:layout] (repeatable)")
	cmd.Flags().StringArrayVar(&f.rename, "rename", nil, "rename a column: old=new (repeatable)")
	cmd.Flags().BoolVar(&f.nullOnError, "null-on-error", false, "replace uncoercible cells with nulls instead of failing")

	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format (csv, table, markdown, html, latex, xlsx)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the rendering to a file instead of stdout")
	cmd.Flags().StringVar(&f.caption, "caption", "", "table caption (pretty renderings and LaTeX)")
	cmd.Flags().StringVar(&f.label, "label", "", "LaTeX label")
	cmd.Flags().BoolVar(&f.bom, "bom", false, "prefix CSV output with a UTF-8 byte order mark")
}

// buildRequest assembles the pipeline request shared by convert and
// query from the common flags.
func buildRequest(cfg *config.Config, f *pipelineFlags, source string) (pipeline.Request, error) {
	parseOpts, err := f.parseOptions()
	if err != nil {
		return pipeline.Request{}, err
	}
	norm, err := f.normalization()
	if err != nil {
		return pipeline.Request{}, err
	}
	req := pipeline.Request{
		Source:        source,
		Kind:          f.contentKind(),
		Rendered:      f.rendered,
		Parse:         parseOpts,
		Normalization: norm,
		Format:        f.exportFormat(),
		Export:        f.exportOptions(),
	}
	if req.Export.Delimiter == 0 && cfg.Export.Delimiter != "" {
		req.Export.Delimiter = []rune(cfg.Export.Delimiter)[0]
	}
	if !req.Export.BOMPrefix {
		req.Export.BOMPrefix = cfg.Export.BOMPrefix
	}
	if f.out != "" {
		req.OutputPath = cfg.ResolveOutputPath(f.out)
	}
	return req, nil
}

// runPipeline executes the request and writes the rendering to stdout
// when no output file was requested.
func runPipeline(cmd *cobra.Command, cfg *config.Config, flags pipelineFlags, req pipeline.Request) error {
	logger := infrastructure.GetLogger()
	opts := []pipeline.Option{}
	if flags.rendered {
		opts = append(opts, pipeline.WithBrowser(fetch.NewBrowser(cfg.Fetch.Timeout, logger)))
	}
	if _, _, ok := fetch.ParseSheetsSource(req.Source); ok {
		sheetsFetcher, err := fetch.NewSheets(cmd.Context(), cfg.Fetch.SheetsCredentialsFile, logger)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithSheets(sheetsFetcher))
	}
	runner := pipeline.NewRunner(fetch.New(cfg.Fetch, logger), logger, opts...)

	result, err := runner.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	if req.OutputPath == "" {
		_, err = cmd.OutOrStdout().Write(result.Output)
		return err
	}
	logger.Info("output written",
		"path", req.OutputPath,
		"rows", result.Table.NumRows(),
		"format", string(req.Format))
	return nil
}
