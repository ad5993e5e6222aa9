package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"econtab/internal/fetch"
	"econtab/internal/infrastructure"
	"econtab/internal/parse"
)

// NewFetchCmd creates the fetch command: retrieve a source and write the
// raw payload.
func NewFetchCmd() *cobra.Command {
	var (
		out      string
		rendered bool
		text     bool
	)
	cmd := &cobra.Command{
		Use:   "fetch <url-or-path>",
		Short: "Fetch raw content from a URL or file",
		Example: `  econtab fetch https://example.org/gdp.csv
  econtab fetch report.pdf --text
  econtab fetch https://example.org/app --rendered -o page.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			logger := infrastructure.GetLogger()
			ctx := cmd.Context()

			var result *fetch.Result
			if rendered {
				browser := fetch.NewBrowser(cfg.Fetch.Timeout, logger)
				result, err = browser.FetchRendered(ctx, args[0])
			} else {
				fetcher := fetch.New(cfg.Fetch, logger)
				result, err = fetcher.Fetch(ctx, args[0])
			}
			if err != nil {
				return err
			}

			payload := result.Body
			if text {
				payload, err = pdfText(result.Body, args[0])
				if err != nil {
					return err
				}
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(payload)
				return err
			}
			if err := os.WriteFile(out, payload, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s (kind: %s)\n",
				len(payload), out, orUnknown(string(result.Kind)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write payload to a file instead of stdout")
	cmd.Flags().BoolVar(&rendered, "rendered", false, "fetch through a headless browser (JavaScript pages)")
	cmd.Flags().BoolVar(&text, "text", false, "extract PDF page text instead of writing raw bytes")
	return cmd
}

// pdfText renders the pages of a PDF payload as plain text, separated by
// form feeds in the pdftotext convention.
func pdfText(body []byte, source string) ([]byte, error) {
	pages, err := parse.ParsePDFText(body, source)
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join(pages, "\f")), nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
