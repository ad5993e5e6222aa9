package main

import (
	"github.com/spf13/cobra"
)

// NewQueryCmd creates the query command: the full pipeline with
// declarative row/column transforms between normalize and export.
func NewQueryCmd() *cobra.Command {
	var (
		flags pipelineFlags
		qf    queryFlags
	)
	cmd := &cobra.Command{
		Use:   "query <url-or-path>",
		Short: "Filter, sort, group and sample tabular data",
		Example: `  econtab query data.csv --filter year:ge:2000 --sort gdp:desc
  econtab query starwars.csv --group-by species --agg mass:mean
  econtab query big.csv --sample-fraction 0.1 --seed 42 --format csv -o sample.csv`,
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
			if req.Query, err = qf.query(); err != nil {
				return err
			}
			return runPipeline(cmd, cfg, flags, req)
		},
	}
	registerPipelineFlags(cmd, &flags)

	cmd.Flags().StringArrayVar(&qf.filters, "filter", nil, "keep rows matching col:op[:value] (repeatable; ops: eq ne lt le gt ge contains notnull)")
	cmd.Flags().StringVar(&qf.sel, "select", "", "comma-separated columns to keep, in order")
	cmd.Flags().StringArrayVar(&qf.sortKeys, "sort", nil, "sort key col[:desc] (repeatable, first key is primary)")
	cmd.Flags().StringVar(&qf.groupBy, "group-by", "", "comma-separated grouping columns")
	cmd.Flags().StringArrayVar(&qf.aggs, "agg", nil, "aggregate col:func[:as] (repeatable; funcs: mean sum count stddev min max)")
	cmd.Flags().BoolVar(&qf.withinGroup, "within-group", false, "broadcast aggregates back onto the original rows")
	cmd.Flags().IntVar(&qf.sampleSize, "sample-size", 0, "draw a fixed number of rows")
	cmd.Flags().Float64Var(&qf.sampleFrac, "sample-fraction", 0, "draw a fraction of the rows")
	cmd.Flags().BoolVar(&qf.replacement, "with-replacement", false, "sample with replacement")
	cmd.Flags().StringVar(&qf.weightCol, "weight-column", "", "column holding sampling weights")
	cmd.Flags().Int64Var(&qf.seed, "seed", 0, "random seed for reproducible samples")

	return cmd
}
