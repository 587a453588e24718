package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"agrozoom/internal/aggregate"
	"agrozoom/internal/loader"
)

// newAggregateCmd loads one file and writes per-region summary statistics.
func newAggregateCmd(a *app) *cobra.Command {
	var valueColumn string
	var regionColumn string
	var outPath string

	cmd := &cobra.Command{
		Use:   "aggregate <file>",
		Short: "Group a data file by region and compute sum, mean and std",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			ds, err := loader.New(a.logger, a.cfg.Processing, nil).Load(path)
			if err != nil {
				return err
			}

			result, err := aggregate.New(a.logger).AggregateByRegion(ds, valueColumn, regionColumn)
			if err != nil {
				return err
			}

			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				outPath = filepath.Join(a.cfg.Paths.ReportsDir, fmt.Sprintf("%s_by_%s.csv", base, regionColumn))
			}
			if err := writeCSV(result, outPath, a.cfg.Processing.NumericPrecision); err != nil {
				return err
			}

			a.logger.Info("wrote regional aggregation",
				slog.String("input", path),
				slog.String("output", outPath),
				slog.Int("groups", result.NumRows()))
			return nil
		},
	}

	cmd.Flags().StringVar(&valueColumn, "value", "", "numeric column to aggregate (required)")
	cmd.Flags().StringVar(&regionColumn, "region", aggregate.DefaultRegionColumn, "categorical column to group by")
	cmd.Flags().StringVar(&outPath, "out", "", "output CSV path (default: reports dir)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
