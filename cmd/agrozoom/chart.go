package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"agrozoom/internal/aggregate"
	"agrozoom/internal/chart"
	"agrozoom/internal/loader"
	"agrozoom/internal/metadata"
)

// newChartCmd renders a figure from a data file.
func newChartCmd(a *app) *cobra.Command {
	var kind string
	var valueColumn string
	var regionColumn string
	var xColumn string
	var columns []string
	var title string
	var outPath string
	var aggregated bool

	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Render a bar, line, heatmap or workbook chart from a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if kind != "heatmap" && valueColumn == "" {
				return fmt.Errorf("--value is required for %s charts", kind)
			}

			ds, err := loader.New(a.logger, a.cfg.Processing, nil).Load(path)
			if err != nil {
				return err
			}

			var renderer chart.Renderer
			ext := ".png"
			switch kind {
			case "bar", "line", "heatmap":
				renderer = chart.NewPlotRenderer(a.logger, a.cfg.Viz)
			case "workbook":
				renderer = chart.NewWorkbookRenderer(a.logger)
				ext = ".xlsx"
			default:
				return fmt.Errorf("unknown chart kind %q (want bar, line, heatmap or workbook)", kind)
			}

			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				outPath = filepath.Join(a.cfg.Paths.FiguresDir, fmt.Sprintf("%s_%s%s", base, kind, ext))
			}
			if title == "" {
				if kind == "heatmap" {
					title = "Correlation Matrix"
				} else {
					title = fmt.Sprintf("%s by %s", valueColumn, regionColumn)
				}
			}
			if err := metadata.EnsureDir(filepath.Dir(outPath)); err != nil {
				return err
			}

			if kind == "heatmap" {
				return renderer.CorrelationMatrix(ds, columns, title, outPath)
			}
			if kind == "line" {
				return renderer.TimeSeries(ds, xColumn, valueColumn, title, outPath)
			}

			if aggregated {
				summary, err := aggregate.New(a.logger).AggregateByRegion(ds, valueColumn, regionColumn)
				if err != nil {
					return err
				}
				return renderer.RegionalBar(summary, regionColumn, "sum", title, outPath)
			}
			return renderer.RegionalBar(ds, regionColumn, valueColumn, title, outPath)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "bar", "chart kind: bar, line, heatmap or workbook")
	cmd.Flags().StringVar(&valueColumn, "value", "", "numeric column to plot (required except for heatmaps)")
	cmd.Flags().StringVar(&regionColumn, "region", aggregate.DefaultRegionColumn, "region column for bar charts")
	cmd.Flags().StringVar(&xColumn, "x", "year", "x column for line charts")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "numeric columns for heatmaps (default: all numeric)")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (default: configured figures dir)")
	cmd.Flags().BoolVar(&aggregated, "aggregated", false, "aggregate by region before charting (bar and workbook)")
	return cmd
}
