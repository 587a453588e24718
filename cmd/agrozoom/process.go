package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"agrozoom/internal/loader"
	"agrozoom/internal/metadata"
	"agrozoom/internal/provinces"
)

// newProcessCmd loads, cleans and re-exports one or more raw data files.
// Files are independent, so they are processed in parallel.
func newProcessCmd(a *app) *cobra.Command {
	var outDir string
	var source string
	var regionColumn string

	cmd := &cobra.Command{
		Use:   "process <file>...",
		Short: "Clean raw data files and write processed CSVs with metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.Paths.ProcessedDir
			}
			if err := metadata.EnsureDir(outDir); err != nil {
				return err
			}

			l := loader.New(a.logger, a.cfg.Processing, nil)

			var g errgroup.Group
			for _, path := range args {
				path := path
				g.Go(func() error {
					return processFile(a, l, path, outDir, source, regionColumn)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: configured processed dir)")
	cmd.Flags().StringVar(&source, "source", "TUIK", "data source recorded in metadata")
	cmd.Flags().StringVar(&regionColumn, "region", "province", "region column to canonicalize")
	return cmd
}

func processFile(a *app, l *loader.RegionalLoader, path, outDir, source, regionColumn string) error {
	ds, err := l.Load(path)
	if err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	if changed := provinces.NormalizeColumn(ds, regionColumn); changed > 0 {
		a.logger.Debug("canonicalized province names",
			slog.String("path", path),
			slog.Int("cells", changed))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outDir, base+".csv")
	if err := writeCSV(ds, outPath, a.cfg.Processing.NumericPrecision); err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	record, err := metadata.Create(outPath, source, fmt.Sprintf("cleaned dataset derived from %s", filepath.Base(path)), map[string]interface{}{
		"rows":    ds.NumRows(),
		"columns": ds.Names(),
	})
	if err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}
	if err := metadata.Save(record, filepath.Join(outDir, base+".meta.json")); err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	a.logger.Info("processed data file",
		slog.String("input", path),
		slog.String("output", outPath),
		slog.Int("rows", ds.NumRows()))
	return nil
}
