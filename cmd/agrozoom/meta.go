package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"agrozoom/internal/loader"
	"agrozoom/internal/metadata"
)

// newMetaCmd writes a metadata record for a data file and prints its
// structural summary.
func newMetaCmd(a *app) *cobra.Command {
	var source string
	var description string
	var outPath string

	cmd := &cobra.Command{
		Use:   "meta <file>",
		Short: "Describe a data file and record its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			ds, err := loader.New(a.logger, a.cfg.Processing, nil).Load(path)
			if err != nil {
				return err
			}

			record, err := metadata.Create(path, source, description, map[string]interface{}{
				"summary": metadata.Summarize(ds),
			})
			if err != nil {
				return err
			}

			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				outPath = filepath.Join(a.cfg.Paths.ProcessedDir, base+".meta.json")
			}
			if err := metadata.Save(record, outPath); err != nil {
				return err
			}

			out, err := json.MarshalIndent(metadata.Summarize(ds), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "TUIK", "data source")
	cmd.Flags().StringVar(&description, "description", "", "dataset description")
	cmd.Flags().StringVar(&outPath, "out", "", "metadata output path")
	return cmd
}
