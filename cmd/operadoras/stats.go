package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"operadoras/internal/core"
	"operadoras/internal/dataset"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics of a freshly seeded dataset as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ds := dataset.New(dataset.NewRand(cfg.Seed))
			out, err := json.MarshalIndent(core.Summarize(ds, time.Now()), "", "  ")
			if err != nil {
				return fmt.Errorf("encode statistics: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
