package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"discrescue/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent extraction and repair runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled in the configuration.")
				return nil
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			headers := []string{"Finished", "Kind", "Target", "Files", "Copied", "Skipped", "Still Bad", "Duration"}
			aligns := []columnAlignment{
				alignLeft, alignLeft, alignLeft,
				alignRight, alignRight, alignRight, alignRight, alignRight,
			}
			var rows [][]string
			for _, run := range runs {
				rows = append(rows, []string{
					run.FinishedAt.Local().Format("2006-01-02 15:04"),
					run.Kind,
					run.Target,
					strconv.Itoa(run.Files),
					strconv.FormatInt(run.BlocksCopied, 10),
					strconv.FormatInt(run.BlocksSkipped, 10),
					strconv.FormatInt(run.RemainingBad, 10),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
