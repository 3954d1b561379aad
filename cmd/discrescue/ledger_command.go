package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"discrescue/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger TARGET",
		Short: "Show the bad ranges recorded for an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target, err := resolveExistingTarget(cfg, args[0])
			if err != nil {
				return err
			}

			records, malformed, err := ledger.Records(ledger.PathFor(target))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if malformed > 0 {
				fmt.Fprintf(out, "Warning: %d malformed ledger lines ignored.\n", malformed)
			}
			if len(records) == 0 {
				fmt.Fprintf(out, "No bad ranges recorded for %s.\n", target)
				return nil
			}

			headers := []string{"File", "Start", "Blocks"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight}
			var rows [][]string
			var total int64
			for _, rec := range records {
				rows = append(rows, []string{
					rec.Name,
					strconv.FormatInt(rec.Start, 10),
					strconv.FormatInt(rec.Count, 10),
				})
				total += rec.Count
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "%d records, %d blocks total (later records supersede earlier ones for the same range)\n",
				len(records), total)
			return nil
		},
	}
	return cmd
}
