package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"discrescue/internal/config"
	"discrescue/internal/dvd"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list SOURCE",
		Short: "Show the extractable catalog of a disc filesystem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			src, err := dvd.ScanDirectory(source)
			if err != nil {
				return err
			}

			headers := []string{"File", "Identity", "Domain", "Blocks", "Size", "Duplicate Of"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

			var rows [][]string
			var totalBlocks int64
			for _, d := range src.Files() {
				dup := ""
				if d.DupOf != nil {
					dup = d.DupOf.FileName()
				} else {
					totalBlocks += d.SizeBlocks
				}
				rows = append(rows, []string{
					d.FileName(),
					d.Identity(),
					d.Domain.String(),
					strconv.FormatInt(d.SizeBlocks, 10),
					humanize.Bytes(uint64(d.SizeBlocks) * dvd.BlockSize),
					dup,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "%d files, %s to extract\n",
				len(rows), humanize.Bytes(uint64(totalBlocks)*dvd.BlockSize))
			return nil
		},
	}
	return cmd
}
