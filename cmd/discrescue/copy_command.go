package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"discrescue/internal/config"
	"discrescue/internal/copier"
	"discrescue/internal/dedup"
	"discrescue/internal/discwait"
	"discrescue/internal/dvd"
	"discrescue/internal/history"
	"discrescue/internal/labels"
	"discrescue/internal/preflight"
)

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var (
		wait        bool
		chunkBlocks int64
		labelFlag   string
	)

	cmd := &cobra.Command{
		Use:   "copy SOURCE [NAME]",
		Short: "Extract a disc filesystem into the archive",
		Long: `Copy reads every file of a mounted DVD filesystem into a new archive
directory. Unreadable ranges are zero-filled and recorded in a sibling
ledger file so a later "repair" run can retry them. Interrupted or partial
runs resume where they left off.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			if wait {
				waitCtx, cancel := context.WithTimeout(runCtx, time.Duration(cfg.Drive.WaitTimeout)*time.Second)
				err := discwait.WaitForMedia(waitCtx, cfg.Drive.Device, logger)
				cancel()
				if err != nil {
					return fmt.Errorf("wait for media: %w", err)
				}
			}

			name := labels.ForSource(source, labelFlag)
			if len(args) == 2 {
				name = args[1]
			}
			target := resolveTarget(cfg, name)
			out := cmd.OutOrStdout()

			src, err := dvd.ScanDirectory(source)
			if err != nil {
				return err
			}

			var required uint64
			for _, d := range src.Files() {
				if d.DupOf == nil {
					required += uint64(d.SizeBlocks) * dvd.BlockSize
				}
			}
			results := preflight.RunAll(source, cfg.Paths.ArchiveDir, required)
			printPreflight(out, results)
			if !preflight.AllPassed(results) {
				return errors.New("preflight checks failed")
			}

			opts := []copier.Option{
				copier.WithLogger(logger),
				copier.WithProgress(out, isatty.IsTerminal(os.Stdout.Fd())),
			}
			chunk := chunkBlocks
			if chunk <= 0 {
				chunk = int64(cfg.Copy.ChunkBlocks)
			}
			opts = append(opts, copier.WithChunkBlocks(chunk))
			if cfg.Copy.Dedup != "auto" {
				strategy, err := dedup.ForName(cfg.Copy.Dedup, target)
				if err != nil {
					return err
				}
				opts = append(opts, copier.WithStrategy(strategy))
			}

			eng := copier.New(src, target, opts...)
			if err := eng.Prepare(); err != nil {
				return err
			}
			defer eng.Close()

			fmt.Fprintf(out, "Archiving %s -> %s\n", source, target)
			started := time.Now()
			summary, runErr := eng.Run(runCtx)

			recordRun(cfg, logger, history.Run{
				RunID:         summary.RunID,
				Kind:          "copy",
				Source:        source,
				Target:        target,
				StartedAt:     started,
				FinishedAt:    time.Now(),
				Files:         summary.Files,
				BlocksCopied:  summary.BlocksCopied,
				BlocksSkipped: summary.BlocksSkipped,
			})
			if runErr != nil {
				return runErr
			}

			fmt.Fprintf(out, "Archived %d files, %s in %s\n",
				summary.Files,
				humanize.Bytes(uint64(summary.BlocksCopied)*dvd.BlockSize),
				summary.Elapsed.Round(time.Second),
			)
			if summary.BlocksSkipped > 0 {
				fmt.Fprintf(out, "%d blocks were unreadable and zero-filled; clean the disc and run:\n  discrescue repair %s %q\n",
					summary.BlocksSkipped, args[0], name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for disc media before starting")
	cmd.Flags().Int64Var(&chunkBlocks, "chunk-blocks", 0, "Blocks per read (default from config)")
	cmd.Flags().StringVar(&labelFlag, "label", "", "Volume label used to name the archive directory")
	return cmd
}
