package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"discrescue/internal/config"
	"discrescue/internal/copier"
	"discrescue/internal/dvd"
	"discrescue/internal/history"
	"discrescue/internal/labels"
	"discrescue/internal/ledger"
)

func newRepairCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair SOURCE [TARGET]",
		Short: "Retry recorded bad ranges block by block",
		Long: `Repair replays the bad-range ledger of an existing archive against the
disc, one block at a time. Recovered blocks replace their zero-filled
placeholders in place; still-unreadable blocks are recorded again. Run it
after cleaning the disc, or with a different drive.`,
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
			targetArg := labels.ForSource(source, "")
			if len(args) == 2 {
				targetArg = args[1]
			}
			target, err := resolveExistingTarget(cfg, targetArg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if _, err := os.Stat(ledger.PathFor(target)); os.IsNotExist(err) {
				fmt.Fprintf(out, "No bad ranges recorded for %s; nothing to repair.\n", target)
				return nil
			}

			src, err := dvd.ScanDirectory(source)
			if err != nil {
				return err
			}

			eng := copier.New(src, target,
				copier.WithLogger(logger),
				copier.WithProgress(out, isatty.IsTerminal(os.Stdout.Fd())),
			)
			if err := eng.Prepare(); err != nil {
				return err
			}
			defer eng.Close()

			started := time.Now()
			remaining, runErr := eng.Repair(runCtx)

			recordRun(cfg, logger, history.Run{
				RunID:        eng.RunID(),
				Kind:         "repair",
				Source:       source,
				Target:       target,
				StartedAt:    started,
				FinishedAt:   time.Now(),
				RemainingBad: remaining,
			})
			if runErr != nil {
				return runErr
			}

			if remaining == 0 {
				fmt.Fprintln(out, "All recorded ranges recovered.")
			} else {
				fmt.Fprintf(out, "%d blocks are still unreadable.\n", remaining)
			}
			return nil
		},
	}
	return cmd
}
