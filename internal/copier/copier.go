package copier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"discrescue/internal/dedup"
	"discrescue/internal/dvd"
	"discrescue/internal/faults"
	"discrescue/internal/ledger"
	"discrescue/internal/logging"
	"discrescue/internal/output"
)

// DefaultChunkBlocks is the first-pass read granularity: 128 blocks, 256
// KiB per read. The repair pass narrows to single blocks.
const DefaultChunkBlocks = 128

// Copier extracts the catalog of one disc into a target directory. It owns
// the destination lock, the bad-range ledger handle, and the duplicate
// strategy for the lifetime of a run. Execution is fully sequential: one
// source stream and one output stream open at a time.
type Copier struct {
	source      dvd.Source
	target      string
	logger      *slog.Logger
	strategy    dedup.Strategy
	chunkBlocks int64
	out         io.Writer
	interactive bool
	runID       string

	lock *flock.Flock
	bad  *ledger.Ledger
}

// Option adjusts Copier construction.
type Option func(*Copier)

// WithLogger sets the structured logger. A component attribute is added.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Copier) { c.logger = logger }
}

// WithStrategy overrides the duplicate realization strategy. Without it,
// Prepare probes the destination filesystem and picks hardlinks when
// supported.
func WithStrategy(s dedup.Strategy) Option {
	return func(c *Copier) { c.strategy = s }
}

// WithChunkBlocks overrides the first-pass read granularity.
func WithChunkBlocks(n int64) Option {
	return func(c *Copier) {
		if n > 0 {
			c.chunkBlocks = n
		}
	}
}

// WithProgress directs textual progress to w. When interactive, per-chunk
// progress is redrawn in place; otherwise only summary lines are printed.
func WithProgress(w io.Writer, interactive bool) Option {
	return func(c *Copier) {
		c.out = w
		c.interactive = interactive
	}
}

// New builds a Copier for source and target. Call Prepare before copying
// and Close when done.
func New(source dvd.Source, target string, opts ...Option) *Copier {
	c := &Copier{
		source:      source,
		target:      target,
		logger:      slog.Default(),
		chunkBlocks: DefaultChunkBlocks,
		out:         io.Discard,
		runID:       uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "copier").With(logging.String("run_id", c.runID))
	return c
}

// RunID identifies this engine instance in logs and run history.
func (c *Copier) RunID() string { return c.runID }

// Target returns the destination root.
func (c *Copier) Target() string { return c.target }

// Prepare creates the destination layout and takes the per-destination
// lock. Running two instances against the same destination is unsafe for
// both the ledger and the duplicate links, so lock contention is a setup
// failure.
func (c *Copier) Prepare() error {
	contentDir := filepath.Join(c.target, dvd.SubDir)
	for _, dir := range []string{c.target, contentDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return faults.Wrap(faults.ErrSetup, "copier", "prepare target", dir, err)
		}
	}

	c.lock = flock.New(c.target + ".lock")
	held, err := c.lock.TryLock()
	if err != nil {
		return faults.Wrap(faults.ErrSetup, "copier", "lock target", c.target, err)
	}
	if !held {
		return faults.Wrap(faults.ErrSetup, "copier", "lock target",
			fmt.Sprintf("%s is in use by another instance", c.target), nil)
	}

	if c.strategy == nil {
		c.strategy, err = dedup.ForName("auto", contentDir)
		if err != nil {
			return faults.Wrap(faults.ErrSetup, "copier", "select dedup strategy", "", err)
		}
	}
	c.bad = ledger.New(ledger.PathFor(c.target), c.logger)
	return nil
}

// Close releases the ledger handle and the destination lock.
func (c *Copier) Close() error {
	var firstErr error
	if c.bad != nil {
		if err := c.bad.Close(); err != nil {
			firstErr = err
		}
		c.bad = nil
	}
	if c.lock != nil {
		if err := c.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.lock = nil
	}
	return firstErr
}

// Summary aggregates one engine run.
type Summary struct {
	RunID         string
	Files         int
	BlocksCopied  int64
	BlocksSkipped int64
	Elapsed       time.Duration
}

// Run copies every catalog file in order. Per-range read failures degrade
// to recorded skips; only setup failures and duplicate integrity conflicts
// abort the run.
func (c *Copier) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: c.runID}

	for _, desc := range c.source.Files() {
		copied, skipped, err := c.copyFile(ctx, desc, FileOptions{})
		summary.Files++
		summary.BlocksCopied += copied
		summary.BlocksSkipped += skipped
		if err != nil {
			summary.Elapsed = time.Since(started)
			return summary, err
		}
	}

	summary.Elapsed = time.Since(started)
	c.logger.Info("copy pass complete",
		logging.Int("files", summary.Files),
		logging.Int64("blocks_copied", summary.BlocksCopied),
		logging.Int64("blocks_skipped", summary.BlocksSkipped),
		logging.String("data", humanize.Bytes(uint64(summary.BlocksCopied)*dvd.BlockSize)),
		logging.Duration("elapsed", summary.Elapsed.Round(time.Second)),
	)
	return summary, nil
}

// FileOptions bounds a single-file copy. The zero value means "whole
// file, resume from whatever already exists". A positive BlockCount
// activates the explicit range [StartBlock, StartBlock+BlockCount) used by
// the repair pass.
type FileOptions struct {
	StartBlock  int64
	BlockCount  int64
	ChunkBlocks int64
}

// CopyFile extracts one descriptor and returns how many blocks had to be
// skipped as unreadable.
func (c *Copier) CopyFile(ctx context.Context, desc *dvd.Descriptor, opts FileOptions) (int64, error) {
	_, skipped, err := c.copyFile(ctx, desc, opts)
	return skipped, err
}

func (c *Copier) copyFile(ctx context.Context, desc *dvd.Descriptor, opts FileOptions) (copied, skipped int64, err error) {
	logger := c.logger.With(logging.String("file", desc.FileName()))

	// Duplicates are realized as links, never a second read.
	if desc.DupOf != nil {
		return 0, 0, c.ensureDuplicate(desc, logger)
	}

	// Later parts of a title are coalesced into part 1's stream.
	if desc.Number > 1 {
		logger.Debug("part coalesced into the first part of its title")
		return 0, 0, nil
	}

	stream, err := c.source.Open(desc.Title, desc.Domain)
	if err != nil {
		if errors.Is(err, dvd.ErrNotPresent) {
			logger.Info("skipping file (not present on disc)")
			return 0, 0, nil
		}
		return 0, 0, faults.Wrap(faults.ErrSetup, "copier", "open source", desc.FileName(), err)
	}
	defer stream.Close()

	writer := output.NewWriter(c.target, desc.Title, desc.Domain)
	total := stream.SizeBlocks()
	resume := writer.SizeBlocks()
	ranged := opts.BlockCount > 0
	if ranged {
		resume = opts.StartBlock
	}

	if !ranged && resume >= total {
		logger.Debug("file already fully read, not reading again")
		return 0, 0, nil
	}

	end := total
	if ranged {
		end = opts.StartBlock + opts.BlockCount
		if end > total {
			end = total
		}
	}

	chunk := opts.ChunkBlocks
	if chunk <= 0 {
		chunk = c.chunkBlocks
	}

	if err := writer.Seek(resume); err != nil {
		return 0, 0, faults.Wrap(faults.ErrSetup, "copier", "position output", desc.FileName(), err)
	}
	defer writer.Close()

	logger.Info("reading",
		logging.Int64("from_block", resume),
		logging.Int64("to_block", end),
		logging.Int64("chunk_blocks", chunk),
	)

	buf := make([]byte, chunk*dvd.BlockSize)
	tracker := NewTracker()
	cursor := resume

	for cursor < end {
		if err := ctx.Err(); err != nil {
			return copied, skipped, err
		}

		want := chunk
		if remain := end - cursor; want > remain {
			want = remain
		}

		c.renderProgress(writer.CurrentName(), cursor, end, tracker.Snapshot(cursor-resume, end-cursor))

		read, readErr := stream.ReadBlocks(cursor, buf[:want*dvd.BlockSize])
		if readErr != nil || read <= 0 {
			// Absorb the failure: placeholder blocks of the full requested
			// chunk keep the size invariant, and the range is durably
			// recorded before the loop moves on. No finer retry this pass.
			logger.Warn("unreadable range, skipping",
				logging.Int64("start", cursor),
				logging.Int64("blocks", want),
				logging.Error(faults.Wrap(faults.ErrRead, "copier", "read blocks", desc.FileName(), readErr)),
			)
			if err := writer.SkipBlocks(want); err != nil {
				return copied, skipped, faults.Wrap(faults.ErrSetup, "copier", "write skip marker", desc.FileName(), err)
			}
			if err := c.bad.Record(desc, cursor, want); err != nil {
				return copied, skipped, faults.Wrap(faults.ErrSetup, "copier", "record bad range", desc.FileName(), err)
			}
			skipped += want
			cursor += want
			continue
		}

		if err := writer.WriteBlocks(buf[:read*dvd.BlockSize]); err != nil {
			return copied, skipped, faults.Wrap(faults.ErrSetup, "copier", "write output", desc.FileName(), err)
		}
		copied += read
		cursor += read
	}

	c.finishProgress(writer.CurrentName(), end, tracker.Snapshot(end-resume, 0))

	if err := writer.Close(); err != nil {
		return copied, skipped, faults.Wrap(faults.ErrSetup, "copier", "close output", desc.FileName(), err)
	}
	if skipped > 0 {
		logger.Warn("sectors skipped in this file", logging.Int64("blocks", skipped))
	}
	return copied, skipped, nil
}

// ensureDuplicate points the descriptor's destination at its duplicate-of
// target through the configured strategy.
func (c *Copier) ensureDuplicate(desc *dvd.Descriptor, logger *slog.Logger) error {
	source := filepath.Join(c.target, desc.DupOf.FileName())
	target := filepath.Join(c.target, desc.FileName())
	created, err := c.strategy.Ensure(source, target)
	if err != nil {
		return err
	}
	if created {
		logger.Info("duplicate realized",
			logging.String("of", desc.DupOf.FileName()),
			logging.String("strategy", c.strategy.Name()),
		)
	} else {
		logger.Debug("duplicate already in place", logging.String("of", desc.DupOf.FileName()))
	}
	return nil
}

// Repair reloads the ledger and retries every recorded range one block at
// a time, localizing exactly which sub-ranges are still unreadable.
// Still-failing blocks are re-recorded, so the ledger accumulates across
// repair runs. Returns the grand total of blocks that remain bad.
func (c *Copier) Repair(ctx context.Context) (int64, error) {
	ranges, err := ledger.Load(ledger.PathFor(c.target), c.source, c.logger)
	if err != nil {
		return 0, faults.Wrap(faults.ErrSetup, "copier", "load ledger", "", err)
	}
	if len(ranges) == 0 {
		c.logger.Info("no bad range ledger found, which is probably good news")
		return 0, nil
	}

	var remaining int64
	for _, r := range ranges {
		logger := c.logger.With(logging.String("file", r.File.FileName()))
		logger.Info("retrying recorded bad range",
			logging.Int64("start", r.Start),
			logging.Int64("blocks", r.Count),
		)
		_, bad, err := c.copyFile(ctx, r.File, FileOptions{
			StartBlock:  r.Start,
			BlockCount:  r.Count,
			ChunkBlocks: 1,
		})
		if err != nil {
			return remaining, err
		}
		if bad > 0 {
			logger.Warn("range still has unreadable blocks",
				logging.Int64("still_bad", bad),
				logging.Int64("of", r.Count),
			)
		} else {
			logger.Info("range fully recovered")
		}
		remaining += bad
	}

	c.logger.Info("repair pass complete", logging.Int64("blocks_still_missing", remaining))
	return remaining, nil
}

func (c *Copier) renderProgress(name string, cursor, end int64, snap Snapshot) {
	if !c.interactive {
		return
	}
	fmt.Fprintf(c.out, "\rreading block %7d/%d (%s) (%s)", cursor, end, name, snap)
}

func (c *Copier) finishProgress(name string, end int64, snap Snapshot) {
	if !c.interactive {
		return
	}
	fmt.Fprintf(c.out, "\rreading block %7d/%d (%s) (%s)\n", end, end, name, snap)
}
