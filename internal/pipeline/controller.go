package pipeline

import (
	"context"
	"log/slog"
	"math"
	"time"

	"hevcpress/internal/batch"
	"hevcpress/internal/logging"
	"hevcpress/internal/services"
)

// Encoder runs the external encoder for one file.
type Encoder interface {
	Encode(ctx context.Context, job batch.FileJob, cfg batch.Config, logger *slog.Logger) batch.EncodeResult
}

// Verifier judges an encode and applies the verdict.
type Verifier interface {
	Verify(ctx context.Context, job batch.FileJob, result batch.EncodeResult, cfg batch.Config, state *batch.State, logger *slog.Logger) batch.Outcome
}

// Controller owns the state of a single batch run.
type Controller struct {
	cfg      batch.Config
	encoder  Encoder
	verifier Verifier
	logger   *slog.Logger
	fileLogs *logging.FileLogs
	runID    string
	state    *batch.State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the process logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFileLogs enables a dedicated log per processed file.
func WithFileLogs(logs *logging.FileLogs) Option {
	return func(c *Controller) {
		c.fileLogs = logs
	}
}

// WithRunID tags the summary with runID.
func WithRunID(runID string) Option {
	return func(c *Controller) {
		c.runID = runID
	}
}

// NewController builds a controller for one batch run.
func NewController(cfg batch.Config, encoder Encoder, verifier Verifier, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		encoder:  encoder,
		verifier: verifier,
		logger:   logging.NewNop(),
		state:    batch.NewState(cfg),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "pipeline")
	return c
}

// State exposes the batch state; it is only meaningful once Run returns.
func (c *Controller) State() *batch.State {
	return c.state
}

// Run processes the source folder. The only error it returns is a startup
// failure raised before any file is touched; aborts and interruptions are
// reported through the summary.
func (c *Controller) Run(ctx context.Context) (batch.Summary, error) {
	start := time.Now()
	summary := batch.Summary{RunID: c.runID}
	if c.runID != "" {
		ctx = services.WithRunID(ctx, c.runID)
	}

	jobs, err := Enumerate(c.cfg.SourceDir)
	if err != nil {
		logging.ErrorWithContext(c.logger, "source folder could not be read", "enumerate_failed",
			logging.String("source_dir", c.cfg.SourceDir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.source_dir exists and is readable"),
		)
		return summary, err
	}
	summary.Discovered = len(jobs)

	c.logger.Info("batch started",
		logging.String("source_dir", c.cfg.SourceDir),
		logging.String("destination_dir", c.cfg.DestinationDir),
		logging.Int("files", len(jobs)),
		logging.Int("quality", c.cfg.Quality),
		logging.Bool("delete_source", c.state.DeleteSource),
		logging.Bool("delete_permanently", c.cfg.DeletePermanently),
		logging.Float64("duration_tolerance", c.cfg.DurationTolerance),
		logging.Any("ignored", c.cfg.IgnoredNames()),
		logging.String(logging.FieldEventType, "batch_started"),
	)

	for _, job := range jobs {
		if !c.state.ContinueProcessing {
			break
		}
		if ctx.Err() != nil {
			summary.Interrupted = true
			logging.WarnWithContext(c.logger, "batch interrupted before next file", "batch_interrupted",
				logging.String("next_file", job.Name),
				logging.String(logging.FieldErrorHint, "rerun to continue with the remaining files"),
				logging.String(logging.FieldImpact, "remaining files were not processed"),
			)
			break
		}

		fileCtx := services.WithFile(ctx, job.Index, job.Name)
		if c.cfg.IsIgnored(job.Name) {
			summary.Skipped++
			logging.WithContext(fileCtx, c.logger).Info("file skipped",
				logging.String("reason", "on ignore list"),
				logging.String(logging.FieldEventType, "file_skipped"),
			)
			continue
		}

		// A started file always runs to its verdict; signals only stop the
		// loop before the next one.
		outcome := c.processFile(context.WithoutCancel(fileCtx), job)
		summary.Record(job, outcome)
		if outcome.Verdict == batch.VerdictAborted {
			c.state.Abort()
		}
	}

	if ctx.Err() != nil && c.state.ContinueProcessing && !summary.Interrupted {
		summary.Interrupted = true
		logging.WarnWithContext(c.logger, "batch interrupted during the last file", "batch_interrupted",
			logging.String(logging.FieldImpact, "the last file was finished before stopping"),
		)
	}
	summary.Completed = c.state.ContinueProcessing && !summary.Interrupted
	summary.SourceDeletionDisabled = c.cfg.DeleteSource && !c.state.DeleteSource
	summary.Elapsed = time.Since(start)

	attrs := []logging.Attr{
		logging.Int("discovered", summary.Discovered),
		logging.Int("accepted", summary.Accepted),
		logging.Int("rejected", summary.Rejected),
		logging.Int("aborted", summary.Aborted),
		logging.Int("skipped", summary.Skipped),
		logging.Bytes("bytes_saved", summary.BytesBefore-summary.BytesAfter),
		logging.Duration("elapsed", summary.Elapsed),
		logging.String(logging.FieldEventType, "batch_finished"),
	}
	if summary.SourceDeletionDisabled {
		attrs = append(attrs, logging.Bool("source_deletion_disabled", true))
	}
	if !c.state.ContinueProcessing {
		attrs = append(attrs, logging.String("aborted_on", summary.AbortedOn), logging.Alert("batch_aborted"))
		c.logger.Error("batch aborted", logging.Args(attrs...)...)
	} else {
		c.logger.Info("batch finished", logging.Args(attrs...)...)
	}
	return summary, nil
}

func (c *Controller) processFile(ctx context.Context, job batch.FileJob) batch.Outcome {
	base := logging.WithContext(ctx, c.logger)
	logger, logPath, closer, err := c.fileLogs.Open(base, job.Index, job.Name)
	if err != nil {
		logging.WarnWithContext(base, "per-file log unavailable", "file_log_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this file is logged to the process log only"),
		)
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			base.Warn("per-file log close failed", logging.Error(cerr))
		}
	}()

	startAttrs := []logging.Attr{
		logging.String("path", job.Path),
		logging.Bytes("size", job.Size),
		logging.Duration("estimated_time", estimateEncodeTime(job.Size)),
		logging.String(logging.FieldEventType, "file_started"),
	}
	if logPath != "" {
		startAttrs = append(startAttrs, logging.String("file_log", logPath))
	}
	logger.Info("file started", logging.Args(startAttrs...)...)

	encodeCtx := services.WithPhase(ctx, "encode")
	result := c.encoder.Encode(encodeCtx, job, c.cfg, logging.WithContext(encodeCtx, logger))

	verifyCtx := services.WithPhase(ctx, "verify")
	outcome := c.verifier.Verify(verifyCtx, job, result, c.cfg, c.state, logger)

	logger.Info("file finished",
		logging.String("verdict", outcome.Verdict.String()),
		logging.String("reason", outcome.Reason),
		logging.Duration("encode_time", result.Elapsed),
		logging.String(logging.FieldEventType, "file_finished"),
	)
	return outcome
}

// estimateEncodeTime budgets one second of encoding per 360 MB of source.
func estimateEncodeTime(size int64) time.Duration {
	if size <= 0 {
		return 0
	}
	seconds := float64(size) / 1e6 / 360.0
	return time.Duration(math.Round(seconds*100)) * 10 * time.Millisecond
}
