package batchrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"hevcpress/internal/batch"
	"hevcpress/internal/config"
	"hevcpress/internal/deps"
	"hevcpress/internal/encoding"
	"hevcpress/internal/fileutil"
	"hevcpress/internal/logging"
	"hevcpress/internal/media/ffprobe"
	"hevcpress/internal/pipeline"
	"hevcpress/internal/preflight"
	"hevcpress/internal/runlock"
	"hevcpress/internal/services"
	"hevcpress/internal/verify"
)

const runIDLayout = "20060102T150405.000Z"

// Options configures one batch invocation.
type Options struct {
	// Terminal receives mirrored encoder output when the process window is
	// enabled. Defaults to stderr.
	Terminal io.Writer
	// SkipPreflight bypasses readiness checks.
	SkipPreflight bool
}

// Result describes a finished batch.
type Result struct {
	Summary   batch.Summary
	RunID     string
	SessionID string
	LogPath   string
}

// Run executes one batch for cfg. The returned error is always a startup
// failure; everything that happens once files are being processed is
// reported through the summary.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) (Result, error) {
	if cfg == nil {
		return Result{}, services.Wrap(services.ErrStartup, "batch", "start", "config is required", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return Result{}, services.Wrap(services.ErrStartup, "batch", "prepare directories", "", err)
	}

	lock, err := runlock.Acquire(cfg.Paths.LogDir)
	if err != nil {
		return Result{}, services.Wrap(services.ErrStartup, "batch", "acquire run lock", "", err)
	}
	defer func() { _ = lock.Release() }()

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result := Result{
		RunID:     time.Now().UTC().Format(runIDLayout),
		SessionID: uuid.NewString(),
	}
	logger, closer, logPath, err := logging.NewFromConfig(cfg, result.RunID, result.SessionID)
	if err != nil {
		return result, services.Wrap(services.ErrStartup, "batch", "init logger", "", err)
	}
	defer closer.Close()
	result.LogPath = logPath
	logger = logging.NewComponentLogger(logger, "batch")

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		logger.Debug("log pointer not updated", logging.Error(err))
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)

	if !opts.SkipPreflight {
		results := preflight.RunAll(signalCtx, cfg)
		logPreflight(logger, results)
		if err := preflight.Failed(results); err != nil {
			logging.ErrorWithContext(logger, "preflight failed; no file was touched", "preflight_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run `hevcpress check` for details"),
			)
			return result, err
		}
	}
	logDependencySnapshot(signalCtx, logger, cfg)

	bcfg := batch.FromConfig(cfg)
	invoker := encoding.NewInvoker()
	if opts.Terminal != nil {
		invoker.Terminal = opts.Terminal
	}
	verifier := verify.New(ffprobe.NewInspector(bcfg.FFprobeBinary), fileutil.NewRelocator(bcfg.TrashDir))
	controller := pipeline.NewController(bcfg, invoker, verifier,
		pipeline.WithLogger(logger),
		pipeline.WithFileLogs(logging.NewFileLogs(cfg, result.RunID, result.SessionID)),
		pipeline.WithRunID(result.RunID),
	)

	summary, err := controller.Run(signalCtx)
	result.Summary = summary
	return result, err
}

func logPreflight(logger *slog.Logger, results []preflight.Result) {
	for _, r := range results {
		attrs := []logging.Attr{
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_check"),
		}
		switch {
		case r.Passed:
			logger.Debug("preflight check passed", logging.Args(attrs...)...)
		case r.Optional:
			logging.WarnWithContext(logger, "preflight warning", "preflight_warning", append(attrs,
				logging.String(logging.FieldImpact, "relocations may fail and disable source deletion"),
			)...)
		default:
			logger.Error("preflight check failed", logging.Args(attrs...)...)
		}
	}
}

func logDependencySnapshot(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	encoder := cfg.EncoderBinary()
	probe := cfg.FFprobeBinary()
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.String("encoder_binary", encoder),
		logging.String("ffprobe_binary", probe),
	}
	if version, err := deps.Version(ctx, encoder); err == nil {
		attrs = append(attrs, logging.String("encoder_version", version))
	}
	if version, err := deps.Version(ctx, probe); err == nil {
		attrs = append(attrs, logging.String("ffprobe_version", version))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}

// ensureCurrentLogPointer points <log_dir>/hevcpress.log at the newest
// process log.
func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "hevcpress.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}
