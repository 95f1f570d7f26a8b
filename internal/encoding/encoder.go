package encoding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"hevcpress/internal/batch"
	"hevcpress/internal/logging"
)

const defaultTailLines = 20

// Invoker runs the external encoder for one file at a time.
type Invoker struct {
	// Terminal receives live encoder output when ShowProcessWindow is set.
	Terminal io.Writer
	// TailLines bounds how much encoder output is kept for the file log.
	TailLines int
}

// NewInvoker returns an Invoker that mirrors output to stderr on request.
func NewInvoker() *Invoker {
	return &Invoker{Terminal: os.Stderr, TailLines: defaultTailLines}
}

// Encode runs the encoder for job and blocks until it exits. The output path
// is <source_dir>/<stem>_<suffix>.mp4. Cancelling ctx does not stop a running
// encode. The exit code is reported as-is; a process that cannot be started
// reports -1 and the start error.
func (i *Invoker) Encode(ctx context.Context, job batch.FileJob, cfg batch.Config, logger *slog.Logger) batch.EncodeResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	output := cfg.EncodedPath(job.Name)
	result := batch.EncodeResult{OutputPath: output, ExitCode: -1}

	binary := strings.TrimSpace(cfg.EncoderBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	args := BuildArguments(cfg.EncoderArgs, job.Path, output, cfg.Quality)

	tailLines := defaultTailLines
	var terminal io.Writer
	if i != nil {
		if i.TailLines > 0 {
			tailLines = i.TailLines
		}
		terminal = i.Terminal
	}
	tail := newTailBuffer(tailLines)
	var sink io.Writer = tail
	if cfg.ShowProcessWindow && terminal != nil {
		sink = io.MultiWriter(tail, terminal)
	}

	logger.Info("encoder starting",
		logging.String("command", CommandLine(binary, args)),
		logging.String("output", output),
		logging.Int("quality", cfg.Quality),
		logging.String(logging.FieldEventType, "encode_started"),
	)

	cmd := commandContext(context.WithoutCancel(ctx), binary, args...) //nolint:gosec
	cmd.Dir = cfg.SourceDir
	cmd.Stdout = sink
	cmd.Stderr = sink

	start := time.Now()
	result.Started = start
	if err := cmd.Start(); err != nil {
		result.Err = err
		result.Elapsed = time.Since(start)
		logging.ErrorWithContext(logger, "encoder could not be started", "encode_start_failed",
			logging.String("binary", binary),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check encoder.binary and that it is on PATH"),
		)
		return result
	}

	waitErr := cmd.Wait()
	result.Elapsed = time.Since(start)
	result.ExitCode = exitCode(cmd, waitErr)
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			result.Err = waitErr
		}
	}

	attrs := []logging.Attr{
		logging.Int("exit_code", result.ExitCode),
		logging.Duration("elapsed", result.Elapsed),
	}
	if progress := tail.LastProgress(); progress != "" {
		attrs = append(attrs, logging.String("last_progress", progress))
	}
	if result.Succeeded() {
		attrs = append(attrs, logging.String(logging.FieldEventType, "encode_finished"))
		logger.Info("encoder finished", logging.Args(attrs...)...)
		return result
	}
	if lines := tail.Lines(); len(lines) > 0 {
		attrs = append(attrs, logging.String("output_tail", strings.Join(lines, "\n")))
	}
	if result.Err != nil {
		attrs = append(attrs, logging.Error(result.Err))
	}
	attrs = append(attrs,
		logging.String(logging.FieldErrorHint, "inspect output_tail for the encoder's own error"),
		logging.String(logging.FieldImpact, "file will be rejected and left untouched"),
	)
	logging.WarnWithContext(logger, "encoder exited with failure", "encode_failed", attrs...)
	return result
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return 0
}
