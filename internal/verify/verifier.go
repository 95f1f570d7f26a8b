package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"hevcpress/internal/batch"
	"hevcpress/internal/fileutil"
	"hevcpress/internal/logging"
	"hevcpress/internal/services"
)

// Inspector measures media files.
type Inspector interface {
	Duration(ctx context.Context, path string) (float64, error)
	Size(path string) (int64, error)
}

// Relocator performs file operations. A nil error means success.
type Relocator interface {
	Copy(src, dst string, overwrite bool) error
	Move(src, dst string, overwrite bool) error
	Delete(path string, permanently bool) error
}

// Verifier turns an encode result into a verdict and applies it.
type Verifier struct {
	inspector Inspector
	relocator Relocator
}

// New constructs a Verifier.
func New(inspector Inspector, relocator Relocator) *Verifier {
	return &Verifier{inspector: inspector, relocator: relocator}
}

// Verify judges result for job and performs the resulting file operations.
// It mutates state only to downgrade the source deletion policy.
func (v *Verifier) Verify(ctx context.Context, job batch.FileJob, result batch.EncodeResult, cfg batch.Config, state *batch.State, logger *slog.Logger) batch.Outcome {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldPhase, "verify"))

	if !result.Succeeded() {
		return v.rejectFailedEncode(result, logger)
	}

	outcome, ok := v.checkDuration(ctx, job, result, cfg, logger)
	if !ok {
		return outcome
	}

	outcome, ok = v.measureSizes(job, result, outcome, logger)
	if !ok {
		return outcome
	}

	if outcome.EncodedSize >= outcome.OriginalSize {
		return v.discardLarger(result, cfg, outcome, logger)
	}
	return v.accept(job, result, cfg, state, outcome, logger)
}

func (v *Verifier) rejectFailedEncode(result batch.EncodeResult, logger *slog.Logger) batch.Outcome {
	outcome := batch.Outcome{Verdict: batch.VerdictRejected, Reason: batch.ReasonEncodeFailed}
	if info, err := os.Lstat(result.OutputPath); err == nil {
		if !writtenBy(result, info) {
			logger.Info("existing output predates this encode; left in place",
				logging.String("path", result.OutputPath),
				logging.String("modified", info.ModTime().Format(time.RFC3339)),
			)
		} else if err := v.relocator.Delete(result.OutputPath, true); err != nil {
			logging.WarnWithContext(logger, "partial encoder output could not be removed", "partial_output_cleanup_failed",
				logging.String("path", result.OutputPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the partial file manually"),
				logging.String(logging.FieldImpact, "partial encode remains beside the source"),
			)
		}
	}
	cause := result.Err
	if cause == nil {
		cause = fmt.Errorf("exit code %d", result.ExitCode)
	}
	err := services.Wrap(services.ErrExternalTool, "encoder", "encode", "encoder did not complete", cause)
	logVerdict(logger, outcome, logging.Error(err))
	return outcome
}

// writtenBy reports whether the file at the output path was written during
// the encode. Modification times are compared at second granularity.
func writtenBy(result batch.EncodeResult, info os.FileInfo) bool {
	if result.Started.IsZero() {
		return true
	}
	return !info.ModTime().Before(result.Started.Truncate(time.Second))
}

func (v *Verifier) checkDuration(ctx context.Context, job batch.FileJob, result batch.EncodeResult, cfg batch.Config, logger *slog.Logger) (batch.Outcome, bool) {
	outcome := batch.Outcome{}

	original, origErr := v.inspector.Duration(ctx, job.Path)
	encoded, encErr := v.inspector.Duration(ctx, result.OutputPath)
	outcome.OriginalDuration = original
	outcome.EncodedDuration = encoded

	if err := errors.Join(origErr, encErr); err != nil {
		outcome.Verdict = batch.VerdictAborted
		outcome.Reason = batch.ReasonDurationUnknown
		wrapped := services.Wrap(services.ErrVerification, "verify", "measure duration", "duration could not be determined", err)
		logVerdict(logger, outcome,
			logging.Error(wrapped),
			logging.String(logging.FieldErrorHint, "inspect both files; the batch stops here"),
		)
		return outcome, false
	}

	outcome.DurationDelta = math.Abs(original - encoded)
	if outcome.DurationDelta > cfg.DurationTolerance {
		outcome.Verdict = batch.VerdictAborted
		outcome.Reason = batch.ReasonDurationMismatch
		wrapped := services.Wrap(services.ErrVerification, "verify", "compare duration",
			fmt.Sprintf("durations differ by %gs", outcome.DurationDelta), nil)
		logVerdict(logger, outcome,
			logging.Float64("original_duration", original),
			logging.Float64("encoded_duration", encoded),
			logging.Float64("duration_delta", outcome.DurationDelta),
			logging.Float64("tolerance", cfg.DurationTolerance),
			logging.Error(wrapped),
			logging.String(logging.FieldErrorHint, "original and encoded file were left side by side for review"),
		)
		return outcome, false
	}

	logger.Info("durations match",
		logging.Float64("original_duration", original),
		logging.Float64("encoded_duration", encoded),
		logging.Float64("duration_delta", outcome.DurationDelta),
	)
	return outcome, true
}

func (v *Verifier) measureSizes(job batch.FileJob, result batch.EncodeResult, outcome batch.Outcome, logger *slog.Logger) (batch.Outcome, bool) {
	original, origErr := v.inspector.Size(job.Path)
	encoded, encErr := v.inspector.Size(result.OutputPath)
	if err := errors.Join(origErr, encErr); err != nil {
		outcome.Verdict = batch.VerdictRejected
		outcome.Reason = batch.ReasonSizeUnknown
		outcome.Retained = encErr == nil
		logVerdict(logger, outcome,
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that neither file was moved during the encode"),
		)
		return outcome, false
	}

	outcome.OriginalSize = original
	outcome.EncodedSize = encoded
	outcome.SizeDelta = original - encoded
	if original > 0 {
		outcome.Percent = math.Round(float64(encoded)/float64(original)*10000) / 100
	}
	logger.Info("size comparison",
		logging.Bytes("original_size", original),
		logging.Bytes("encoded_size", encoded),
		logging.Bytes("size_difference", outcome.SizeDelta),
		logging.Float64("percent_of_original", outcome.Percent),
	)
	return outcome, true
}

func (v *Verifier) discardLarger(result batch.EncodeResult, cfg batch.Config, outcome batch.Outcome, logger *slog.Logger) batch.Outcome {
	outcome.Verdict = batch.VerdictRejected
	outcome.Reason = batch.ReasonNotSmaller
	if err := v.relocator.Delete(result.OutputPath, cfg.DeletePermanently); err != nil {
		outcome.Retained = true
		logging.WarnWithContext(logger, "larger encode could not be removed", "encoded_cleanup_failed",
			logging.String("path", result.OutputPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the encoded file manually"),
			logging.String(logging.FieldImpact, "encoded file remains beside the source"),
		)
	}
	logVerdict(logger, outcome)
	return outcome
}

func (v *Verifier) accept(job batch.FileJob, result batch.EncodeResult, cfg batch.Config, state *batch.State, outcome batch.Outcome, logger *slog.Logger) batch.Outcome {
	if state != nil && state.DeleteSource {
		if err := v.relocator.Delete(job.Path, cfg.DeletePermanently); err != nil {
			logging.WarnWithContext(logger, "original could not be deleted", "source_delete_failed",
				logging.String("path", job.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the source folder"),
				logging.String(logging.FieldImpact, "original stays beside the relocated encode"),
			)
		} else {
			logger.Info("original deleted",
				logging.String("path", job.Path),
				logging.Bool("permanent", cfg.DeletePermanently),
			)
		}
	}

	temp := cfg.TempPath(result.OutputPath)
	dest := cfg.DestinationPath(job.Name)

	err := v.relocator.Copy(result.OutputPath, temp, true)
	if err == nil {
		err = v.relocator.Move(temp, dest, false)
	}
	if err != nil {
		return v.relocationFailed(temp, dest, state, outcome, err, logger)
	}

	outcome.Verdict = batch.VerdictAccepted
	outcome.Reason = batch.ReasonRelocated
	if delErr := v.relocator.Delete(result.OutputPath, cfg.DeletePermanently); delErr != nil {
		outcome.Retained = true
		logging.WarnWithContext(logger, "encoded artifact could not be removed after relocation", "encoded_cleanup_failed",
			logging.String("path", result.OutputPath),
			logging.Error(delErr),
			logging.String(logging.FieldErrorHint, "remove the encoded file manually"),
			logging.String(logging.FieldImpact, "a duplicate of the relocated file remains beside the source"),
		)
	}
	logVerdict(logger, outcome, logging.String("destination", dest))
	return outcome
}

func (v *Verifier) relocationFailed(temp, dest string, state *batch.State, outcome batch.Outcome, err error, logger *slog.Logger) batch.Outcome {
	if _, statErr := os.Lstat(temp); statErr == nil {
		if rmErr := v.relocator.Delete(temp, true); rmErr != nil {
			logger.Warn("temporary copy could not be removed",
				logging.String("path", temp),
				logging.Error(rmErr),
				logging.String(logging.FieldEventType, "temp_cleanup_failed"),
				logging.String(logging.FieldErrorHint, "remove the _TEMP file manually"),
				logging.String(logging.FieldImpact, "temporary copy remains beside the source"),
			)
		}
	}

	downgraded := false
	if state != nil && state.DeleteSource {
		state.DisableSourceDeletion()
		downgraded = true
	}

	hint := "check the destination folder"
	if fileutil.IsNoSpace(err) {
		hint = "destination full; free space before the next run"
	} else if fileutil.IsExist(err) {
		hint = "a file with the destination name already exists"
	}
	outcome.Verdict = batch.VerdictRejected
	outcome.Reason = batch.ReasonRelocationFailed
	outcome.Retained = true

	wrapped := services.Wrap(services.ErrRelocation, "verify", "relocate", "encoded file could not be placed in the destination", err)
	logging.WarnWithContext(logger, "relocation failed; encoded file kept beside the source", "relocation_failed",
		logging.String("destination", dest),
		logging.Error(wrapped),
		logging.Bool("source_deletion_disabled", downgraded),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "source deletion is disabled for the rest of the run"),
	)
	logVerdict(logger, outcome)
	return outcome
}

func logVerdict(logger *slog.Logger, outcome batch.Outcome, extra ...logging.Attr) {
	attrs := logging.DecisionAttrs("verdict", outcome.Verdict.String(), outcome.Reason)
	attrs = append(attrs, logging.Bool("retained", outcome.Retained))
	attrs = append(attrs, extra...)
	switch outcome.Verdict {
	case batch.VerdictAborted:
		attrs = append(attrs, logging.Alert("batch_aborted"))
		logging.ErrorWithContext(logger, "verification failed; batch will stop", "verdict", attrs...)
	case batch.VerdictAccepted:
		attrs = append(attrs, logging.String(logging.FieldEventType, "verdict"))
		logger.Info("encode accepted", logging.Args(attrs...)...)
	default:
		attrs = append(attrs, logging.String(logging.FieldEventType, "verdict"))
		logger.Info("encode rejected", logging.Args(attrs...)...)
	}
}
