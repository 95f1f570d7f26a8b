package batch

import (
	"fmt"
	"time"
)

// FileJob is one input file discovered in the source folder.
type FileJob struct {
	Path  string
	Name  string
	Size  int64
	Index int
}

// EncodeResult reports what the encoder produced for one FileJob.
type EncodeResult struct {
	OutputPath string
	ExitCode   int
	// Err is set when the encoder process could not be started or waited on.
	Err error
	// Started is when the encoder was launched. Output older than this
	// predates the encode.
	Started time.Time
	Elapsed time.Duration
}

// Succeeded reports whether the encoder exited cleanly.
func (r EncodeResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Verdict is the verifier's decision for one file.
type Verdict int

const (
	VerdictAccepted Verdict = iota
	VerdictRejected
	VerdictAborted
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictRejected:
		return "rejected"
	case VerdictAborted:
		return "aborted"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Outcome carries a verdict and the measurements used to reach it.
type Outcome struct {
	Verdict Verdict
	Reason  string

	OriginalDuration float64
	EncodedDuration  float64
	DurationDelta    float64

	OriginalSize int64
	EncodedSize  int64
	SizeDelta    int64
	// Percent is the encoded size as a percentage of the original.
	Percent float64

	// Retained is true when an encoded artifact was kept beside the source
	// because relocation failed.
	Retained bool
}

// Reason strings attached to outcomes.
const (
	ReasonEncodeFailed     = "encode_failed"
	ReasonDurationUnknown  = "duration_indeterminate"
	ReasonDurationMismatch = "duration_mismatch"
	ReasonSizeUnknown      = "size_unavailable"
	ReasonNotSmaller       = "not_smaller"
	ReasonRelocated        = "relocated"
	ReasonRelocationFailed = "relocation_failed"
)

// State is the batch-wide mutable state for one run. It is owned by a single
// controller and mutated only on its goroutine.
type State struct {
	ContinueProcessing bool
	DeleteSource       bool
}

// NewState returns the starting state for cfg.
func NewState(cfg Config) *State {
	return &State{ContinueProcessing: true, DeleteSource: cfg.DeleteSource}
}

// Abort stops the batch after the current file. It cannot be undone.
func (s *State) Abort() {
	s.ContinueProcessing = false
}

// DisableSourceDeletion downgrades the policy for the rest of the run.
func (s *State) DisableSourceDeletion() {
	s.DeleteSource = false
}

// Summary reports the result of a batch run.
type Summary struct {
	RunID       string
	Discovered  int
	Accepted    int
	Rejected    int
	Aborted     int
	Skipped     int
	Completed   bool
	Interrupted bool
	AbortedOn   string

	SourceDeletionDisabled bool
	BytesBefore            int64
	BytesAfter             int64
	Elapsed                time.Duration
}

// Record tallies an outcome.
func (s *Summary) Record(job FileJob, outcome Outcome) {
	switch outcome.Verdict {
	case VerdictAccepted:
		s.Accepted++
		s.BytesBefore += outcome.OriginalSize
		s.BytesAfter += outcome.EncodedSize
	case VerdictRejected:
		s.Rejected++
	case VerdictAborted:
		s.Aborted++
		s.AbortedOn = job.Name
	}
}

// Processed returns the number of files that went through encode and verify.
func (s Summary) Processed() int {
	return s.Accepted + s.Rejected + s.Aborted
}
