// Package batch holds the value types shared by the pipeline components: the
// immutable per-run Config snapshot, the FileJob and EncodeResult records, the
// verification Outcome, and the mutable State owned by one controller run.
//
// The package has no behaviour beyond small pure helpers so the encoder,
// verifier, and controller can exchange data without importing each other.
package batch
