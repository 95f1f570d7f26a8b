// Package batchrun wires configuration, logging, the run lock, preflight
// checks and the pipeline controller into a single batch invocation.
//
// It owns process-level concerns: the run and session identifiers, the
// process log and its retention, and SIGINT/SIGTERM handling. A signal stops
// the batch before the next file; the running encode is allowed to finish.
package batchrun
