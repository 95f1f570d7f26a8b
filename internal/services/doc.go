// Package services defines shared helpers consumed by the pipeline components.
//
// Key responsibilities:
//   - Context helpers that stamp batch run IDs, file indexes, and phase names
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into startup, encode, verification, and relocation failures.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across components.
package services
