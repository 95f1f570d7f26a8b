// Package main hosts the hevcpress CLI entrypoint and command graph.
//
// Running `hevcpress` with no arguments processes the configured source
// folder once and prints a summary table. The `config` and `check`
// subcommands scaffold and inspect configuration without touching any media.
//
// Keep this package lean: batch wiring lives in internal/batchrun and the
// commands here only resolve configuration and render results.
package main
