// Package testsupport builds throwaway configurations, stub encoder and
// ffprobe scripts, and sized source files for tests.
package testsupport
