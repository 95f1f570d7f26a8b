// Package preflight checks that a batch can start: the source and
// destination folders exist, are writable and distinct, and the encoder and
// ffprobe are installed. Low free space on the destination is reported as a
// warning.
//
// The root command refuses to start when a blocking check fails; the
// "check" command prints every result.
package preflight
