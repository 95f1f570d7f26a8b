// Package encoding runs the external HEVC encoder for a single source file.
//
// The encoder is an opaque process driven by an argument template with
// {input}, {output} and {quality} placeholders. Its output is kept as a short
// tail for the per-file log and can be mirrored to the terminal. The exit
// code is reported without interpretation; deciding what a failure means is
// left to verification.
package encoding
