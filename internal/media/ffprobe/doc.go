// Package ffprobe wraps ffprobe's JSON output.
//
// Inspect runs ffprobe and decodes the streams and format sections. Inspector
// narrows that to the two measurements batch verification needs: container
// duration in seconds and file size in bytes.
package ffprobe
