// Package pipeline runs one batch: it enumerates the source folder and takes
// each file through encode and verification in turn.
//
// Processing is strictly sequential. The first ABORTED verdict stops the
// batch after the current file, and a cancelled context stops it before the
// next file starts; a running encode is never interrupted.
package pipeline
