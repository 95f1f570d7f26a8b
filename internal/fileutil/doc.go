// Package fileutil moves encoded output into place.
//
// Copies are verified by size and SHA-256 and never leave a partial file
// behind. Moves prefer an atomic rename and fall back to copy plus remove
// across filesystems. Deletes are either permanent or go to a
// freedesktop.org trash directory so they can be restored.
package fileutil
