// Package verify decides what happens to an encoded file.
//
// A failed encode is rejected. A duration that differs from the original, or
// cannot be measured, aborts the whole batch and leaves both files in place.
// Otherwise the smaller file wins: a smaller encode is relocated into the
// destination folder (optionally deleting the original first), a larger one
// is discarded. Relocation failures never abort; they disable source
// deletion for the rest of the run instead.
package verify
