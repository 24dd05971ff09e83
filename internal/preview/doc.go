// Package preview drives the per-project render pipeline.
//
// For each discovered project the Runner checks whether the existing
// preview is newer than the source, writes a patched temp copy, invokes the
// renderer, and removes the temp copy on every exit path. Failures are
// tallied per project; only cancellation stops the loop early.
package preview
