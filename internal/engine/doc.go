// Package engine locates the REAPER executable.
//
// Lookup order is an explicit path or name, then PATH, then a short list of
// per-platform install locations. The render pipeline depends only on the
// resolved path.
package engine
