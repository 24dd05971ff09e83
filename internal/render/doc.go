// Package render invokes the REAPER engine in headless render mode and
// verifies that the expected output file appeared.
//
// The Client mirrors the other external-tool wrappers: an Executor seam for
// tests, a per-call timeout, and errors tagged with services markers so the
// orchestrator can tally timeouts and failures separately.
package render
