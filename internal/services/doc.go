// Package services defines shared utilities consumed by the preview pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, project names, and stage
//     names for logging.
//   - Structured error markers plus the Wrap helper that let the orchestrator
//     decide whether a failure is fatal to the run or tallied per project.
//
// Use these helpers when wiring new pipeline steps so operational behaviour
// (error classification, observability) stays uniform.
package services
