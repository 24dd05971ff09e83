// Package config loads, normalizes, and validates rppreview configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the REAPER_BIN environment
// fallback for the render engine path. The Config type centralizes every knob
// the CLI and preview pipeline need so input/output directories, render
// windows, and logging are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical enum values, and clear validation errors.
package config
