// Package main hosts the rppreview CLI entrypoint and command graph.
//
// The root command scans an input tree for REAPER projects and renders a
// short preview of each through the headless engine. Subcommands cover
// environment checks, render history, and configuration scaffolding.
//
// Keep this package lean: behavior lives in the internal packages and is
// surfaced here through flags and output formatting.
package main
