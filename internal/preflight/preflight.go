package preflight

import (
	"fmt"

	"rppreview/internal/config"
	"rppreview/internal/engine"
	"rppreview/internal/rpp"
	"rppreview/internal/staging"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Required bool
}

// RunAll executes the environment checks behind the check command.
// Only the engine check is required for a render run to start.
func RunAll(cfg *config.Config, locator engine.Locator) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckEngine(locator, cfg.Engine.Binary)}
	results = append(results, CheckDirectoryAccess("Input directory", cfg.Paths.InputDir, false))
	results = append(results, CheckOutputDirectory("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckDirectoryAccess("Temp directory", cfg.TempDir(), true))
	results = append(results, CheckLeftoverTemps(cfg.TempDir()))
	if cfg.History.Enabled {
		results = append(results, CheckOutputDirectory("History database", cfg.History.Path))
	} else {
		results = append(results, Result{Name: "History database", Passed: true, Detail: "disabled"})
	}
	return results
}

// CheckEngine reports whether a render engine can be resolved.
func CheckEngine(locator engine.Locator, explicit string) Result {
	status := locator.Check(explicit)
	result := Result{Name: "Render engine", Passed: status.Available, Required: true}
	switch {
	case !status.Available:
		result.Detail = fmt.Sprintf("%s (%s)", status.Command, status.Detail)
	case status.Detail != "":
		result.Detail = fmt.Sprintf("%s (%s)", status.Command, status.Detail)
	default:
		result.Detail = fmt.Sprintf("%s (via %s)", status.Command, status.Source)
	}
	return result
}

// CheckLeftoverTemps reports patched project copies still in the temp dir.
// It never fails; stale copies are swept at the start of each render run.
func CheckLeftoverTemps(tempDir string) Result {
	const name = "Leftover temp projects"
	artifacts, err := staging.ListArtifacts(tempDir, rpp.TempPrefix, rpp.TempSuffix)
	if err != nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("unable to list: %v", err)}
	}
	if len(artifacts) == 0 {
		return Result{Name: name, Passed: true, Detail: "none"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d (oldest %s)", len(artifacts), artifacts[0].ModTime.Format("2006-01-02 15:04"))}
}
