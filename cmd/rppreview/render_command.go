package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rppreview/internal/config"
	"rppreview/internal/engine"
	"rppreview/internal/history"
	"rppreview/internal/logging"
	"rppreview/internal/preview"
	"rppreview/internal/project"
	"rppreview/internal/render"
	"rppreview/internal/rpp"
	"rppreview/internal/services"
	"rppreview/internal/staging"
)

func runRender(cmd *cobra.Command, ctx *commandContext, flags renderFlags) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *base
	if err := applyRenderFlags(cmd, &cfg, flags); err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for .rpp files in %s...\n", cfg.Paths.InputDir)
	projects, err := project.Discover(cfg.Paths.InputDir)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d %s:\n", len(projects), plural(len(projects), "project", "projects"))
	fmt.Fprintln(out, projectTable(projects))

	if flags.dryRun {
		fmt.Fprintln(out, "Dry run mode - no rendering performed.")
		return nil
	}
	return renderProjects(cmd, &cfg, logger, projects, flags.force)
}

// applyRenderFlags copies explicitly set flags over the loaded config and
// re-validates the result.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config, flags renderFlags) error {
	fs := cmd.Flags()
	if fs.Changed("format") {
		if _, err := rpp.ParseFormat(flags.format); err != nil {
			return fmt.Errorf("--format: %w", err)
		}
		cfg.Render.Format = flags.format
	}
	if fs.Changed("input-dir") {
		cfg.Paths.InputDir = flags.inputDir
	}
	if fs.Changed("output-dir") {
		cfg.Paths.OutputDir = flags.outputDir
	}
	if fs.Changed("start") {
		cfg.Render.Start = flags.start
	}
	if fs.Changed("duration") {
		cfg.Render.Duration = flags.duration
	}
	if fs.Changed("timeout") {
		cfg.Render.Timeout = flags.timeout
	}
	if fs.Changed("reaper-bin") {
		cfg.Engine.Binary = flags.reaperBin
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	return cfg.Validate()
}

func renderProjects(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, projects []project.Descriptor, force bool) error {
	runID := uuid.NewString()
	runCtx := services.WithRunID(cmd.Context(), runID)
	cliLogger := logging.WithContext(runCtx, logging.NewComponentLogger(logger, "cli"))

	resolution, err := engine.NewLocator().Resolve(cfg.Engine.Binary)
	if err != nil {
		return err
	}
	if resolution.Rejected != "" {
		logging.WarnWithContext(cliLogger, "configured render engine is not usable; using auto-detected engine", "engine_fallback",
			logging.String("configured", resolution.Rejected),
			logging.String("engine", resolution.Path),
			logging.String(logging.FieldErrorHint, "fix engine.binary or --reaper-bin"),
			logging.String(logging.FieldImpact, "renders use "+resolution.Path),
		)
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		return err
	}
	if err := cfg.EnsureTempDir(); err != nil {
		return err
	}
	lock, err := preview.AcquireOutputLock(cfg.Paths.OutputDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	sweepStaleTemps(runCtx, cfg, cliLogger)

	client, err := render.New(resolution.Path, cfg.Render.Timeout)
	if err != nil {
		return err
	}
	cliLogger.Info("render engine resolved",
		logging.String("engine", client.Binary()),
		logging.String("source", string(resolution.Source)),
	)
	format, err := rpp.ParseFormat(cfg.Render.Format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	opts := []preview.Option{
		preview.WithProgress(func(index, total int, res preview.Result) {
			fmt.Fprintln(out, progressLine(index, total, res, colorize))
		}),
	}
	if store := openHistory(cfg, cliLogger); store != nil {
		defer store.Close()
		opts = append(opts, preview.WithRecorder(store))
	}

	runner := preview.New(client, logger, opts...)
	summary, runErr := runner.Run(runCtx, projects, preview.Options{
		OutputDir: cfg.Paths.OutputDir,
		TempDir:   cfg.TempDir(),
		Format:    format,
		Start:     cfg.Render.Start,
		Duration:  cfg.Render.Duration,
		Force:     force,
		RunID:     runID,
	})

	printSummary(out, summary)
	return runErr
}

func sweepStaleTemps(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	maxAge := time.Duration(cfg.Render.StaleTempHours) * time.Hour
	result := staging.CleanStale(ctx, cfg.TempDir(), rpp.TempPrefix, rpp.TempSuffix, maxAge, logger)
	if len(result.Removed) > 0 {
		logger.Info("removed stale temp projects",
			logging.Int("count", len(result.Removed)),
			logging.String("dir", cfg.TempDir()),
		)
	}
	for _, e := range result.Errors {
		logging.WarnWithContext(logger, "stale temp cleanup failed", "temp_cleanup_failed",
			logging.String("path", e.Path),
			logging.Error(e.Error),
			logging.String(logging.FieldErrorHint, "remove the file manually"),
		)
	}
}

// openHistory returns nil when history is disabled or unavailable; renders
// proceed either way.
func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logging.WarnWithContext(logger, "render history unavailable", "history_unavailable",
			logging.String("path", cfg.History.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path permissions or set history.enabled = false"),
			logging.String(logging.FieldImpact, "outcomes of this run are not recorded"),
		)
		return nil
	}
	return store
}

func printSummary(out io.Writer, summary preview.Summary) {
	if len(summary.Results) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, resultsTable(summary.Results))
	}
	if summary.Interrupted {
		fmt.Fprintln(out, "Interrupted; remaining projects were not rendered.")
	}
	fmt.Fprintf(out, "Done: %d successful, %d skipped, %d failed\n", summary.Successful, summary.Skipped, summary.Failed)
}

func failureDetail(err error) string {
	if err == nil {
		return "failed"
	}
	var exitErr *render.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Error()
	}
	return err.Error()
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
