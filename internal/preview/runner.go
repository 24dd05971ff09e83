package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rppreview/internal/fileutil"
	"rppreview/internal/history"
	"rppreview/internal/logging"
	"rppreview/internal/project"
	"rppreview/internal/render"
	"rppreview/internal/rpp"
	"rppreview/internal/services"
)

// Renderer runs the external engine against a prepared project.
type Renderer interface {
	Render(ctx context.Context, projectPath, outputDir, baseName string, format rpp.Format) (string, error)
}

// PrepareFunc writes a patched temp copy of a project and returns its path.
type PrepareFunc func(srcPath string, spec rpp.RenderSpec, tempDir string) (string, error)

// Recorder persists per-project outcomes.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Status is the terminal state of one project.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result is the outcome of one project.
type Result struct {
	Project    project.Descriptor
	Status     Status
	OutputPath string
	Err        error
	Elapsed    time.Duration
}

// Summary aggregates a run.
type Summary struct {
	Successful  int
	Skipped     int
	Failed      int
	Results     []Result
	Interrupted bool
}

func (s *Summary) add(res Result) {
	switch res.Status {
	case StatusSucceeded:
		s.Successful++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
	s.Results = append(s.Results, res)
}

// Options are the run-wide render parameters.
type Options struct {
	OutputDir string
	TempDir   string
	Format    rpp.Format
	Start     float64
	Duration  float64
	// Force re-renders projects whose output is already newer than the source.
	Force bool
	RunID string
}

// Option configures the runner.
type Option func(*Runner)

// WithPrepare replaces the project patcher (primarily for tests).
func WithPrepare(fn PrepareFunc) Option {
	return func(r *Runner) {
		if fn != nil {
			r.prepare = fn
		}
	}
}

// WithRecorder stores each project outcome.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithProgress registers a callback invoked after each project.
func WithProgress(fn func(index, total int, res Result)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithClock overrides the time source used for elapsed times.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Runner processes projects one at a time: freshness check, patch, render,
// and temp cleanup.
type Runner struct {
	renderer Renderer
	prepare  PrepareFunc
	recorder Recorder
	progress func(int, int, Result)
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs a Runner.
func New(renderer Renderer, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		renderer: renderer,
		prepare:  rpp.Prepare,
		logger:   logging.NewComponentLogger(logger, "preview"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes projects in order. Per-project failures are tallied and
// never stop the run. Cancelling ctx stops before the next project; the
// returned error is then ctx.Err() and Summary.Interrupted is set.
func (r *Runner) Run(ctx context.Context, projects []project.Descriptor, opts Options) (Summary, error) {
	ctx = services.WithRunID(ctx, opts.RunID)
	logger := logging.WithContext(ctx, r.logger)
	summary := Summary{Results: make([]Result, 0, len(projects))}

	for _, name := range project.DuplicateNames(projects) {
		logging.WarnWithContext(logger, "duplicate project name", "duplicate_project",
			logging.String(logging.FieldProject, name),
			logging.String("output", render.OutputPath(opts.OutputDir, name, opts.Format)),
			logging.String(logging.FieldErrorHint, "rename one of the projects"),
			logging.String(logging.FieldImpact, "projects share one output file; later ones may be skipped or overwrite earlier renders"),
		)
	}

	for i, p := range projects {
		if err := ctx.Err(); err != nil {
			summary.Interrupted = true
			logging.WarnWithContext(logger, "run interrupted", "run_interrupted",
				logging.Int("remaining", len(projects)-i),
				logging.String(logging.FieldErrorHint, "re-run to render the remaining projects"),
				logging.String(logging.FieldImpact, "remaining projects not rendered"),
			)
			return summary, err
		}

		res := r.processProject(ctx, p, opts)
		summary.add(res)
		r.record(ctx, opts.RunID, res)
		if r.progress != nil {
			r.progress(i+1, len(projects), res)
		}
	}

	logger.Info("run complete",
		logging.Int("successful", summary.Successful),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.String(logging.FieldEventType, "run_complete"),
	)
	return summary, nil
}

func (r *Runner) processProject(ctx context.Context, p project.Descriptor, opts Options) (res Result) {
	ctx = services.WithProject(ctx, p.Name)
	started := r.now()
	res = Result{Project: p, OutputPath: render.OutputPath(opts.OutputDir, p.Name, opts.Format)}

	var tempPath string
	defer func() {
		if rec := recover(); rec != nil {
			res.Status = StatusFailed
			res.Err = services.Wrap(services.ErrUnexpected, "preview", "process project", fmt.Sprint(rec), nil)
		}
		res.Elapsed = r.now().Sub(started)
		r.logOutcome(ctx, res)
	}()
	defer func() {
		fileutil.RemoveQuietly(tempPath)
	}()

	if !opts.Force {
		fresh, err := fileutil.NewerThan(res.OutputPath, p.SourcePath)
		if err != nil {
			r.logger.Debug("freshness check failed", logging.String(logging.FieldProject, p.Name), logging.Error(err))
		}
		if fresh {
			res.Status = StatusSkipped
			return res
		}
	}

	spec := rpp.RenderSpec{
		OutputDir: opts.OutputDir,
		Pattern:   p.Name,
		Start:     opts.Start,
		End:       opts.Start + opts.Duration,
		Format:    opts.Format,
	}

	var err error
	tempPath, err = r.prepare(p.SourcePath, spec, opts.TempDir)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	output, err := r.renderer.Render(services.WithStage(ctx, "render"), tempPath, opts.OutputDir, p.Name, opts.Format)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Status = StatusSucceeded
	res.OutputPath = output
	return res
}

func (r *Runner) logOutcome(ctx context.Context, res Result) {
	logger := logging.WithContext(ctx, r.logger)
	switch res.Status {
	case StatusSucceeded:
		logger.Info("project rendered",
			logging.String("output", res.OutputPath),
			logging.Duration("elapsed", res.Elapsed),
			logging.String(logging.FieldEventType, "project_rendered"),
		)
	case StatusSkipped:
		logger.Info("project skipped; output is up to date",
			logging.String("output", res.OutputPath),
			logging.String(logging.FieldEventType, "project_skipped"),
		)
	default:
		kind := services.FailureKind(res.Err)
		logging.WarnWithContext(logger, "project failed", kind,
			logging.String("source", res.Project.SourcePath),
			logging.Error(res.Err),
			logging.String(logging.FieldErrorHint, failureHint(res.Err)),
			logging.String(logging.FieldImpact, "no preview for this project; run continues"),
		)
	}
}

func (r *Runner) record(ctx context.Context, runID string, res Result) {
	if r.recorder == nil {
		return
	}
	entry := history.Entry{
		RunID:      runID,
		Project:    res.Project.Name,
		SourcePath: res.Project.SourcePath,
		Status:     string(res.Status),
		Duration:   res.Elapsed,
	}
	if res.Status != StatusFailed {
		entry.OutputPath = res.OutputPath
	}
	if res.Err != nil {
		entry.Detail = res.Err.Error()
	}
	// A cancelled run still records what finished.
	if err := r.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(r.logger, "failed to record render history", "history_record_failed",
			logging.String(logging.FieldProject, res.Project.Name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path permissions"),
			logging.String(logging.FieldImpact, "history incomplete; render results unaffected"),
		)
	}
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrRenderTimeout):
		return "raise render.timeout or check that the project opens without dialogs"
	case errors.Is(err, services.ErrRenderFailed):
		return "open the project in REAPER to check for missing media or plugins"
	case errors.Is(err, services.ErrPatchIO):
		return "check project file permissions and temp_dir"
	default:
		return "check logs for details"
	}
}
