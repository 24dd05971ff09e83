package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"rppreview/internal/fileutil"
	"rppreview/internal/rpp"
	"rppreview/internal/services"
)

// DefaultTimeout bounds a single engine invocation when none is configured.
const DefaultTimeout = 300 * time.Second

// waitDelay caps how long Wait blocks on inherited stdio after the engine
// is killed, so a child that forked helpers cannot stall the run.
const waitDelay = 5 * time.Second

var commandContext = exec.CommandContext

// ExecResult captures the outcome of a completed engine process.
type ExecResult struct {
	ExitCode int
	Stderr   string
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (ExecResult, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeout overrides the per-render timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client drives the REAPER command-line renderer.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a render client for the engine at binary.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("render engine binary required")
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &Client{
		binary:  binary,
		timeout: timeout,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the engine path the client invokes.
func (c *Client) Binary() string {
	return c.binary
}

// Args returns the engine arguments for a silent single-project render.
func Args(projectPath string) []string {
	return []string{"-nosplash", "-noactivate", "-renderproject", projectPath}
}

// OutputPath is where the engine is expected to write baseName's render.
func OutputPath(outputDir, baseName string, format rpp.Format) string {
	return filepath.Join(outputDir, baseName+"."+format.Extension())
}

// Render runs the engine against projectPath and returns the rendered file.
// A zero exit status alone is not trusted: the output must exist afterwards.
func (c *Client) Render(ctx context.Context, projectPath, outputDir, baseName string, format rpp.Format) (string, error) {
	renderCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.exec.Run(renderCtx, c.binary, Args(projectPath))
	switch {
	case ctx.Err() != nil:
		return "", services.Wrap(services.ErrRenderFailed, "render", "engine", "cancelled", ctx.Err())
	case errors.Is(renderCtx.Err(), context.DeadlineExceeded):
		return "", services.Wrap(services.ErrRenderTimeout, "render", "engine", fmt.Sprintf("timed out after %s", c.timeout), nil)
	case err != nil:
		return "", services.Wrap(services.ErrRenderFailed, "render", "start engine", c.binary, err)
	case result.ExitCode != 0:
		return "", services.Wrap(services.ErrRenderFailed, "render", "engine", "", &ExitError{Code: result.ExitCode, Stderr: result.Stderr})
	}

	outputPath := OutputPath(outputDir, baseName, format)
	if !fileutil.Exists(outputPath) {
		return "", services.Wrap(services.ErrRenderFailed, "render", "verify output", "", &MissingOutputError{Path: outputPath})
	}
	return outputPath, nil
}

// ExitError reports a non-zero engine exit.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		stderr = "(none)"
	}
	return fmt.Sprintf("engine exited with code %d. stderr: %s", e.Code, stderr)
}

// MissingOutputError reports a render that exited cleanly without producing
// its output file.
type MissingOutputError struct {
	Path string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("render output %s was not created", e.Path)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (ExecResult, error) {
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result := ExecResult{Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("run engine: %w", err)
}
