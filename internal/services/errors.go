package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDiscoveryIO    = errors.New("discovery i/o error")
	ErrPatchIO        = errors.New("patch i/o error")
	ErrRenderTimeout  = errors.New("render timeout")
	ErrRenderFailed   = errors.New("render failed")
	ErrEngineNotFound = errors.New("render engine not found")
	ErrOutputLocked   = errors.New("output directory locked")
	ErrUnexpected     = errors.New("unexpected failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUnexpected
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRunFatal reports whether err must abort the whole run rather than a
// single project.
func IsRunFatal(err error) bool {
	return errors.Is(err, ErrDiscoveryIO) ||
		errors.Is(err, ErrEngineNotFound) ||
		errors.Is(err, ErrOutputLocked)
}

// FailureKind maps a per-project error to the short label used in log event
// types and the render history.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRenderTimeout):
		return "render_timeout"
	case errors.Is(err, ErrRenderFailed):
		return "render_failed"
	case errors.Is(err, ErrPatchIO):
		return "patch_io"
	default:
		return "unexpected"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
