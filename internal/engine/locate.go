package engine

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"rppreview/internal/services"
)

// SearchName is the engine name looked up on PATH.
const SearchName = "reaper"

// Locator finds the REAPER executable. Zero-value fields fall back to the
// host environment; tests override them.
type Locator struct {
	LookPath     func(string) (string, error)
	GOOS         string
	Home         func() (string, error)
	IsExecutable func(string) bool
}

// Source describes how an engine path was found.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourcePath     Source = "search path"
	SourceKnown    Source = "known location"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Path   string
	Source Source
	// Rejected holds the explicit value that could not be used, if any.
	Rejected string
}

// NewLocator returns a Locator bound to the running host.
func NewLocator() Locator {
	return Locator{}.withDefaults()
}

func (l Locator) withDefaults() Locator {
	if l.LookPath == nil {
		l.LookPath = exec.LookPath
	}
	if l.GOOS == "" {
		l.GOOS = runtime.GOOS
	}
	if l.Home == nil {
		l.Home = os.UserHomeDir
	}
	if l.IsExecutable == nil {
		l.IsExecutable = isExecutable
	}
	return l
}

// Candidates lists the per-platform install locations probed after PATH.
func (l Locator) Candidates() []string {
	l = l.withDefaults()
	switch l.GOOS {
	case "linux":
		paths := []string{"/opt/REAPER/reaper", "/usr/local/bin/reaper"}
		if home, err := l.Home(); err == nil && home != "" {
			paths = append(paths, filepath.Join(home, "opt", "REAPER", "reaper"))
		}
		return paths
	case "darwin":
		return []string{
			"/Applications/REAPER.app/Contents/MacOS/REAPER",
			"/Applications/REAPER64.app/Contents/MacOS/REAPER",
		}
	case "windows":
		return []string{
			`C:\Program Files\REAPER (x64)\reaper.exe`,
			`C:\Program Files\REAPER\reaper.exe`,
		}
	default:
		return nil
	}
}

// Locate returns the first engine found on PATH or at a known location.
func (l Locator) Locate() (string, Source, bool) {
	l = l.withDefaults()
	if path, err := l.LookPath(SearchName); err == nil && path != "" {
		return path, SourcePath, true
	}
	for _, candidate := range l.Candidates() {
		if l.IsExecutable(candidate) {
			return candidate, SourceKnown, true
		}
	}
	return "", "", false
}

// Resolve prefers explicit when it names a usable executable (a path or a
// name on PATH). Otherwise it auto-detects; Resolution.Rejected records the
// explicit value that was skipped so callers can warn about it.
func (l Locator) Resolve(explicit string) (Resolution, error) {
	l = l.withDefaults()
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if path, ok := l.usable(explicit); ok {
			return Resolution{Path: path, Source: SourceExplicit}, nil
		}
	}

	path, source, ok := l.Locate()
	if !ok {
		detail := "searched PATH and known install locations"
		if explicit != "" {
			detail = fmt.Sprintf("%q is not executable; %s", explicit, detail)
		}
		return Resolution{Rejected: explicit}, services.Wrap(services.ErrEngineNotFound, "engine", "locate", detail, nil)
	}
	return Resolution{Path: path, Source: source, Rejected: explicit}, nil
}

func (l Locator) usable(value string) (string, bool) {
	if strings.ContainsAny(value, `/\`) {
		if l.IsExecutable(value) {
			return value, true
		}
		return "", false
	}
	if path, err := l.LookPath(value); err == nil && path != "" {
		return path, true
	}
	return "", false
}
