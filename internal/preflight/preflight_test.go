package preflight

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"rppreview/internal/config"
	"rppreview/internal/engine"
	"rppreview/internal/rpp"
)

func stubLocator(found string) engine.Locator {
	return engine.Locator{
		GOOS: "linux",
		LookPath: func(name string) (string, error) {
			if found != "" && name == engine.SearchName {
				return found, nil
			}
			return "", exec.ErrNotFound
		},
		Home:         func() (string, error) { return "", os.ErrNotExist },
		IsExecutable: func(string) bool { return false },
	}
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read/write ok") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDirectory_WillBeCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "previews", "nested")
	result := CheckOutputDirectory("Output directory", path)
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckOutputDirectory_UnderFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("path semantics differ on windows")
	}
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckOutputDirectory("Output directory", filepath.Join(f, "previews"))
	if result.Passed {
		t.Fatalf("expected failure when ancestor is a file, got %s", result.Detail)
	}
}

func TestCheckEngine(t *testing.T) {
	ok := CheckEngine(stubLocator("/usr/bin/reaper"), "")
	if !ok.Passed || !ok.Required || !strings.Contains(ok.Detail, "/usr/bin/reaper") {
		t.Fatalf("unexpected engine result: %+v", ok)
	}

	missing := CheckEngine(stubLocator(""), "")
	if missing.Passed {
		t.Fatalf("expected missing engine, got %+v", missing)
	}
}

func TestCheckLeftoverTemps(t *testing.T) {
	dir := t.TempDir()
	if got := CheckLeftoverTemps(dir); !got.Passed || got.Detail != "none" {
		t.Fatalf("unexpected empty result: %+v", got)
	}

	path := filepath.Join(dir, rpp.TempPrefix+"abc"+rpp.TempSuffix)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	got := CheckLeftoverTemps(dir)
	if !got.Passed || !strings.HasPrefix(got.Detail, "1 ") {
		t.Fatalf("unexpected leftover result: %+v", got)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil, stubLocator("")); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = base
	cfg.Paths.OutputDir = filepath.Join(base, "previews")
	cfg.Paths.TempDir = t.TempDir()
	cfg.History.Path = filepath.Join(base, "state", "history.db")

	results := RunAll(&cfg, stubLocator("/usr/bin/reaper"))
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}

	cfg.History.Enabled = false
	results = RunAll(&cfg, stubLocator(""))
	if results[0].Passed {
		t.Fatal("expected engine check to fail")
	}
	if last := results[len(results)-1]; last.Detail != "disabled" {
		t.Fatalf("expected disabled history, got %+v", last)
	}
}
