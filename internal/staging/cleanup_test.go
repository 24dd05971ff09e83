package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rppreview/internal/logging"
)

const (
	testPrefix = "reaper_preview_"
	testSuffix = ".rpp"
)

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("<REAPER_PROJECT\n>\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("set time: %v", err)
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, testPrefix, testSuffix, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldArtifacts(t *testing.T) {
	tmpDir := t.TempDir()

	oldFile := filepath.Join(tmpDir, testPrefix+"abc123.rpp")
	writeAged(t, oldFile, 2*time.Hour)
	recentFile := filepath.Join(tmpDir, testPrefix+"def456.rpp")
	writeAged(t, recentFile, 0)

	result := CleanStale(context.Background(), tmpDir, testPrefix, testSuffix, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 {
		t.Fatalf("expected 1 removed, got %d", len(result.Removed))
	}
	if result.Removed[0] != oldFile {
		t.Errorf("expected %s to be removed, got %s", oldFile, result.Removed[0])
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("old artifact should have been removed")
	}
	if _, err := os.Stat(recentFile); err != nil {
		t.Error("recent artifact should still exist")
	}
}

func TestCleanStaleIgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()

	others := []string{
		filepath.Join(tmpDir, "song.rpp"),
		filepath.Join(tmpDir, testPrefix+"notes.txt"),
		filepath.Join(tmpDir, testPrefix+".rpp"),
	}
	for _, p := range others {
		writeAged(t, p, 48*time.Hour)
	}
	dirArtifact := filepath.Join(tmpDir, testPrefix+"dir.rpp")
	if err := os.Mkdir(dirArtifact, 0o755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(dirArtifact, old, old); err != nil {
		t.Fatal(err)
	}

	result := CleanStale(context.Background(), tmpDir, testPrefix, testSuffix, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals, got %v", result.Removed)
	}
	for _, p := range append(others, dirArtifact) {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should not have been removed", p)
		}
	}
}

func TestCleanStaleDisabledWithZeroAge(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, testPrefix+"x.rpp")
	writeAged(t, path, 72*time.Hour)

	result := CleanStale(context.Background(), tmpDir, testPrefix, testSuffix, 0, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected sweep to be disabled, got %v", result.Removed)
	}
}

func TestListArtifactsOldestFirst(t *testing.T) {
	tmpDir := t.TempDir()
	newer := filepath.Join(tmpDir, testPrefix+"b.rpp")
	older := filepath.Join(tmpDir, testPrefix+"a.rpp")
	writeAged(t, newer, time.Hour)
	writeAged(t, older, 3*time.Hour)
	writeAged(t, filepath.Join(tmpDir, "unrelated.rpp"), 5*time.Hour)

	artifacts, err := ListArtifacts(tmpDir, testPrefix, testSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[0].Path != older || artifacts[1].Path != newer {
		t.Fatalf("unexpected order: %s, %s", artifacts[0].Path, artifacts[1].Path)
	}
	if artifacts[0].Size == 0 {
		t.Fatal("expected size to be populated")
	}

	missing, err := ListArtifacts(filepath.Join(tmpDir, "missing"), testPrefix, testSuffix)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing dir, got %v (err=%v)", missing, err)
	}
}
