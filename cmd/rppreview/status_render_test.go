package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"rppreview/internal/preview"
	"rppreview/internal/project"
	"rppreview/internal/render"
	"rppreview/internal/services"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Render engine", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Render engine:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("alpha", statusOK, "rendered", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestProgressLine(t *testing.T) {
	p := project.Descriptor{Name: "alpha"}
	cases := []struct {
		res  preview.Result
		want string
	}{
		{preview.Result{Project: p, Status: preview.StatusSucceeded, OutputPath: "/out/alpha.mp3", Elapsed: 1500 * time.Millisecond}, "[OK] /out/alpha.mp3 (1.5s)"},
		{preview.Result{Project: p, Status: preview.StatusSkipped}, "[SKIP] up to date"},
		{preview.Result{Project: p, Status: preview.StatusFailed, Err: services.Wrap(services.ErrRenderFailed, "render", "run engine", "", &render.ExitError{Code: 2, Stderr: "boom"})}, "[ERROR] engine exited with code 2"},
	}
	for _, tc := range cases {
		got := progressLine(2, 3, tc.res, false)
		if !strings.Contains(got, "[2/3] alpha:") {
			t.Fatalf("missing position label in %q", got)
		}
		if !strings.Contains(got, tc.want) {
			t.Fatalf("expected %q in %q", tc.want, got)
		}
	}
}

func TestResultsTableTruncatesErrors(t *testing.T) {
	long := errors.New(strings.Repeat("x", 200))
	table := resultsTable([]preview.Result{
		{Project: project.Descriptor{Name: "bravo"}, Status: preview.StatusFailed, Err: long},
	})
	if !strings.Contains(table, "bravo") || !strings.Contains(table, "...") {
		t.Fatalf("expected truncated failure row, got:\n%s", table)
	}
	if strings.Contains(table, strings.Repeat("x", maxDetailWidth)) {
		t.Fatalf("expected detail to be truncated to %d runes", maxDetailWidth)
	}
}

func TestRenderStatusLineSkipAndUnknownKinds(t *testing.T) {
	if got := renderStatusLine("alpha", statusSkip, "up to date", true); !strings.HasPrefix(got, ansiDim) {
		t.Fatalf("expected dim prefix for skipped project, got %q", got)
	}
	if got := renderStatusLine("alpha", statusKind(99), "", false); !strings.HasSuffix(got, "[INFO]") {
		t.Fatalf("unknown kinds should render as INFO, got %q", got)
	}
}
