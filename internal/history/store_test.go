package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"rppreview/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []history.Entry{
		{RunID: "run-1", Project: "intro", SourcePath: "/p/intro.rpp", OutputPath: "/o/intro.mp3", Status: history.StatusSucceeded, Duration: 1500 * time.Millisecond, RecordedAt: base},
		{RunID: "run-1", Project: "verse", SourcePath: "/p/verse.rpp", Status: history.StatusFailed, Detail: "render failed: engine exited with code 1", RecordedAt: base.Add(time.Second)},
		{RunID: "run-1", Project: "outro", SourcePath: "/p/outro.rpp", OutputPath: "/o/outro.mp3", Status: history.StatusSkipped, RecordedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.Project, err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Project != "outro" || got[1].Project != "verse" {
		t.Fatalf("expected newest first, got %s then %s", got[0].Project, got[1].Project)
	}
	if got[1].Detail == "" || got[1].OutputPath != "" {
		t.Fatalf("unexpected failed entry: %+v", got[1])
	}
	if !got[0].RecordedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("unexpected timestamp: %v", got[0].RecordedAt)
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected default limit to include all 3 entries, got %d", len(all))
	}
	if all[2].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected duration: %s", all[2].Duration)
	}
}

func TestRecentOrdersSubSecondTimestamps(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	whole := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)

	entries := []history.Entry{
		{Project: "later", RecordedAt: whole.Add(120 * time.Millisecond)},
		{Project: "earlier", RecordedAt: whole.Add(100 * time.Millisecond)},
		{Project: "whole", RecordedAt: whole},
	}
	for _, e := range entries {
		e.RunID = "run-1"
		e.SourcePath = "/p/" + e.Project + ".rpp"
		e.Status = history.StatusSucceeded
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.Project, err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"later", "earlier", "whole"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Project != name {
			t.Fatalf("entry %d: got %q want %q (order %v)", i, got[i].Project, name, projects(got))
		}
	}
	if !got[0].RecordedAt.Equal(whole.Add(120 * time.Millisecond)) {
		t.Fatalf("recorded_at did not round-trip: %v", got[0].RecordedAt)
	}
}

func projects(entries []history.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Project)
	}
	return names
}

func TestRecordRequiresStatus(t *testing.T) {
	store := openStore(t)
	if err := store.Record(context.Background(), history.Entry{Project: "x"}); err == nil {
		t.Fatal("expected error for missing status")
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := history.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Record(context.Background(), history.Entry{RunID: "a", Project: "song", SourcePath: "/p/song.rpp", Status: history.StatusSucceeded}); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	entries, err := second.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Project != "song" {
		t.Fatalf("expected persisted entry, got %+v", entries)
	}
	if second.Path() != path {
		t.Fatalf("unexpected path %q", second.Path())
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := history.Open(" "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCloseNilStore(t *testing.T) {
	var store *history.Store
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
