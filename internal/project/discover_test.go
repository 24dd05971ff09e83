package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"rppreview/internal/project"
	"rppreview/internal/services"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<REAPER_PROJECT\n>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func names(projects []project.Descriptor) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Name)
	}
	return out
}

func TestDiscoverSkipsBackupsAndSorts(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "song.rpp"))
	touch(t, filepath.Join(root, "song.rpp-bak"))
	touch(t, filepath.Join(root, "song.rpp-undo"))
	touch(t, filepath.Join(root, "sub", "deep.rpp"))

	projects, err := project.Discover(root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if got, want := names(projects), []string{"deep", "song"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected projects: got %v want %v", got, want)
	}

	deep := projects[0]
	if deep.SourcePath != filepath.Join(root, "sub", "deep.rpp") {
		t.Fatalf("unexpected source path: %s", deep.SourcePath)
	}
	if deep.Dir != filepath.Join(root, "sub") {
		t.Fatalf("unexpected dir: %s", deep.Dir)
	}
}

func TestDiscoverEmptyTree(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "notes.txt"))

	projects, err := project.Discover(root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("expected no projects, got %v", names(projects))
	}
}

func TestDiscoverUppercaseExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Live.RPP"))

	projects, err := project.Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := names(projects); !reflect.DeepEqual(got, []string{"Live"}) {
		t.Fatalf("unexpected projects: %v", got)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := project.Discover(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, services.ErrDiscoveryIO) {
		t.Fatalf("expected ErrDiscoveryIO, got %v", err)
	}
	if !services.IsRunFatal(err) {
		t.Fatal("discovery failures must be run-fatal")
	}
}

func TestDiscoverNormalisesNames(t *testing.T) {
	root := t.TempDir()
	// "Café" decomposed (e + combining acute) must sort as if composed.
	touch(t, filepath.Join(root, "a", "Cafe\u0301.rpp"))
	touch(t, filepath.Join(root, "b", "Cafz.rpp"))
	touch(t, filepath.Join(root, "c", "Cafa.rpp"))

	projects, err := project.Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	got := names(projects)
	want := []string{"Cafa", "Cafz", "Cafe\u0301"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got %q want %q", got, want)
	}
}

func TestDuplicateNames(t *testing.T) {
	projects := []project.Descriptor{
		{Name: "mix"}, {Name: "intro"}, {Name: "mix"}, {Name: "outro"},
	}
	if got := project.DuplicateNames(projects); !reflect.DeepEqual(got, []string{"mix"}) {
		t.Fatalf("unexpected duplicates: %v", got)
	}
	if got := project.DuplicateNames(projects[:2]); len(got) != 0 {
		t.Fatalf("expected no duplicates, got %v", got)
	}
}
