package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// MinimalProject is the smallest project text the patcher accepts.
const MinimalProject = "<REAPER_PROJECT 0.1 \"7.0\" 1700000000\n  TEMPO 120 4 4\n>\n"

// WriteProject writes a project named name under dir (creating parents) and
// returns its path. An empty body writes MinimalProject.
func WriteProject(t testing.TB, dir, name, body string) string {
	t.Helper()
	if body == "" {
		body = MinimalProject
	}
	path := filepath.Join(dir, name+".rpp")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Age sets path's access and modification times to now minus age.
func Age(t testing.TB, path string, age time.Duration) {
	t.Helper()
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}
