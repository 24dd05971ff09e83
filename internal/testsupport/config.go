package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"rppreview/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The input and temp directories exist; the output directory does not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "projects")
	cfgVal.Paths.OutputDir = filepath.Join(base, "previews")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Paths.LogDir = ""
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Engine.Binary = ""

	for _, dir := range []string{cfgVal.Paths.InputDir, cfgVal.Paths.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithHistoryDisabled turns off the render history ledger.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStubbedBinaries writes stub executables that exit 0 for the provided
// names and prepends them to PATH. If names is empty, "reaper" is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"reaper"}
		}
		binDir := b.binDir()
		for _, name := range names {
			writeScript(b.t, filepath.Join(binDir, name), "#!/bin/sh\nexit 0\n")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// renderingEngineScript mimics a headless render: it reads the destination
// and pattern from the patched project and creates the output file.
const renderingEngineScript = `#!/bin/sh
project="$4"
dir=$(sed -n 's/^  RENDER_FILE "\(.*\)"$/\1/p' "$project")
name=$(sed -n 's/^  RENDER_PATTERN "\(.*\)"$/\1/p' "$project")
if grep -q '^    ZXZhdxgAAQ==' "$project"; then ext=wav; else ext=mp3; fi
: > "$dir/$name.$ext"
`

// WithRenderingEngine installs a stub engine that produces the expected
// output file and points engine.binary at it.
func WithRenderingEngine() ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.binDir(), "reaper")
		writeScript(b.t, path, renderingEngineScript)
		b.cfg.Engine.Binary = path
	}
}

// WithFailingEngine installs a stub engine that exits non-zero for projects
// whose patched pattern matches failName and renders all others.
func WithFailingEngine(failName string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.binDir(), "reaper")
		script := `#!/bin/sh
if grep -q '^  RENDER_PATTERN "` + failName + `"' "$4"; then
  echo "render aborted" >&2
  exit 1
fi
` + renderingEngineScript[len("#!/bin/sh\n"):]
		writeScript(b.t, path, script)
		b.cfg.Engine.Binary = path
	}
}

func (b *configBuilder) binDir() string {
	dir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	return dir
}

func writeScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
