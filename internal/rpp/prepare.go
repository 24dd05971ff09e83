package rpp

import (
	"fmt"
	"os"
	"path/filepath"

	"rppreview/internal/fileutil"
	"rppreview/internal/services"
)

// Temp artifacts are named TempPrefix + random + TempSuffix so stale copies
// can be recognised and swept.
const (
	TempPrefix = "reaper_preview_"
	TempSuffix = ".rpp"
)

// Prepare reads the project at srcPath, patches it for spec, and writes the
// result to a new temp file in tempDir (the OS temp dir when empty). The
// caller owns the returned path and must remove it. The source file is only
// ever opened for reading.
func Prepare(srcPath string, spec RenderSpec, tempDir string) (string, error) {
	absSrc, err := filepath.Abs(srcPath)
	if err != nil {
		return "", services.Wrap(services.ErrPatchIO, "patch", "resolve source", srcPath, err)
	}
	data, err := os.ReadFile(absSrc)
	if err != nil {
		return "", services.Wrap(services.ErrPatchIO, "patch", "read source", absSrc, err)
	}

	patched := Patch(string(data), spec, filepath.Dir(absSrc))

	path, err := fileutil.WriteTemp(tempDir, TempPrefix+"*"+TempSuffix, []byte(patched))
	if err != nil {
		return "", services.Wrap(services.ErrPatchIO, "patch", "write temp project", fmt.Sprintf("dir=%q", tempDir), err)
	}
	return path, nil
}
