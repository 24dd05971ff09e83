package rpp

import (
	"path/filepath"
	"regexp"
	"strings"
)

// assetRef matches a FILE scalar as the first token on its line, so keys that
// merely end in FILE (RENDER_FILE) never match. The value is quoted with any
// of the three project quote characters or is a bare token.
var assetRef = regexp.MustCompile(`(?m)^([ \t]*FILE[ \t]+)(?:"([^"\r\n]*)"|'([^'\r\n]*)'|` +
	"`([^`\r\n]*)`" + `|([^\s"'` + "`" + `]+))`)

var driveLetter = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// resolveAssetRefs rewrites every relative FILE reference to an absolute,
// forward-slash path under projectDir. Empty and absolute references are
// left byte-for-byte intact.
func resolveAssetRefs(text, projectDir string) string {
	return assetRef.ReplaceAllStringFunc(text, func(match string) string {
		parts := assetRef.FindStringSubmatch(match)
		prefix := parts[1]
		var value string
		for _, group := range parts[2:] {
			if group != "" {
				value = group
				break
			}
		}
		if value == "" || isAbsRef(value) {
			return match
		}
		return prefix + quote(joinSlash(projectDir, value))
	})
}

// isAbsRef reports whether ref is absolute on any platform the engine runs
// on, so projects moved between hosts keep their drive-letter and UNC paths.
func isAbsRef(ref string) bool {
	if filepath.IsAbs(ref) {
		return true
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, `\`) {
		return true
	}
	return driveLetter.MatchString(ref)
}

func joinSlash(dir, rel string) string {
	rel = strings.ReplaceAll(rel, `\`, "/")
	return toSlash(filepath.Join(dir, filepath.FromSlash(rel)))
}

// absSlashPath resolves dir to an absolute path written with forward slashes.
func absSlashPath(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" || isAbsRef(dir) {
		return toSlash(dir)
	}
	native := filepath.FromSlash(strings.ReplaceAll(dir, `\`, "/"))
	abs, err := filepath.Abs(native)
	if err != nil {
		abs = filepath.Clean(native)
	}
	return toSlash(abs)
}

func toSlash(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}
