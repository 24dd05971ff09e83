package project

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"rppreview/internal/services"
)

// Extension is the project file extension. Backup (.rpp-bak) and undo
// (.rpp-undo) siblings have a different extension and are never returned.
const Extension = ".rpp"

// Descriptor identifies one discovered project.
type Descriptor struct {
	// Name is the file stem; it becomes the output file name.
	Name       string
	SourcePath string
	Dir        string
}

// Discover walks root recursively and returns every project file sorted by
// name. Names are compared in NFC form so decomposed file names from macOS
// volumes order the same as composed ones; ties fall back to the path.
func Discover(root string) ([]Descriptor, error) {
	var projects []Descriptor
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isProjectFile(d.Name()) {
			return nil
		}
		projects = append(projects, Descriptor{
			Name:       strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			SourcePath: path,
			Dir:        filepath.Dir(path),
		})
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrDiscoveryIO, "discovery", "walk input", root, err)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		a, b := norm.NFC.String(projects[i].Name), norm.NFC.String(projects[j].Name)
		if a != b {
			return a < b
		}
		return projects[i].SourcePath < projects[j].SourcePath
	})
	return projects, nil
}

// DuplicateNames returns names shared by more than one project, in sorted
// order. Such projects render to the same output file.
func DuplicateNames(projects []Descriptor) []string {
	seen := make(map[string]int, len(projects))
	for _, p := range projects {
		seen[norm.NFC.String(p.Name)]++
	}
	var dupes []string
	for name, count := range seen {
		if count > 1 {
			dupes = append(dupes, name)
		}
	}
	sort.Strings(dupes)
	return dupes
}

func isProjectFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}
