package stamper

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rbum/devtools/internal/headers"
)

// DefaultExcludeDirs are the vendor and build directories never scanned.
var DefaultExcludeDirs = []string{"build", "Pods", "Carthage"}

// Excluded reports whether rel, a path relative to the project root, has a
// hidden component or a component naming an excluded directory.
func Excluded(rel string, excludeDirs []string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") || slices.Contains(excludeDirs, part) {
			return true
		}
	}
	return false
}

// Walk returns the project tree under root: every tracked file outside
// excluded directories, grouped by extension in visiting order (sources
// first, then docs) and sorted lexically within each group.
func (s *Stamper) Walk(root string) ([]string, error) {
	byExt := make(map[string][]string, len(headers.Extensions))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if Excluded(rel, s.excludeDirs) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if headers.Tracked(path) {
			byExt[ext] = append(byExt[ext], path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	var files []string
	for _, ext := range headers.Extensions {
		files = append(files, byExt[ext]...)
	}
	return files, nil
}
