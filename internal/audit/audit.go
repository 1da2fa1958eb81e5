// Package audit lists source files on disk that the Xcode project file
// does not reference.
package audit

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// DefaultExtensions are the source extensions audited when none are given.
var DefaultExtensions = []string{".swift", ".m", ".h", ".mm", ".cpp"}

var pathRe = regexp.MustCompile(`path = (.*?);`)

// Options configures Run.
type Options struct {
	// Root is the directory scanned for source files.
	Root string

	// PBXProj is the project.pbxproj to read references from.
	PBXProj string

	// Extensions selects the audited files.
	Extensions []string
}

// Report is the outcome of an audit.
type Report struct {
	Referenced   int
	Sources      int
	Unreferenced []string // relative to Root, sorted
}

// Run reads the project file and the source tree and returns the source
// files the project does not mention.
func Run(opts Options) (*Report, error) {
	f, err := os.Open(opts.PBXProj)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file: %w", err)
	}
	defer f.Close()

	refs, err := ReferencedPaths(f)
	if err != nil {
		return nil, err
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	sources, err := SourceFiles(opts.Root, exts)
	if err != nil {
		return nil, err
	}

	report := &Report{Referenced: len(refs), Sources: len(sources)}
	for _, src := range sources {
		if _, ok := refs[src]; !ok {
			report.Unreferenced = append(report.Unreferenced, src)
		}
	}
	sort.Strings(report.Unreferenced)
	return report, nil
}

// ReferencedPaths collects the value of every `path = ...;` entry, one
// per line. Quoted values are unquoted.
func ReferencedPaths(r io.Reader) (map[string]struct{}, error) {
	refs := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := pathRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		refs[unquote(m[1])] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	return refs, nil
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// SourceFiles returns the slash-separated paths, relative to root, of the
// files whose extension is in exts.
func SourceFiles(root string, exts []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(exts, filepath.Ext(path)) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, nil
}
