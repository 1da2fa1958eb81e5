package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePBXProj = `// !$*UTF8*$!
{
	objects = {
		A1 /* App.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = App/App.swift; sourceTree = "<group>"; };
		A2 /* Content View.swift */ = {isa = PBXFileReference; path = "App/Content View.swift"; sourceTree = "<group>"; };
		A3 /* Bridge.h */ = {isa = PBXFileReference; path = Bridge.h; sourceTree = "<group>"; };
		G1 /* App */ = {isa = PBXGroup; children = (); name = App; sourceTree = "<group>"; };
	};
}
`

func TestReferencedPaths(t *testing.T) {
	refs, err := ReferencedPaths(strings.NewReader(samplePBXProj))
	if err != nil {
		t.Fatalf("ReferencedPaths() failed: %v", err)
	}
	for _, want := range []string{"App/App.swift", "App/Content View.swift", "Bridge.h"} {
		if _, ok := refs[want]; !ok {
			t.Errorf("ReferencedPaths() missing %q (got %v)", want, refs)
		}
	}
	if len(refs) != 3 {
		t.Errorf("ReferencedPaths() returned %d entries, want 3", len(refs))
	}
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"App/App.swift",
		"App/Content View.swift",
		"App/Orphan.swift",
		"Bridge.h",
		"Legacy/Old.m",
		"README.md",
	)
	pbx := filepath.Join(root, "rBUM.xcodeproj", "project.pbxproj")
	if err := os.MkdirAll(filepath.Dir(pbx), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pbx, []byte(samplePBXProj), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Run(Options{Root: root, PBXProj: pbx})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	want := []string{"App/Orphan.swift", "Legacy/Old.m"}
	if len(report.Unreferenced) != len(want) {
		t.Fatalf("Unreferenced = %v, want %v", report.Unreferenced, want)
	}
	for i := range want {
		if report.Unreferenced[i] != want[i] {
			t.Errorf("Unreferenced[%d] = %q, want %q", i, report.Unreferenced[i], want[i])
		}
	}
	if report.Sources != 5 {
		t.Errorf("Sources = %d, want 5", report.Sources)
	}
}

func TestRunMissingProjectFile(t *testing.T) {
	if _, err := Run(Options{Root: t.TempDir(), PBXProj: "/does/not/exist.pbxproj"}); err == nil {
		t.Fatal("Run() should fail without a project file")
	}
}
