package headers

import (
	"strings"
	"testing"
	"time"
)

func testOptions() Options {
	return Options{
		ProjectName:  "rBUM",
		CreationDate: "6 February 2025",
		Now:          time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC),
	}
}

const wantSourceHeader = "//\n" +
	"//  Foo.swift\n" +
	"//  rBUM\n" +
	"//\n" +
	"//  First created: 6 February 2025\n" +
	"//  Last updated: 14 March 2025\n" +
	"//\n"

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2025, time.February, 6, 0, 0, 0, 0, time.UTC))
	if got != "6 February 2025" {
		t.Errorf("FormatDate() = %q, want %q", got, "6 February 2025")
	}
}

func TestUpdateCounter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		enabled bool
		want    int
		wantOK  bool
	}{
		{"disabled ignores marker", "Update count: 7\n", false, 0, false},
		{"disabled without marker", "body", false, 0, false},
		{"enabled increments", "//  Update count: 7\n", true, 8, true},
		{"enabled starts at one", "body", true, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := UpdateCounter(tt.content, tt.enabled)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("UpdateCounter(%q, %v) = (%d, %v), want (%d, %v)", tt.content, tt.enabled, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHasSourceHeader(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"//\n//  Foo.swift\n//  rBUM\n//\nimport Foundation\n", true},
		{"//\n//\n//\n//\n", true},
		{"// old header\nfoo()", false},
		{"//\n//  Foo.swift\n//  rBUM\n//", false},
		{"//\n//  Foo.swift\nimport UIKit\n//\n", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasSourceHeader(tt.content); got != tt.want {
			t.Errorf("HasSourceHeader(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestSourceRenderPrependsWhenNoHeader(t *testing.T) {
	r := SourceRenderer{Options: testOptions()}
	in := "// old header\nfoo()"

	got := r.Render(in, "Foo.swift")

	if got != wantSourceHeader+in {
		t.Fatalf("Render() =\n%s\nwant\n%s", got, wantSourceHeader+in)
	}
}

func TestSourceRenderReplacesXcodeHeader(t *testing.T) {
	r := SourceRenderer{Options: testOptions()}
	body := "//  Created by Someone on 1/2/25.\n//\n\nimport Foundation\n"
	in := "//\n//  Old.swift\n//  rBUM\n//\n" + body

	got := r.Render(in, "Foo.swift")

	if got != wantSourceHeader+body {
		t.Fatalf("Render() =\n%s\nwant\n%s", got, wantSourceHeader+body)
	}
}

func TestSourceRenderKeepsCreationDate(t *testing.T) {
	r := SourceRenderer{Options: testOptions()}
	in := "//\n//  Foo.swift\n//  rBUM\n//\n" +
		"//  First created: 1 January 2024\n" +
		"//  Last updated: 2 January 2024\n" +
		"//\n\nstruct Foo {}\n"

	got := r.Render(in, "Foo.swift")

	if !strings.Contains(got, "//  First created: 1 January 2024\n") {
		t.Errorf("creation date changed:\n%s", got)
	}
	if !strings.Contains(got, "//  Last updated: 14 March 2025\n") {
		t.Errorf("update date not refreshed:\n%s", got)
	}
	if strings.Count(got, "Last updated") != 1 {
		t.Errorf("expected exactly one update line:\n%s", got)
	}
	if !strings.HasSuffix(got, "//\n\nstruct Foo {}\n") {
		t.Errorf("body not preserved:\n%s", got)
	}
}

func TestSourceRenderCounter(t *testing.T) {
	stamped := "//\n//  Foo.swift\n//  rBUM\n//\n" +
		"//  First created: 6 February 2025\n" +
		"//  Last updated: 1 March 2025\n" +
		"//  Update count: 4\n" +
		"//\nlet x = 1\n"

	disabled := SourceRenderer{Options: testOptions()}.Render(stamped, "Foo.swift")
	if strings.Contains(disabled, "Update count") {
		t.Errorf("counter line rendered while disabled:\n%s", disabled)
	}
	if disabled != wantSourceHeader+"let x = 1\n" {
		t.Errorf("Render() =\n%s", disabled)
	}

	opts := testOptions()
	opts.CounterEnabled = true
	enabled := SourceRenderer{Options: opts}.Render(stamped, "Foo.swift")
	if !strings.Contains(enabled, "//  Update count: 5\n") {
		t.Errorf("expected count 5:\n%s", enabled)
	}
	fresh := SourceRenderer{Options: opts}.Render("let x = 1\n", "Foo.swift")
	if !strings.Contains(fresh, "//  Update count: 1\n") {
		t.Errorf("expected count 1:\n%s", fresh)
	}
}

func TestDocRenderBeforeFirstSection(t *testing.T) {
	r := DocRenderer{Options: testOptions()}
	in := "# Title\nSome intro.\n\n## Section\nBody"

	got := r.Render(in, "README.md")

	want := "# Title\nSome intro.\n\n" +
		"First created: 6 February 2025\n" +
		"Last updated: 14 March 2025\n" +
		"\n" +
		"## Section\nBody"
	if got != want {
		t.Fatalf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestDocRenderWithoutSection(t *testing.T) {
	r := DocRenderer{Options: testOptions()}

	got := r.Render("# Title\nIntro line\n", "NOTES.md")

	want := "# Title\nIntro line\n\n" +
		"First created: 6 February 2025\n" +
		"Last updated: 14 March 2025\n\n"
	if got != want {
		t.Fatalf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestDocRenderEmptyHeaderHasNoSeparator(t *testing.T) {
	r := DocRenderer{Options: testOptions()}
	block := "First created: 6 February 2025\nLast updated: 14 March 2025\n\n"

	tests := []struct {
		name string
		in   string
	}{
		{"empty file", ""},
		{"leading blank line", "\nBody text\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.in, "X.md")
			if got != block+tt.in {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got, block+tt.in)
			}
		})
	}
}

func TestDocRenderReplacesExistingDates(t *testing.T) {
	r := DocRenderer{Options: testOptions()}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "with counter and section",
			in: "# T\n\n" +
				"First created: 1 January 2024\n" +
				"Last updated: 2 January 2024\n" +
				"Update count: 3\n" +
				"\n" +
				"## S\nx",
			want: "# T\n\n" +
				"First created: 1 January 2024\n" +
				"Last updated: 14 March 2025\n" +
				"\n" +
				"## S\nx",
		},
		{
			name: "dates end the file without newline",
			in:   "# T\n\nFirst created: 1 January 2024\nLast updated: 2 January 2024",
			want: "# T\n\nFirst created: 1 January 2024\nLast updated: 14 March 2025\n\n",
		},
		{
			name: "count ends the file without newline",
			in:   "# T\n\nFirst created: 1 January 2024\nLast updated: 2 January 2024\nUpdate count: 2",
			want: "# T\n\nFirst created: 1 January 2024\nLast updated: 14 March 2025\n\n",
		},
		{
			name: "crlf document",
			in:   "# T\r\n\r\nFirst created: 1 January 2024\r\nLast updated: 2 January 2024\r\n\r\n## S\r\nx\r\n",
			want: "# T\r\n\r\nFirst created: 1 January 2024\nLast updated: 14 March 2025\n\n## S\r\nx\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.in, "T.md")
			if got != tt.want {
				t.Fatalf("Render() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestSourceRenderCRLFHeader(t *testing.T) {
	r := SourceRenderer{Options: testOptions()}
	in := "//\r\n//  Foo.swift\r\n//  rBUM\r\n//\r\n" +
		"//  First created: 1 January 2024\r\n" +
		"//  Last updated: 2 January 2024\r\n" +
		"//\r\n\r\nstruct Foo {}\r\n"

	got := r.Render(in, "Foo.swift")

	want := "//\n//  Foo.swift\n//  rBUM\n//\n" +
		"//  First created: 1 January 2024\n" +
		"//  Last updated: 14 March 2025\n" +
		"//\n\r\nstruct Foo {}\r\n"
	if got != want {
		t.Fatalf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestDocRenderIgnoresDeeperHeaders(t *testing.T) {
	r := DocRenderer{Options: testOptions()}
	in := "# T\nintro\n\n### Deep\ntext\n\n## Real\nbody\n"

	got := r.Render(in, "T.md")

	idx := strings.Index(got, "First created:")
	if idx < 0 || !strings.HasPrefix(got[idx:], "First created: 6 February 2025\nLast updated: 14 March 2025\n\n## Real\n") {
		t.Fatalf("date block not placed before ## Real:\n%s", got)
	}
	if !strings.HasPrefix(got, "# T\nintro\n\n### Deep\ntext\n\n") {
		t.Errorf("content above the section changed:\n%s", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	inputs := map[string][]string{
		"Foo.swift": {
			"",
			"// old header\nfoo()",
			"//\n//  Foo.swift\n//  rBUM\n//\n//  Created by Someone.\n//\n\nimport SwiftUI\n",
			"import SwiftUI\n\nstruct V: View {}\n",
			"//\r\n//  Foo.swift\r\n//  rBUM\r\n//\r\n//  First created: 1 May 2024\r\n//  Last updated: 2 May 2024\r\n//\r\nlet a = 1\r\n",
			"//\n//  Foo.swift\n//  rBUM\n//",
		},
		"README.md": {
			"",
			"# Title\nSome intro.\n\n## Section\nBody",
			"# Title\nIntro",
			"# Title\n\n\nIntro\n\nMore\n",
			"No title here\nsecond line\n\n## A\n",
			"## Only sections\ntext\n",
			"# T\nFirst created: orphan\nbody\n",
			"# T\n\nFirst created: 1 January 2024\nLast updated: 2 January 2024",
			"# T\r\nintro\r\n\r\nFirst created: 1 May 2024\r\nLast updated: 2 May 2024",
			"First created: 1 January 2024\nLast updated: 2 January 2024",
		},
	}
	opts := testOptions()
	for name, cases := range inputs {
		r, ok := RendererFor(name, opts)
		if !ok {
			t.Fatalf("RendererFor(%q) not found", name)
		}
		for _, in := range cases {
			once := r.Render(in, name)
			twice := r.Render(once, name)
			if once != twice {
				t.Errorf("%s: not idempotent for %q\nfirst:  %q\nsecond: %q", name, in, once, twice)
			}
		}
	}
}

func TestRenderNeverEmitsCounterWhenDisabled(t *testing.T) {
	opts := testOptions()
	tests := []struct {
		name string
		in   string
	}{
		{"A.swift", "//\n//  A.swift\n//  rBUM\n//\n//  First created: x\n//  Last updated: y\n//  Update count: 2\n//\n"},
		{"A.md", "# T\n\nFirst created: x\nLast updated: y\nUpdate count: 2\n\n## S\n"},
		{"A.swift", "let a = 1\n"},
		{"A.md", "# T\nbody\n"},
	}
	for _, tt := range tests {
		r, _ := RendererFor(tt.name, opts)
		got := r.Render(tt.in, tt.name)
		if strings.Contains(got, "Update count") {
			t.Errorf("%s: counter rendered for %q:\n%s", tt.name, tt.in, got)
		}
	}
}

func TestRendererFor(t *testing.T) {
	tests := []struct {
		path string
		kind Kind
		ok   bool
	}{
		{"App/View.swift", KindSource, true},
		{"docs/README.md", KindDoc, true},
		{"main.m", "", false},
		{"Makefile", "", false},
	}
	for _, tt := range tests {
		r, ok := RendererFor(tt.path, Options{})
		if ok != tt.ok {
			t.Fatalf("RendererFor(%q) ok = %v, want %v", tt.path, ok, tt.ok)
		}
		if ok && r.Kind() != tt.kind {
			t.Errorf("RendererFor(%q).Kind() = %q, want %q", tt.path, r.Kind(), tt.kind)
		}
	}
}

func TestInspect(t *testing.T) {
	src := "//\n//  A.swift\n//  rBUM\n//\n//  First created: 6 February 2025\n//  Last updated: 14 March 2025\n//  Update count: 3\n//\n"
	info := Inspect(KindSource, src)
	if !info.HasHeader || info.Created != "6 February 2025" || info.Updated != "14 March 2025" {
		t.Errorf("Inspect(source) = %+v", info)
	}
	if info.Count == nil || *info.Count != 3 {
		t.Errorf("Inspect(source).Count = %v, want 3", info.Count)
	}

	doc := "# T\n\nFirst created: 1 May 2025\nLast updated: 2 May 2025\n\n## S\n"
	info = Inspect(KindDoc, doc)
	if !info.HasHeader || info.Created != "1 May 2025" || info.Updated != "2 May 2025" || info.Count != nil {
		t.Errorf("Inspect(doc) = %+v", info)
	}

	info = Inspect(KindDoc, "# T\n\nFirst created: 1 May 2025\nLast updated: 2 May 2025")
	if !info.HasHeader || info.Created != "1 May 2025" || info.Updated != "2 May 2025" {
		t.Errorf("Inspect(doc without final newline) = %+v", info)
	}

	info = Inspect(KindSource, "//\r\n//  A.swift\r\n//  rBUM\r\n//\r\n//  First created: 6 February 2025\r\n")
	if !info.HasHeader || info.Created != "6 February 2025" {
		t.Errorf("Inspect(crlf source) = %+v", info)
	}

	if Inspect(KindDoc, "# T\nbody\n").HasHeader {
		t.Error("Inspect(doc) without dates should report no header")
	}
}
