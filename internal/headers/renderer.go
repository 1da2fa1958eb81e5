// Package headers renders the creation/update header blocks that the
// stamper writes into source and documentation files. It does no I/O.
package headers

import (
	"path/filepath"
)

// Kind identifies which header shape a file carries.
type Kind string

const (
	KindSource Kind = "source"
	KindDoc    Kind = "doc"
)

// Tracked extensions, in the order a run visits them.
const (
	SourceExt = ".swift"
	DocExt    = ".md"
)

// Extensions lists the tracked extensions in visiting order.
var Extensions = []string{SourceExt, DocExt}

// Renderer computes the new content of a file from its current content.
type Renderer interface {
	Kind() Kind
	Render(content, fileName string) string
}

// RendererFor returns the renderer for path based on its extension.
// Files of any other extension are not tracked.
func RendererFor(path string, opts Options) (Renderer, bool) {
	switch filepath.Ext(path) {
	case SourceExt:
		return SourceRenderer{Options: opts}, true
	case DocExt:
		return DocRenderer{Options: opts}, true
	}
	return nil, false
}

// Tracked reports whether path has a tracked extension.
func Tracked(path string) bool {
	ext := filepath.Ext(path)
	return ext == SourceExt || ext == DocExt
}
