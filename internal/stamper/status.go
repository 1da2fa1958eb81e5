package stamper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbum/devtools/internal/headers"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FileStatus describes the header state of one file in the project tree.
type FileStatus struct {
	Path      string
	Kind      headers.Kind
	Title     string // docs only
	HasHeader bool
	Created   string
	Updated   string
	Count     *int
	Stale     bool // a run would rewrite the file
}

// Status inspects every file of the project tree without writing.
func (s *Stamper) Status(root string) ([]FileStatus, error) {
	files, err := s.Walk(root)
	if err != nil {
		return nil, err
	}

	opts := s.runOptions()
	statuses := make([]FileStatus, 0, len(files))
	for _, path := range files {
		r, ok := headers.RendererFor(path, opts)
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		content := string(data)

		info := headers.Inspect(r.Kind(), content)
		st := FileStatus{
			Path:      path,
			Kind:      r.Kind(),
			HasHeader: info.HasHeader,
			Created:   info.Created,
			Updated:   info.Updated,
			Count:     info.Count,
			Stale:     r.Render(content, filepath.Base(path)) != content,
		}
		if st.Kind == headers.KindDoc {
			st.Title = docTitle(data)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// docTitle returns the text of the first level-1 heading.
func docTitle(source []byte) string {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		lines := heading.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(source))
		}
		title = strings.TrimSpace(b.String())
		return ast.WalkStop, nil
	})
	return title
}
