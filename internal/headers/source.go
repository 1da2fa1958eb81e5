package headers

import (
	"strings"
)

const commentLine = "//"

// SourceRenderer writes the fixed comment block at the top of a source file.
type SourceRenderer struct {
	Options Options
}

// Kind implements Renderer.
func (SourceRenderer) Kind() Kind { return KindSource }

// Render replaces an existing header block with a fresh one, or prepends
// the fresh block when the content does not start with one. Everything
// after the header is returned unchanged.
func (r SourceRenderer) Render(content, fileName string) string {
	body := content
	created := ""
	if end, existing, ok := sourceHeaderEnd(content); ok {
		body = content[end:]
		created = existing
	}
	return r.Options.NewBlock(fileName, content, created).sourceText(r.Options.projectName()) + body
}

func (b Block) sourceText(project string) string {
	var s strings.Builder
	s.WriteString(commentLine + "\n")
	s.WriteString(commentLine + "  " + b.FileName + "\n")
	s.WriteString(commentLine + "  " + project + "\n")
	s.WriteString(commentLine + "\n")
	s.WriteString(b.dateLines(commentLine + "  "))
	s.WriteString(commentLine + "\n")
	return s.String()
}

// HasSourceHeader reports whether content opens with the four-line header
// shape: "//", two "//..." lines, then "//". This is the single decision
// point between replacing a header and prepending one.
func HasSourceHeader(content string) bool {
	_, ok := preambleEnd(content)
	return ok
}

func preambleEnd(content string) (int, bool) {
	off := 0
	for i := 0; i < 4; i++ {
		line, next, ok := nextLine(content, off)
		if !ok {
			return 0, false
		}
		switch i {
		case 0, 3:
			if line != commentLine {
				return 0, false
			}
		default:
			if !strings.HasPrefix(line, commentLine) {
				return 0, false
			}
		}
		off = next
	}
	return off, true
}

// sourceHeaderEnd returns the byte offset just past the existing header.
// The header is the preamble plus any stamp lines right after it and, when
// stamp lines were found, the closing "//". It also returns the creation
// date recorded in those stamp lines.
func sourceHeaderEnd(content string) (end int, created string, ok bool) {
	off, ok := preambleEnd(content)
	if !ok {
		return 0, "", false
	}

	stamped := false
	for {
		line, next, ok := nextLine(content, off)
		if !ok {
			break
		}
		marker, value, isStamp := sourceStampLine(line)
		if !isStamp {
			break
		}
		if marker == createdMarker && created == "" {
			created = value
		}
		stamped = true
		off = next
	}

	if stamped {
		if line, next, ok := nextLine(content, off); ok && line == commentLine {
			off = next
		}
	}
	return off, created, true
}

// sourceStampLine recognises "//  First created: <date>" and friends.
func sourceStampLine(line string) (marker, value string, ok bool) {
	if !strings.HasPrefix(line, commentLine) {
		return "", "", false
	}
	text := strings.TrimSpace(strings.TrimPrefix(line, commentLine))
	for _, m := range []string{createdMarker, updatedMarker, countMarker} {
		if strings.HasPrefix(text, m) {
			return m, strings.TrimSpace(strings.TrimPrefix(text, m)), true
		}
	}
	return "", "", false
}

// nextLine returns the newline-terminated line starting at off, without
// its "\n" or "\r\n" ending. A final line without a newline is not reported.
func nextLine(s string, off int) (line string, next int, ok bool) {
	if off >= len(s) {
		return "", off, false
	}
	i := strings.IndexByte(s[off:], '\n')
	if i < 0 {
		return "", off, false
	}
	return strings.TrimSuffix(s[off:off+i], "\r"), off + i + 1, true
}
