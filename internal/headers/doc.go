package headers

import (
	"regexp"
	"strings"
)

// docDatesRe matches a date block anywhere in a document: the creation
// line, the update line, an optional count line and one optional blank line.
// The last line of the block may also be the last line of the file.
var docDatesRe = regexp.MustCompile(`(?m)^First created:(.*)\n.*Last updated:.*(?:\n|\z)(?:Update count:.*(?:\n|\z))?(?:\r?\n)?`)

var sectionHeaderRe = regexp.MustCompile(`^##(\s|$)`)

// DocRenderer places the date lines of a documentation file between its
// title/description and its first section.
type DocRenderer struct {
	Options Options
}

// Kind implements Renderer.
func (DocRenderer) Kind() Kind { return KindDoc }

// Render strips any existing date block, then inserts a fresh one right
// before the first "## " section header. Without a section header the
// block goes after the title and description, separated by a blank line.
func (r DocRenderer) Render(content, fileName string) string {
	created := ""
	if m := docDatesRe.FindStringSubmatch(content); m != nil {
		created = strings.TrimSpace(m[1])
	}
	block := r.Options.NewBlock(fileName, content, created).docText()

	stripped := docDatesRe.ReplaceAllString(content, "")
	lines := strings.Split(stripped, "\n")
	starts := lineStarts(lines)

	descEnd := descriptionEnd(lines)

	for i := descEnd; i < len(lines); i++ {
		if isSectionHeader(lines[i]) {
			pos := starts[i]
			return stripped[:pos] + block + stripped[pos:]
		}
	}

	if descEnd == 0 {
		return block + stripped
	}

	prefixEnd := starts[descEnd-1] + len(lines[descEnd-1])
	rest := stripped[prefixEnd:]
	// Drop the newline ending the description and at most one empty line;
	// the "\n\n" separator below puts them back.
	for i := 0; i < 2 && strings.HasPrefix(rest, "\n"); i++ {
		rest = rest[1:]
	}
	return stripped[:prefixEnd] + "\n\n" + block + rest
}

func (b Block) docText() string {
	return b.dateLines("") + "\n"
}

// descriptionEnd returns the index of the first line after the title and
// its description. The title is the first line starting with "# "; the
// description is the unbroken run of non-blank lines right after it that
// are neither date lines nor section headers.
func descriptionEnd(lines []string) int {
	end := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			end = i + 1
			break
		}
	}
	for i := end; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" || isDateLine(line) || isSectionHeader(line) {
			break
		}
		end = i + 1
	}
	return end
}

func isDateLine(line string) bool {
	return strings.HasPrefix(line, createdMarker) ||
		strings.HasPrefix(line, updatedMarker) ||
		strings.HasPrefix(line, countMarker)
}

func isSectionHeader(line string) bool {
	return sectionHeaderRe.MatchString(line)
}

func lineStarts(lines []string) []int {
	starts := make([]int, len(lines))
	off := 0
	for i, line := range lines {
		starts[i] = off
		off += len(line) + 1
	}
	return starts
}
