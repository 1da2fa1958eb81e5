package headers

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout renders dates as day, full month name, year (e.g. "6 February 2025").
const DateLayout = "2 January 2006"

// Defaults used when Options leaves a field empty.
const (
	DefaultProjectName  = "rBUM"
	DefaultCreationDate = "6 February 2025"
)

// Marker prefixes shared by both header shapes.
const (
	createdMarker = "First created:"
	updatedMarker = "Last updated:"
	countMarker   = "Update count:"
)

var updateCountRe = regexp.MustCompile(`Update count: (\d+)`)

// Options configures a stamping run. It replaces the process-wide
// settings the header scripts used to carry.
type Options struct {
	// ProjectName is the third line of a source header.
	ProjectName string

	// CreationDate is written into files that have no creation date yet.
	CreationDate string

	// Now is the update date. Zero means time.Now().
	Now time.Time

	// CounterEnabled turns on the "Update count" line.
	CounterEnabled bool
}

func (o Options) projectName() string {
	if o.ProjectName == "" {
		return DefaultProjectName
	}
	return o.ProjectName
}

func (o Options) creationDate() string {
	if o.CreationDate == "" {
		return DefaultCreationDate
	}
	return o.CreationDate
}

// UpdateDate returns the formatted update date for this run.
func (o Options) UpdateDate() string {
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	return FormatDate(now)
}

// FormatDate formats t with DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Block is the metadata a header records for one file.
type Block struct {
	FileName     string
	CreationDate string
	UpdateDate   string
	UpdateCount  *int // nil when the counter is disabled
}

// NewBlock builds the header block for content. An existing creation date
// (found by the caller inside the header being replaced) wins over the
// configured one.
func (o Options) NewBlock(fileName, content, existingCreated string) Block {
	b := Block{
		FileName:     fileName,
		CreationDate: o.creationDate(),
		UpdateDate:   o.UpdateDate(),
	}
	if existingCreated != "" {
		b.CreationDate = existingCreated
	}
	if n, ok := UpdateCounter(content, o.CounterEnabled); ok {
		b.UpdateCount = &n
	}
	return b
}

// UpdateCounter returns the next update count for content. With the
// counter disabled it always reports absent. Otherwise it returns the
// existing count plus one, or 1 when the content has no count yet.
func UpdateCounter(content string, enabled bool) (int, bool) {
	if !enabled {
		return 0, false
	}
	m := updateCountRe.FindStringSubmatch(content)
	if m == nil {
		return 1, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1, true
	}
	return n + 1, true
}

// dateLines renders the creation/update/count lines, each prefixed.
func (b Block) dateLines(prefix string) string {
	var s strings.Builder
	s.WriteString(prefix + createdMarker + " " + b.CreationDate + "\n")
	s.WriteString(prefix + updatedMarker + " " + b.UpdateDate + "\n")
	if b.UpdateCount != nil {
		s.WriteString(prefix + countMarker + " " + strconv.Itoa(*b.UpdateCount) + "\n")
	}
	return s.String()
}
