package headers

import (
	"strconv"
	"strings"
)

// Info is what an existing header says about a file.
type Info struct {
	HasHeader bool
	Created   string
	Updated   string
	Count     *int
}

// Inspect reads the header fields already present in content.
func Inspect(kind Kind, content string) Info {
	switch kind {
	case KindSource:
		return inspectSource(content)
	case KindDoc:
		return inspectDoc(content)
	}
	return Info{}
}

func inspectSource(content string) Info {
	off, ok := preambleEnd(content)
	if !ok {
		return Info{}
	}
	info := Info{HasHeader: true}
	for {
		line, next, ok := nextLine(content, off)
		if !ok {
			break
		}
		marker, value, isStamp := sourceStampLine(line)
		if !isStamp {
			break
		}
		info.set(marker, value)
		off = next
	}
	return info
}

func inspectDoc(content string) Info {
	loc := docDatesRe.FindStringIndex(content)
	if loc == nil {
		return Info{}
	}
	info := Info{HasHeader: true}
	for _, line := range strings.Split(content[loc[0]:loc[1]], "\n") {
		for _, m := range []string{createdMarker, updatedMarker, countMarker} {
			if i := strings.Index(line, m); i >= 0 {
				info.set(m, strings.TrimSpace(line[i+len(m):]))
			}
		}
	}
	return info
}

func (i *Info) set(marker, value string) {
	switch marker {
	case createdMarker:
		if i.Created == "" {
			i.Created = value
		}
	case updatedMarker:
		i.Updated = value
	case countMarker:
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return
		}
		if n, err := strconv.Atoi(fields[0]); err == nil {
			i.Count = &n
		}
	}
}
