package extract

import (
	"regexp"
	"strings"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

// layout is the way a plain-text section splits each line into cells
type layout int

const (
	// colonPairs lines look like "name: v1 v2". With a single value column
	// the whole remainder after the colon is the value.
	colonPairs layout = iota
	// leadingLabel lines are whitespace tokens: a label followed by the values.
	leadingLabel
	// trailingValues lines end with the values; every token before them is the label.
	trailingValues
)

// textSection locates and tokenizes one table in a plain-text report
type textSection struct {
	id     report.TableID
	start  *regexp.Regexp
	layout layout
	label  string
	values []string
}

// newTextSection anchors heading at a line start; the rest of the heading
// line is taken with it. Blank lines after the heading are skipped before
// the body starts.
func newTextSection(id report.TableID, heading string, l layout, label string, values ...string) textSection {
	return textSection{
		id:     id,
		start:  regexp.MustCompile(`(?im)^[ \t]*` + heading + `[^\n]*\n(?:[ \t\r]*\n)*`),
		layout: l,
		label:  label,
		values: values,
	}
}

func (s textSection) columns() []string {
	return append([]string{s.label}, s.values...)
}

// extractTextTable reads the section body (up to the next blank line) and
// keeps every line that fits the section layout.
func extractTextTable(doc string, s textSection) (*report.Table, bool) {
	loc := s.start.FindStringIndex(doc)
	if loc == nil {
		return nil, false
	}

	t := &report.Table{ID: s.id, Columns: s.columns()}
	for _, line := range strings.Split(doc[loc[1]:], "\n") {
		if strings.TrimSpace(line) == "" {
			break
		}
		if row, ok := s.parseLine(line); ok {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, true
}

func (s textSection) parseLine(line string) (report.Row, bool) {
	n := len(s.values)
	row := make(report.Row, n+1)

	switch s.layout {
	case colonPairs:
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, false
		}
		row[s.label] = report.TextValue(strings.TrimSpace(name))
		if n == 1 {
			row[s.values[0]] = report.Normalize(rest)
			return row, true
		}
		fields := strings.Fields(rest)
		if len(fields) < n {
			return nil, false
		}
		for i, col := range s.values {
			row[col] = report.Normalize(fields[i])
		}
		return row, true

	case leadingLabel:
		fields := strings.Fields(line)
		if len(fields) < n+1 {
			return nil, false
		}
		row[s.label] = report.TextValue(fields[0])
		for i, col := range s.values {
			row[col] = report.Normalize(fields[i+1])
		}
		return row, true

	case trailingValues:
		fields := strings.Fields(line)
		if len(fields) < n+1 {
			return nil, false
		}
		split := len(fields) - n
		row[s.label] = report.TextValue(strings.Join(fields[:split], " "))
		for i, col := range s.values {
			row[col] = report.Normalize(fields[split+i])
		}
		return row, true
	}
	return nil, false
}

// firstMatch returns the first submatch of re in text, or "".
func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
