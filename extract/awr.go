package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

const unknown = "Unknown"

var awrVariant = &variant{
	engine:   report.EngineAWR,
	headings: cascadia.MustCompile("h2, h3, a"),
	markup: []markupEntry{
		{report.LoadProfile, headingPattern(`Load Profile`)},
		{report.InstanceEfficiency, headingPattern(`Instance Efficiency`)},
		{report.TopSQLElapsed, headingPattern(`SQL ordered by Elapsed Time`)},
		{report.TopSQLCPU, headingPattern(`SQL ordered by CPU Time`)},
		{report.WaitEvents, headingPattern(`Top.*Wait Events`)},
		{report.IOStatistics, headingPattern(`IOStat by`)},
		{report.TimeModelStatistics, headingPattern(`Time Model Statistics`)},
	},
	text: []textSection{
		newTextSection(report.LoadProfile, `Load Profile`, colonPairs,
			"Metric", "Per Second", "Per Transaction"),
		newTextSection(report.TopSQLElapsed, `SQL ordered by Elapsed Time`, leadingLabel,
			"SQL ID", "Elapsed Time", "CPU Time", "Executions"),
		newTextSection(report.WaitEvents, `Top.*Wait Events`, trailingValues,
			"Event", "Waits", "Time(s)", "% DB Time"),
	},
	markupMetadata: awrMarkupMetadata,
	textMetadata:   awrTextMetadata,
}

func headingPattern(p string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + p)
}

var (
	awrDBName    = regexp.MustCompile(`DB Name[:\s]+(\w+)`)
	awrInstance  = regexp.MustCompile(`Instance[:\s]+(\w+)`)
	awrRelease   = regexp.MustCompile(`Release[:\s]+([\d.]+)`)
	awrBeginSnap = regexp.MustCompile(`Begin Snap[:\s]+.*?(\d{2}-\w{3}-\d{2,4}\s+\d{2}:\d{2})`)
	awrEndSnap   = regexp.MustCompile(`End Snap[:\s]+.*?(\d{2}-\w{3}-\d{2,4}\s+\d{2}:\d{2})`)

	tableElements = cascadia.MustCompile("table")
)

// awrSnapLayouts accept both two and four digit years.
var awrSnapLayouts = []string{"02-Jan-06 15:04", "02-Jan-2006 15:04"}

// awrFields accumulates metadata matches; later matches override earlier ones.
type awrFields struct {
	db, instance, version string
	start, end            *time.Time
}

func (f *awrFields) scan(text string) {
	if v := firstMatch(awrDBName, text); v != "" {
		f.db = v
	}
	if v := firstMatch(awrInstance, text); v != "" {
		f.instance = v
	}
	if v := firstMatch(awrRelease, text); v != "" {
		f.version = v
	}
	if t, ok := parseTime(firstMatch(awrBeginSnap, text), awrSnapLayouts); ok {
		f.start = &t
	}
	if t, ok := parseTime(firstMatch(awrEndSnap, text), awrSnapLayouts); ok {
		f.end = &t
	}
}

func (f *awrFields) metadata() report.Metadata {
	return newMetadata(report.EngineAWR, f.version, f.db, f.instance, f.start, f.end)
}

// awrMarkupMetadata scans the text of every table in the document.
func awrMarkupMetadata(root *html.Node) report.Metadata {
	f := awrFields{}
	for _, text := range elementsText(root, tableElements) {
		f.scan(text)
	}
	return f.metadata()
}

func awrTextMetadata(doc string) report.Metadata {
	f := awrFields{}
	f.scan(doc)
	return f.metadata()
}

// newMetadata fills unknown fields and derives the duration when both ends are known.
func newMetadata(engine report.Engine, version, db, instance string, start, end *time.Time) report.Metadata {
	m := report.Metadata{
		Engine:   engine,
		Version:  orUnknown(version),
		Database: orUnknown(db),
		Instance: orUnknown(instance),
		Start:    start,
		End:      end,
	}
	if start != nil && end != nil {
		d := end.Sub(*start).Minutes()
		m.Duration = &d
	}
	return m
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

// parseTime collapses whitespace runs before trying each layout.
func parseTime(s string, layouts []string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
