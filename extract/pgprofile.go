package extract

import (
	"fmt"
	"regexp"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

var pgProfileVariant = &variant{
	engine:   report.EnginePgProfile,
	headings: cascadia.MustCompile("h2, h3, h4, a"),
	markup: []markupEntry{
		{report.GeneralStatistics, headingPattern(`Cluster statistics`)},
		{report.WaitEvents, headingPattern(`Wait event.*statistics`)},
		{report.DatabaseStatistics, headingPattern(`Database statistics`)},
		{report.QueriesStatistics, headingPattern(`Top.*SQL.*by.*elapsed`)},
		{report.IOStatistics, headingPattern(`I/O.*statistics`)},
		{report.TableStatistics, headingPattern(`Top.*tables`)},
		{report.IndexStatistics, headingPattern(`Top.*indexes`)},
	},
	text: []textSection{
		newTextSection(report.GeneralStatistics, `Cluster statistics`, colonPairs,
			"Metric", "Value"),
		newTextSection(report.WaitEvents, `Wait event.*statistics`, trailingValues,
			"Event", "Count", "Time (ms)", "% Total"),
		newTextSection(report.QueriesStatistics, `Top.*SQL.*by.*elapsed`, leadingLabel,
			"Query ID", "Calls", "Total time", "Mean time"),
	},
	markupMetadata: pgProfileMarkupMetadata,
	textMetadata:   pgProfileTextMetadata,
}

var (
	pgVersion        = regexp.MustCompile(`PostgreSQL\s+([\d.]+)`)
	pgProfileVersion = regexp.MustCompile(`pg_profile\s+([\d.]+)`)
	pgDatabase       = regexp.MustCompile(`Database[:\s]+(\w+)`)
	pgServer         = regexp.MustCompile(`Server[:\s]+(\w+)`)
	pgStartTime      = regexp.MustCompile(`Start time[:\s]+(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})`)
	pgEndTime        = regexp.MustCompile(`End time[:\s]+(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})`)

	pgHeaderElements = cascadia.MustCompile("div, h1, h2")
)

var pgTimeLayouts = []string{time.DateTime}

type pgFields struct {
	version, profileVersion, db, server string
	start, end                          *time.Time
}

func (f *pgFields) scanHeader(text string) {
	if v := firstMatch(pgVersion, text); v != "" {
		f.version = v
	}
	if v := firstMatch(pgProfileVersion, text); v != "" {
		f.profileVersion = v
	}
	if v := firstMatch(pgDatabase, text); v != "" {
		f.db = v
	}
	if v := firstMatch(pgServer, text); v != "" {
		f.server = v
	}
}

func (f *pgFields) scanPeriod(text string) {
	if t, ok := parseTime(firstMatch(pgStartTime, text), pgTimeLayouts); ok {
		f.start = &t
	}
	if t, ok := parseTime(firstMatch(pgEndTime, text), pgTimeLayouts); ok {
		f.end = &t
	}
}

// pgProfileMarkupMetadata reads versions and names from div/h1/h2 elements
// and the sampling period from tables.
func pgProfileMarkupMetadata(root *html.Node) report.Metadata {
	f := pgFields{}
	for _, text := range elementsText(root, pgHeaderElements) {
		f.scanHeader(text)
	}
	for _, text := range elementsText(root, tableElements) {
		f.scanPeriod(text)
	}
	version := fmt.Sprintf("PostgreSQL %s, pg_profile %s", orUnknown(f.version), orUnknown(f.profileVersion))
	return newMetadata(report.EnginePgProfile, version, f.db, f.server, f.start, f.end)
}

func pgProfileTextMetadata(doc string) report.Metadata {
	f := pgFields{}
	f.scanHeader(doc)
	f.scanPeriod(doc)
	return newMetadata(report.EnginePgProfile, f.version, f.db, f.server, f.start, f.end)
}
