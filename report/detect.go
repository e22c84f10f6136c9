package report

import "strings"

// Format is the document layout of a report
type Format string

const (
	Markup    Format = "markup"
	PlainText Format = "text"
)

// DetectWindow is how many leading bytes of a document Detect inspects.
const DetectWindow = 5000

// Detection is the classification of a document.
type Detection struct {
	Format Format
	Engine Engine
}

var (
	awrMarkers       = []string{"AWR", "Automatic Workload Repository"}
	pgProfileMarkers = []string{"pg_profile", "PostgreSQL"}
)

// Detect classifies a document by format and engine from its first
// DetectWindow bytes. It is a heuristic: a document with no engine marker is
// reported as AWR.
func Detect(doc string) Detection {
	head := doc
	if len(head) > DetectWindow {
		head = head[:DetectWindow]
	}

	det := Detection{Format: PlainText, Engine: EngineAWR}

	lower := strings.ToLower(head)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<table") {
		det.Format = Markup
	}

	switch {
	case containsAny(head, awrMarkers):
		det.Engine = EngineAWR
	case containsAny(head, pgProfileMarkers):
		det.Engine = EnginePgProfile
	}
	return det
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
