// Package populator generates synthetic AWR and pg_profile reports for demos and tests.
package populator

import (
	"fmt"
	"html"
	"math/rand"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

// Define possible column types
type ColumnType int

const (
	TypeCount ColumnType = iota
	TypeSeconds
	TypePercent
	TypeSize
)

// Define column structure
type Column struct {
	Name string
	Type ColumnType
}

// Define table structure. Keys label the rows in the first column.
type Table struct {
	ID      report.TableID
	Heading string
	Label   string
	Columns []Column
	Keys    []string
	// InText marks tables that plain-text reports also carry.
	InText bool
}

// Options controls Generate. The zero value produces an AWR markup report.
type Options struct {
	Engine report.Engine
	Format report.Format
	Seed   int64
	// Scale multiplies every generated metric; 0 means 1.
	Scale float64
	// MalformedRows is the number of rows per table with a wrong cell count
	// (markup) or an unparseable line (text).
	MalformedRows int
	Database      string
	Instance      string
	Start         time.Time
	Duration      time.Duration
}

// Sample is a generated report and the number of well-formed rows per table.
type Sample struct {
	Document string
	Rows     map[report.TableID]int
}

var sqlIDs = []string{"7ztv2z24kw0s0", "0w2qpuc6u2zsp", "f8pavn1bvsj7t", "5k5207588w9ry", "g0kj5u1q6m8yh"}

var queryIDs = []string{"4716023913", "8830517244", "1290448671", "6637201958", "3054819726"}

var awrTables = []Table{
	{
		ID: report.LoadProfile, Heading: "Load Profile", Label: "Metric", InText: true,
		Columns: []Column{{"Per Second", TypeSeconds}, {"Per Transaction", TypeSeconds}},
		Keys:    []string{"DB Time(s)", "DB CPU(s)", "Redo size (bytes)", "Logical read (blocks)", "Physical read (blocks)", "Executes (SQL)", "Transactions"},
	},
	{
		ID: report.InstanceEfficiency, Heading: "Instance Efficiency Percentages (Target 100%)", Label: "Metric",
		Columns: []Column{{"Value", TypePercent}},
		Keys:    []string{"Buffer Nowait %", "Buffer Hit %", "Library Hit %", "Soft Parse %", "Latch Hit %"},
	},
	{
		ID: report.TopSQLElapsed, Heading: "SQL ordered by Elapsed Time", Label: "SQL ID", InText: true,
		Columns: []Column{{"Elapsed Time", TypeSeconds}, {"CPU Time", TypeSeconds}, {"Executions", TypeCount}},
		Keys:    sqlIDs,
	},
	{
		ID: report.TopSQLCPU, Heading: "SQL ordered by CPU Time", Label: "SQL ID",
		Columns: []Column{{"CPU Time", TypeSeconds}, {"Elapsed Time", TypeSeconds}, {"Executions", TypeCount}},
		Keys:    sqlIDs,
	},
	{
		ID: report.WaitEvents, Heading: "Top 5 Timed Foreground Wait Events", Label: "Event", InText: true,
		Columns: []Column{{"Waits", TypeCount}, {"Time(s)", TypeSeconds}, {"% DB Time", TypePercent}},
		Keys:    []string{"DB CPU", "db file sequential read", "log file sync", "db file scattered read", "direct path read"},
	},
	{
		ID: report.IOStatistics, Heading: "IOStat by Function summary", Label: "Name",
		Columns: []Column{{"Reads Data", TypeSize}, {"Writes Data", TypeSize}, {"Waits", TypeCount}},
		Keys:    []string{"Buffer Cache Reads", "DBWR", "LGWR", "Direct Reads", "Others"},
	},
	{
		ID: report.TimeModelStatistics, Heading: "Time Model Statistics", Label: "Name",
		Columns: []Column{{"Time (s)", TypeSeconds}, {"% of DB Time", TypePercent}},
		Keys:    []string{"sql execute elapsed time", "DB CPU", "parse time elapsed", "PL/SQL execution elapsed time"},
	},
}

var pgProfileTables = []Table{
	{
		ID: report.GeneralStatistics, Heading: "Cluster statistics", Label: "Metric", InText: true,
		Columns: []Column{{"Value", TypeCount}},
		Keys:    []string{"Transactions committed", "Transactions rolled back", "Blocks fetched", "Blocks hit", "Temp files"},
	},
	{
		ID: report.WaitEvents, Heading: "Wait event type statistics", Label: "Event", InText: true,
		Columns: []Column{{"Count", TypeCount}, {"Time (ms)", TypeSeconds}, {"% Total", TypePercent}},
		Keys:    []string{"IO DataFileRead", "LWLock WALWrite", "Lock transactionid", "Client ClientRead"},
	},
	{
		ID: report.DatabaseStatistics, Heading: "Database statistics", Label: "Name",
		Columns: []Column{{"Commits", TypeCount}, {"Rollbacks", TypeCount}, {"Blocks read", TypeCount}, {"Size", TypeSize}},
		Keys:    []string{"appdb", "postgres", "analytics"},
	},
	{
		ID: report.QueriesStatistics, Heading: "Top SQL by elapsed time", Label: "Query ID", InText: true,
		Columns: []Column{{"Calls", TypeCount}, {"Total time", TypeSeconds}, {"Mean time", TypeSeconds}},
		Keys:    queryIDs,
	},
	{
		ID: report.IOStatistics, Heading: "Cluster I/O statistics", Label: "Name",
		Columns: []Column{{"Reads", TypeSize}, {"Writes", TypeSize}, {"Read time (ms)", TypeSeconds}},
		Keys:    []string{"relation", "temp relation", "wal"},
	},
	{
		ID: report.TableStatistics, Heading: "Top tables by estimated sequential scan volume", Label: "Name",
		Columns: []Column{{"Seq scans", TypeCount}, {"Index scans", TypeCount}, {"Rows inserted", TypeCount}},
		Keys:    []string{"public.orders", "public.customers", "public.line_items"},
	},
	{
		ID: report.IndexStatistics, Heading: "Top indexes by scans", Label: "Name",
		Columns: []Column{{"Scans", TypeCount}, {"Tuples read", TypeCount}, {"Size", TypeSize}},
		Keys:    []string{"orders_pkey", "customers_email_idx", "line_items_order_id_idx"},
	},
}

// Tables returns the table layouts generated for engine.
func Tables(engine report.Engine) []Table {
	if engine == report.EnginePgProfile {
		return pgProfileTables
	}
	return awrTables
}

var defaultStart = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

// Generate builds a deterministic report for opts. The same options always
// produce the same document.
func Generate(opts Options) Sample {
	if opts.Engine == "" {
		opts.Engine = report.EngineAWR
	}
	if opts.Format == "" {
		opts.Format = report.Markup
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.Database == "" {
		opts.Database = "PROD"
	}
	if opts.Instance == "" {
		opts.Instance = "prod1"
	}
	if opts.Start.IsZero() {
		opts.Start = defaultStart
	}
	if opts.Duration == 0 {
		opts.Duration = time.Hour
	}

	g := &generator{
		opts: opts,
		rnd:  rand.New(rand.NewSource(opts.Seed)),
		rows: make(map[report.TableID]int),
	}
	if opts.Format == report.Markup {
		g.markup()
	} else {
		g.text()
	}
	return Sample{Document: g.b.String(), Rows: g.rows}
}

type generator struct {
	opts Options
	rnd  *rand.Rand
	b    strings.Builder
	rows map[report.TableID]int
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.b, format, args...)
}

func (g *generator) end() time.Time {
	return g.opts.Start.Add(g.opts.Duration)
}

func (g *generator) markup() {
	pg := g.opts.Engine == report.EnginePgProfile
	if pg {
		g.printf("<html><head><title>pg_profile report</title></head><body>\n")
		g.printf("<h1>Postgres profile report, PostgreSQL 15.4, pg_profile 4.3</h1>\n")
		g.printf("<div>Database: %s Server: %s</div>\n", g.opts.Database, g.opts.Instance)
		g.printf("<table><tr><td>Start time: %s</td> <td>End time: %s</td></tr></table>\n",
			g.opts.Start.Format(time.DateTime), g.end().Format(time.DateTime))
	} else {
		g.printf("<html><head><title>AWR Report for DB: %s</title></head><body>\n", g.opts.Database)
		g.printf("<h1>WORKLOAD REPOSITORY report for</h1>\n")
		g.printf("<table><tr><td>DB Name: %s</td> <td>Instance: %s</td> <td>Release: 19.3.0.0.0</td></tr>\n",
			g.opts.Database, g.opts.Instance)
		g.printf("<tr><td>Begin Snap: 100 %s</td> <td>End Snap: 101 %s</td></tr></table>\n",
			g.opts.Start.Format("02-Jan-06 15:04"), g.end().Format("02-Jan-06 15:04"))
	}

	heading := "h2"
	if pg {
		heading = "h3"
	}
	for _, t := range Tables(g.opts.Engine) {
		g.printf("<%s>%s</%s>\n<table>\n<tr><th>%s</th>", heading, html.EscapeString(t.Heading), heading, html.EscapeString(t.Label))
		for _, c := range t.Columns {
			g.printf("<th>%s</th>", html.EscapeString(c.Name))
		}
		g.printf("</tr>\n")

		for _, key := range t.Keys {
			g.printf("<tr><td>%s</td>", html.EscapeString(key))
			for _, c := range t.Columns {
				g.printf("<td>%s</td>", g.value(c))
			}
			g.printf("</tr>\n")
		}
		g.rows[t.ID] = len(t.Keys)

		// alternate between a missing and an extra cell
		for i := 0; i < g.opts.MalformedRows; i++ {
			cells := len(t.Columns) - 1
			if i%2 == 1 {
				cells = len(t.Columns) + 1
			}
			g.printf("<tr><td>malformed %d</td>", i)
			for j := 0; j < cells; j++ {
				g.printf("<td>%d</td>", j)
			}
			g.printf("</tr>\n")
		}
		g.printf("</table>\n")
	}
	g.printf("</body></html>\n")
}

func (g *generator) text() {
	if g.opts.Engine == report.EnginePgProfile {
		g.printf("pg_profile report\n")
		g.printf("PostgreSQL 15.4\n")
		g.printf("Database: %s\nServer: %s\n", g.opts.Database, g.opts.Instance)
		g.printf("Start time: %s\nEnd time: %s\n\n", g.opts.Start.Format(time.DateTime), g.end().Format(time.DateTime))
	} else {
		g.printf("WORKLOAD REPOSITORY report (AWR)\n\n")
		g.printf("DB Name: %s  Instance: %s  Release: 19.3.0.0.0\n", g.opts.Database, g.opts.Instance)
		g.printf("Begin Snap: 100 %s\nEnd Snap: 101 %s\n\n",
			g.opts.Start.Format("02-Jan-06 15:04"), g.end().Format("02-Jan-06 15:04"))
	}

	for _, t := range Tables(g.opts.Engine) {
		if !t.InText {
			continue
		}
		g.printf("%s\n\n", t.Heading)
		for _, key := range t.Keys {
			values := make([]string, len(t.Columns))
			for i, c := range t.Columns {
				values[i] = g.value(c)
			}
			if t.Label == "Metric" {
				g.printf("  %s: %s\n", key, strings.Join(values, " "))
			} else {
				g.printf("  %s %s\n", key, strings.Join(values, " "))
			}
		}
		g.rows[t.ID] = len(t.Keys)
		for i := 0; i < g.opts.MalformedRows; i++ {
			g.printf("  -- truncated --\n")
		}
		g.printf("\n")
	}
}

// value draws one metric and formats it the way the reports print it.
// Every metric is at least 1 so percent changes are always defined.
func (g *generator) value(c Column) string {
	switch c.Type {
	case TypeCount:
		v := (10 + g.rnd.Float64()*100000) * g.opts.Scale
		return humanize.Comma(int64(v))
	case TypeSeconds:
		v := (1 + g.rnd.Float64()*5000) * g.opts.Scale
		return humanize.CommafWithDigits(v, 2)
	case TypePercent:
		v := (1 + g.rnd.Float64()*98) * g.opts.Scale
		return fmt.Sprintf("%.2f%%", v)
	case TypeSize:
		v := (16 + g.rnd.Float64()*4096) * g.opts.Scale
		return fmt.Sprintf("%dM", int64(v))
	default:
		return ""
	}
}
