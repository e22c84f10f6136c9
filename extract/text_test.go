package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

const awrText = `WORKLOAD REPOSITORY report (AWR)

DB Name: PROD  Instance: prod1  Release: 19.3.0.0.0
Begin Snap: 100 01-Jan-2024 10:00
End Snap: 101 01-Jan-2024 11:00

Load Profile

   DB Time(s):  1,000   2.5
   Redo size (bytes): 2M 12.5%
   no colon on this line
   Short: 1

SQL ordered by Elapsed Time
abc123 100.5 90 12
short 1

  Top 5 Timed Foreground Wait Events
db file sequential read 1,000 45 30.5%
log file sync 200 5 4.1
`

func TestTextColonPairs(t *testing.T) {
	ex := newTestExtractor(t, awrText)
	require.Equal(t, report.PlainText, ex.Format())

	table, ok := ex.Extract(report.LoadProfile)
	require.True(t, ok)
	assert.Equal(t, []string{"Metric", "Per Second", "Per Transaction"}, table.Columns)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, report.Row{
		"Metric":          report.TextValue("DB Time(s)"),
		"Per Second":      report.IntValue(1000),
		"Per Transaction": report.FloatValue(2.5),
	}, table.Rows[0])
	assert.Equal(t, report.FloatValue(2*1048576.0), table.Rows[1]["Per Second"])
	assert.Equal(t, report.FloatValue(12.5), table.Rows[1]["Per Transaction"])
}

func TestTextLeadingLabel(t *testing.T) {
	ex := newTestExtractor(t, awrText)

	table, ok := ex.Extract(report.TopSQLElapsed)
	require.True(t, ok)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, report.Row{
		"SQL ID":       report.TextValue("abc123"),
		"Elapsed Time": report.FloatValue(100.5),
		"CPU Time":     report.IntValue(90),
		"Executions":   report.IntValue(12),
	}, table.Rows[0])
}

func TestTextTrailingValues(t *testing.T) {
	ex := newTestExtractor(t, awrText)

	table, ok := ex.Extract(report.WaitEvents)
	require.True(t, ok)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, report.TextValue("db file sequential read"), table.Rows[0]["Event"])
	assert.Equal(t, report.IntValue(1000), table.Rows[0]["Waits"])
	assert.Equal(t, report.IntValue(45), table.Rows[0]["Time(s)"])
	assert.Equal(t, report.FloatValue(30.5), table.Rows[0]["% DB Time"])
	assert.Equal(t, report.TextValue("log file sync"), table.Rows[1]["Event"])
}

func TestTextAbsentTables(t *testing.T) {
	ex := newTestExtractor(t, awrText)

	// markup-only table kinds are not part of the text catalog
	_, ok := ex.Extract(report.InstanceEfficiency)
	assert.False(t, ok)

	ex = newTestExtractor(t, "AWR\nLoad Profile\n\nnothing: here\n")
	_, ok = ex.Extract(report.LoadProfile)
	assert.False(t, ok, "a section without valid lines is absent")

	ex = newTestExtractor(t, "AWR\nthe Load Profile section\n   DB Time: 1 2\n")
	_, ok = ex.Extract(report.LoadProfile)
	assert.False(t, ok, "heading must start the line")
}

func TestTextSectionEndsAtBlankLine(t *testing.T) {
	doc := "AWR\r\nLoad Profile\r\n  a: 1 2\r\n  \t \r\n  b: 3 4\r\n"
	ex := newTestExtractor(t, doc)

	table, ok := ex.Extract(report.LoadProfile)
	require.True(t, ok)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, report.TextValue("a"), table.Rows[0]["Metric"])
}

func TestAWRTextMetadata(t *testing.T) {
	md := newTestExtractor(t, awrText).Metadata()

	assert.Equal(t, "PROD", md.Database)
	assert.Equal(t, "prod1", md.Instance)
	assert.Equal(t, "19.3.0.0.0", md.Version)
	require.NotNil(t, md.Start)
	assert.Equal(t, time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC), *md.Start)
	require.NotNil(t, md.Duration)
	assert.Equal(t, 60.0, *md.Duration)
}

const pgText = `pg_profile report
PostgreSQL 15.4
Database: appdb
Server: pg01
Start time: 2024-03-01 10:00:00
End time: 2024-03-01 10:45:00

Cluster statistics
Transactions committed: 12,000
Blocks hit: 98.5%
Temp bytes: 1.5G

Wait event type statistics
IO DataFileRead 1,200 350.5 40%
LWLock WALWrite 10 2 1.5

Top SQL by elapsed time
4716023913 1,000 2,500.5 2.5
`

func TestPgProfileText(t *testing.T) {
	ex := newTestExtractor(t, pgText)
	require.Equal(t, report.EnginePgProfile, ex.Engine())
	assert.Equal(t, []report.TableID{report.GeneralStatistics, report.WaitEvents, report.QueriesStatistics}, ex.Tables())

	stats, ok := ex.Extract(report.GeneralStatistics)
	require.True(t, ok)
	require.Len(t, stats.Rows, 3)
	assert.Equal(t, report.IntValue(12000), stats.Rows[0]["Value"])
	assert.Equal(t, report.FloatValue(98.5), stats.Rows[1]["Value"])
	assert.Equal(t, report.FloatValue(1.5*1024*1024*1024), stats.Rows[2]["Value"])

	waits, ok := ex.Extract(report.WaitEvents)
	require.True(t, ok)
	require.Len(t, waits.Rows, 2)
	assert.Equal(t, report.TextValue("IO DataFileRead"), waits.Rows[0]["Event"])
	assert.Equal(t, report.FloatValue(350.5), waits.Rows[0]["Time (ms)"])

	queries, ok := ex.Extract(report.QueriesStatistics)
	require.True(t, ok)
	require.Len(t, queries.Rows, 1)
	// text labels are kept verbatim
	assert.Equal(t, report.TextValue("4716023913"), queries.Rows[0]["Query ID"])
	assert.Equal(t, report.FloatValue(2.5), queries.Rows[0]["Mean time"])
}

func TestPgProfileTextMetadata(t *testing.T) {
	md := newTestExtractor(t, pgText).Metadata()

	assert.Equal(t, report.EnginePgProfile, md.Engine)
	assert.Equal(t, "15.4", md.Version)
	assert.Equal(t, "appdb", md.Database)
	assert.Equal(t, "pg01", md.Instance)
	require.NotNil(t, md.Duration)
	assert.Equal(t, 45.0, *md.Duration)
}

func TestParseLine(t *testing.T) {
	single := newTextSection(report.GeneralStatistics, "x", colonPairs, "Metric", "Value")
	row, ok := single.parseLine("Checkpoint write time:  12 ms")
	require.True(t, ok)
	assert.Equal(t, report.TextValue("12 ms"), row["Value"])

	trailing := newTextSection(report.WaitEvents, "x", trailingValues, "Event", "A", "B")
	_, ok = trailing.parseLine(strings.Repeat(" ", 4) + "1 2")
	assert.False(t, ok, "label needs at least one token")
}

func TestTextHeadingTakesRestOfLine(t *testing.T) {
	body := "\n\n4716023913 1,000 2,500.5 2.5\n"
	for _, heading := range []string{"Top SQL by elapsed", "Top SQL by elapsed time", "  Top SQL by elapsed time (top 20)\r"} {
		t.Run(strings.TrimSpace(heading), func(t *testing.T) {
			ex := newTestExtractor(t, "pg_profile report\n"+heading+body)
			table, ok := ex.Extract(report.QueriesStatistics)
			require.True(t, ok)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, report.TextValue("4716023913"), table.Rows[0]["Query ID"])
		})
	}
}
