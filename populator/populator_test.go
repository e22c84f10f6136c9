package populator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

func TestGenerateIsDeterministic(t *testing.T) {
	opts := Options{Engine: report.EnginePgProfile, Format: report.Markup, Seed: 42}

	a := Generate(opts)
	b := Generate(opts)
	assert.Equal(t, a.Document, b.Document)

	opts.Seed = 43
	c := Generate(opts)
	assert.NotEqual(t, a.Document, c.Document)
}

func TestGenerateDetectable(t *testing.T) {
	tests := []struct {
		engine report.Engine
		format report.Format
	}{
		{report.EngineAWR, report.Markup},
		{report.EngineAWR, report.PlainText},
		{report.EnginePgProfile, report.Markup},
		{report.EnginePgProfile, report.PlainText},
	}
	for _, tt := range tests {
		t.Run(string(tt.engine)+"/"+string(tt.format), func(t *testing.T) {
			sample := Generate(Options{Engine: tt.engine, Format: tt.format, Seed: 1})
			assert.Equal(t, report.Detection{Format: tt.format, Engine: tt.engine}, report.Detect(sample.Document))
		})
	}
}

func TestGenerateRowCounts(t *testing.T) {
	markup := Generate(Options{Engine: report.EngineAWR, Format: report.Markup, MalformedRows: 2})
	require.Len(t, markup.Rows, len(awrTables))
	assert.Equal(t, len(sqlIDs), markup.Rows[report.TopSQLElapsed])
	assert.Equal(t, 2*len(awrTables), strings.Count(markup.Document, "malformed"))

	text := Generate(Options{Engine: report.EnginePgProfile, Format: report.PlainText})
	assert.Equal(t, map[report.TableID]int{
		report.GeneralStatistics: 5,
		report.WaitEvents:        4,
		report.QueriesStatistics: len(queryIDs),
	}, text.Rows)
}

func TestGenerateScale(t *testing.T) {
	base := Generate(Options{Format: report.PlainText, Seed: 7})
	scaled := Generate(Options{Format: report.PlainText, Seed: 7, Scale: 2})
	assert.NotEqual(t, base.Document, scaled.Document)
	assert.Equal(t, base.Rows, scaled.Rows)
}
