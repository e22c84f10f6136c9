package report

import (
	"fmt"
	"sort"
	"time"
)

// Engine identifies the tool that generated a report
type Engine string

const (
	EngineAWR       Engine = "oracle_awr"
	EnginePgProfile Engine = "postgresql_pg_profile"
)

// Platform returns the short platform name used in comparison modes and metric mappings.
func (e Engine) Platform() string {
	switch e {
	case EnginePgProfile:
		return "postgres"
	default:
		return "oracle"
	}
}

// TableID names one table kind of the extraction catalog
type TableID string

const (
	LoadProfile         TableID = "load_profile"
	InstanceEfficiency  TableID = "instance_efficiency"
	TopSQLElapsed       TableID = "top_sql_elapsed"
	TopSQLCPU           TableID = "top_sql_cpu"
	WaitEvents          TableID = "wait_events"
	IOStatistics        TableID = "io_statistics"
	TimeModelStatistics TableID = "time_model_statistics"
	GeneralStatistics   TableID = "general_statistics"
	DatabaseStatistics  TableID = "database_statistics"
	QueriesStatistics   TableID = "queries_statistics"
	TableStatistics     TableID = "table_statistics"
	IndexStatistics     TableID = "index_statistics"
)

var knownTables = map[TableID]bool{
	LoadProfile:         true,
	InstanceEfficiency:  true,
	TopSQLElapsed:       true,
	TopSQLCPU:           true,
	WaitEvents:          true,
	IOStatistics:        true,
	TimeModelStatistics: true,
	GeneralStatistics:   true,
	DatabaseStatistics:  true,
	QueriesStatistics:   true,
	TableStatistics:     true,
	IndexStatistics:     true,
}

// KnownTable reports whether id belongs to the catalog of either engine.
func KnownTable(id TableID) bool {
	return knownTables[id]
}

// Metadata describes the report a model was parsed from.
type Metadata struct {
	Engine   Engine     `json:"engine"`
	Version  string     `json:"version"`
	Database string     `json:"database"`
	Instance string     `json:"instance"`
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	// Duration is End - Start in minutes, set only when both are known.
	Duration *float64 `json:"duration_minutes,omitempty"`
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s - %s (%s)", m.Engine, m.Database, m.Version)
}

// Row maps column names to cell values. Keys are always a subset of the
// owning table's columns.
type Row map[string]Value

// Table is one metric table extracted from a report.
type Table struct {
	ID      TableID  `json:"id"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows. Empty tables are treated as absent.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Model is the result of parsing one report: metadata plus every table that was found.
type Model struct {
	Metadata Metadata           `json:"metadata"`
	Format   Format             `json:"format"`
	Tables   map[TableID]*Table `json:"tables"`
}

// Table returns the table with the given id if the report contains it.
func (m *Model) Table(id TableID) (*Table, bool) {
	if m == nil {
		return nil, false
	}
	t, ok := m.Tables[id]
	return t, ok
}

// TableIDs returns the ids of the tables present in the model, sorted.
func (m *Model) TableIDs() []TableID {
	if m == nil {
		return nil
	}
	ids := make([]TableID, 0, len(m.Tables))
	for id := range m.Tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
