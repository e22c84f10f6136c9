package compare

import (
	"github.com/mudrockdev/mudrockreportdiff/config"
	"github.com/mudrockdev/mudrockreportdiff/report"
)

// Mode is the kind of comparison, decided by the engines of the two reports
type Mode string

const (
	ModeOracle   Mode = "oracle_oracle"
	ModePostgres Mode = "postgres_postgres"
	ModeCross    Mode = "cross_platform"
)

// modeFor picks the comparison mode for a pair of report engines.
func modeFor(baseline, target report.Engine) Mode {
	if baseline != target {
		return ModeCross
	}
	if baseline == report.EnginePgProfile {
		return ModePostgres
	}
	return ModeOracle
}

// ThresholdKind returns the configuration key holding the thresholds for m.
func (m Mode) ThresholdKind() string {
	if m == ModeCross {
		return config.CrossPlatform
	}
	return config.SamePlatform
}

// Outcome is one compared metric.
type Outcome struct {
	// Row is the key of the aligned rows. It is empty for cross-engine
	// comparisons, which compare column means.
	Row      string       `json:"row,omitempty"`
	Metric   string       `json:"metric"`
	Baseline report.Value `json:"baseline"`
	Target   report.Value `json:"target"`
	// AbsoluteChange is nil when either value is not numeric.
	AbsoluteChange *float64 `json:"absolute_change"`
	// PercentChange is nil when AbsoluteChange is nil or the baseline is zero.
	PercentChange *float64 `json:"percent_change"`
	IsWarning     bool     `json:"is_warning"`
	IsCritical    bool     `json:"is_critical"`
}

// Indicator returns an arrow for the direction of the change, or "=".
func (o Outcome) Indicator() string {
	switch {
	case o.AbsoluteChange == nil:
		return "="
	case *o.AbsoluteChange > 0:
		return "↑"
	case *o.AbsoluteChange < 0:
		return "↓"
	default:
		return "="
	}
}

// Status names the classification: critical, warning, n/a when the pair
// is not numeric, or ok.
func (o Outcome) Status() string {
	switch {
	case o.IsCritical:
		return "critical"
	case o.IsWarning:
		return "warning"
	case o.AbsoluteChange == nil:
		return "n/a"
	default:
		return "ok"
	}
}

// TableDiff holds the outcomes of one table. A TableDiff always has at least one outcome.
type TableDiff struct {
	Table       report.TableID `json:"table"`
	Description string         `json:"description"`
	Baseline    *report.Table  `json:"-"`
	Target      *report.Table  `json:"-"`
	Outcomes    []Outcome      `json:"outcomes"`
}

func (d TableDiff) CriticalCount() int {
	n := 0
	for _, o := range d.Outcomes {
		if o.IsCritical {
			n++
		}
	}
	return n
}

// WarningCount counts warnings that are not also critical.
func (d TableDiff) WarningCount() int {
	n := 0
	for _, o := range d.Outcomes {
		if o.IsWarning && !o.IsCritical {
			n++
		}
	}
	return n
}

type Summary struct {
	TotalTables   int  `json:"total_tables"`
	TotalMetrics  int  `json:"total_metrics"`
	CriticalCount int  `json:"critical_count"`
	WarningCount  int  `json:"warning_count"`
	HasIssues     bool `json:"has_issues"`
}

// Result is the full outcome of comparing two reports.
type Result struct {
	Mode       Mode              `json:"mode"`
	Baseline   report.Metadata   `json:"baseline"`
	Target     report.Metadata   `json:"target"`
	Tables     []TableDiff       `json:"tables"`
	Thresholds config.Thresholds `json:"thresholds"`
	Summary    Summary           `json:"summary"`
}

func summarize(tables []TableDiff) Summary {
	s := Summary{TotalTables: len(tables)}
	for _, t := range tables {
		s.TotalMetrics += len(t.Outcomes)
		s.CriticalCount += t.CriticalCount()
		s.WarningCount += t.WarningCount()
	}
	s.HasIssues = s.CriticalCount+s.WarningCount > 0
	return s
}
