package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mudrockdev/mudrockreportdiff/compare"
	"github.com/mudrockdev/mudrockreportdiff/report"
)

var (
	criticalColor = color.New(color.FgHiRed).SprintFunc()
	warningColor  = color.New(color.FgHiYellow).SprintFunc()
	okColor       = color.New(color.FgHiGreen).SprintFunc()
	titleColor    = color.New(color.Bold).SprintFunc()
)

var modeTitles = map[compare.Mode]string{
	compare.ModeOracle:   "Oracle AWR vs Oracle AWR",
	compare.ModePostgres: "PostgreSQL pg_profile vs PostgreSQL pg_profile",
	compare.ModeCross:    "Oracle AWR vs PostgreSQL pg_profile (cross-platform)",
}

const maxCellWidth = 40

func writeText(w io.Writer, result *compare.Result) error {
	title, ok := modeTitles[result.Mode]
	if !ok {
		title = string(result.Mode)
	}

	fmt.Fprintf(w, "%s\n", titleColor("=== Report Comparison ==="))
	fmt.Fprintf(w, "Mode:     %s\n", title)
	fmt.Fprintf(w, "Baseline: %s\n", describe(result.Baseline))
	fmt.Fprintf(w, "Target:   %s\n", describe(result.Target))

	for _, t := range result.Tables {
		fmt.Fprintf(w, "\n%s\n", titleColor(t.Description))

		table := tablewriter.NewWriter(w)
		table.Header("Row", "Metric", "Baseline", "Target", "Change", "Status")
		for _, o := range t.Outcomes {
			err := table.Append([]string{
				truncate(o.Row),
				truncate(o.Metric),
				formatValue(o.Baseline),
				formatValue(o.Target),
				formatChange(o),
				paintStatus(o),
			})
			if err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	s := result.Summary
	fmt.Fprintf(w, "\n%s\n", titleColor("=== Summary ==="))
	fmt.Fprintf(w, "Tables compared: %d\n", s.TotalTables)
	fmt.Fprintf(w, "Metrics compared: %d\n", s.TotalMetrics)
	fmt.Fprintf(w, "Critical: %s\n", criticalColor(s.CriticalCount))
	fmt.Fprintf(w, "Warnings: %s\n", warningColor(s.WarningCount))
	if !s.HasIssues {
		fmt.Fprintf(w, "%s\n", okColor("No significant differences found."))
	}
	fmt.Fprintf(w, "Thresholds: warning %s%%, critical %s%%\n",
		humanize.Ftoa(result.Thresholds.WarningPercent), humanize.Ftoa(result.Thresholds.CriticalPercent))
	return nil
}

func writeModelText(w io.Writer, m *report.Model) error {
	fmt.Fprintf(w, "%s\n", titleColor("=== Report ==="))
	fmt.Fprintf(w, "%s\n", describe(m.Metadata))
	fmt.Fprintf(w, "Format: %s, tables: %d\n", m.Format, len(m.Tables))

	for _, id := range m.TableIDs() {
		t := m.Tables[id]
		fmt.Fprintf(w, "\n%s (%s rows)\n", titleColor(string(id)), humanize.Comma(int64(t.Len())))

		table := tablewriter.NewWriter(w)
		header := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			header[i] = col
		}
		table.Header(header...)
		for _, row := range t.Rows {
			cells := make([]string, len(t.Columns))
			for i, col := range t.Columns {
				cells[i] = formatValue(row[col])
			}
			if err := table.Append(cells); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

func describe(md report.Metadata) string {
	s := fmt.Sprintf("%s, database %s, instance %s, version %s", md.Engine, md.Database, md.Instance, md.Version)
	if md.Start != nil && md.End != nil {
		s += fmt.Sprintf(", %s to %s", md.Start.Format("2006-01-02 15:04"), md.End.Format("2006-01-02 15:04"))
	}
	if md.Duration != nil {
		s += fmt.Sprintf(" (%s min)", humanize.Ftoa(*md.Duration))
	}
	return s
}

// formatValue prints numbers with thousands separators and null as N/A.
func formatValue(v report.Value) string {
	switch v.Kind() {
	case report.Int:
		n, _ := v.Int64()
		return humanize.Comma(n)
	case report.Float:
		f, _ := v.Float64()
		return humanize.CommafWithDigits(f, 2)
	case report.Text:
		return truncate(v.String())
	default:
		return "N/A"
	}
}

func formatChange(o compare.Outcome) string {
	if o.PercentChange == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.1f%% %s", *o.PercentChange, o.Indicator())
}

func paintStatus(o compare.Outcome) string {
	s := strings.ToUpper(o.Status())
	switch {
	case o.IsCritical:
		return criticalColor(s)
	case o.IsWarning:
		return warningColor(s)
	default:
		return s
	}
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxCellWidth {
		return s
	}
	r := []rune(s)
	return string(r[:maxCellWidth-3]) + "..."
}
