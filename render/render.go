// Package render writes comparison results and parsed reports for people and tools.
package render

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/mudrockdev/mudrockreportdiff/compare"
	"github.com/mudrockdev/mudrockreportdiff/report"
)

// Output formats.
const (
	Text = "text"
	JSON = "json"
	CSV  = "csv"
	HTML = "html"
)

// ErrUnsupportedFormat is returned for an output format this package does not write.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the formats accepted by Write.
func Formats() []string {
	return []string{Text, JSON, CSV, HTML}
}

// ModelFormats lists the formats accepted by WriteModel.
func ModelFormats() []string {
	return []string{Text, JSON}
}

// CheckFormat returns ErrUnsupportedFormat unless Write accepts format.
func CheckFormat(format string) error {
	return checkFormat(format, Formats())
}

// CheckModelFormat returns ErrUnsupportedFormat unless WriteModel accepts format.
func CheckModelFormat(format string) error {
	return checkFormat(format, ModelFormats())
}

func checkFormat(format string, supported []string) error {
	if slices.Contains(supported, format) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Write renders result to w in the given format.
func Write(w io.Writer, result *compare.Result, format string) error {
	switch format {
	case Text:
		return writeText(w, result)
	case JSON:
		return writeJSON(w, result)
	case CSV:
		return writeCSV(w, result)
	case HTML:
		return writeHTML(w, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteModel renders a parsed report. Only text and json are supported.
func WriteModel(w io.Writer, m *report.Model, format string) error {
	switch format {
	case Text:
		return writeModelText(w, m)
	case JSON:
		return writeJSON(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var csvHeader = []string{"table", "description", "row", "metric", "baseline", "target", "absolute_change", "percent_change", "status"}

func writeCSV(w io.Writer, result *compare.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range result.Tables {
		for _, o := range t.Outcomes {
			record := []string{
				string(t.Table),
				t.Description,
				o.Row,
				o.Metric,
				o.Baseline.String(),
				o.Target.String(),
				optionalFloat(o.AbsoluteChange),
				optionalFloat(o.PercentChange),
				o.Status(),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
