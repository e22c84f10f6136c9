// Package compare diffs the tables of two parsed reports and classifies
// every change against warning and critical thresholds.
package compare

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/mudrockdev/mudrockreportdiff/config"
	"github.com/mudrockdev/mudrockreportdiff/report"
)

var (
	// ErrUnknownTable is returned when a requested table id is not in the catalog of either engine.
	ErrUnknownTable = errors.New("unknown table")
	// ErrMissingModel is returned when the baseline or target model is nil.
	ErrMissingModel = errors.New("missing report model")
)

// labelColumns hold row labels and are never compared numerically.
var labelColumns = map[string]bool{
	"Metric":      true,
	"Event":       true,
	"SQL ID":      true,
	"Query ID":    true,
	"Name":        true,
	"Description": true,
}

// Engine compares report models. It keeps no state between calls.
type Engine struct {
	cfg    *config.Config
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an engine that reads thresholds, descriptions and ignored
// columns from cfg. A nil cfg behaves like an empty configuration.
func New(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare diffs baseline against target. With no tables requested, every
// table present in both models is compared in id order; otherwise the
// requested tables are compared in the given order and those missing from
// either model are skipped.
func (e *Engine) Compare(baseline, target *report.Model, tables []report.TableID) (*Result, error) {
	if baseline == nil || target == nil {
		return nil, ErrMissingModel
	}

	ids, err := e.selectTables(baseline, target, tables)
	if err != nil {
		return nil, err
	}

	mode := modeFor(baseline.Metadata.Engine, target.Metadata.Engine)
	th := e.cfg.ThresholdsFor(mode.ThresholdKind())
	logger := e.logger.With(zap.String("mode", string(mode)))
	if mode == ModeCross {
		from, to := baseline.Metadata.Engine.Platform(), target.Metadata.Engine.Platform()
		logger.Debug("metric mapping not applied",
			zap.String("from", from), zap.String("to", to),
			zap.Int("mapped_metrics", len(e.cfg.Mapping(from, to))))
	}

	result := &Result{
		Mode:       mode,
		Baseline:   baseline.Metadata,
		Target:     target.Metadata,
		Thresholds: th,
	}

	for _, id := range ids {
		bt, ok := baseline.Table(id)
		if !ok {
			logger.Debug("table missing from baseline", zap.String("table", string(id)))
			continue
		}
		tt, ok := target.Table(id)
		if !ok {
			logger.Debug("table missing from target", zap.String("table", string(id)))
			continue
		}

		var outcomes []Outcome
		if mode == ModeCross {
			outcomes = e.compareColumns(bt, tt, th)
		} else {
			outcomes = e.compareRows(bt, tt, th)
		}
		if len(outcomes) == 0 {
			logger.Debug("table produced no outcomes", zap.String("table", string(id)))
			continue
		}

		result.Tables = append(result.Tables, TableDiff{
			Table:       id,
			Description: e.cfg.Description(string(id)),
			Baseline:    bt,
			Target:      tt,
			Outcomes:    outcomes,
		})
	}

	result.Summary = summarize(result.Tables)
	return result, nil
}

// selectTables validates the requested ids, or lists the tables common to both models.
func (e *Engine) selectTables(baseline, target *report.Model, requested []report.TableID) ([]report.TableID, error) {
	if len(requested) == 0 {
		var common []report.TableID
		for _, id := range baseline.TableIDs() {
			if _, ok := target.Table(id); ok {
				common = append(common, id)
			}
		}
		return common, nil
	}

	seen := make(map[report.TableID]bool, len(requested))
	ids := make([]report.TableID, 0, len(requested))
	for _, id := range requested {
		if !report.KnownTable(id) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTable, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// numeric reports whether column takes part in numeric comparison.
func (e *Engine) numeric(column string) bool {
	return !labelColumns[column] && !e.cfg.Ignored(column)
}

// compareRows aligns rows by the value of their first column. When the
// target has several rows with the same key the last one is used. A column
// name repeated in the header yields one outcome per occurrence.
func (e *Engine) compareRows(baseline, target *report.Table, th config.Thresholds) []Outcome {
	if len(baseline.Columns) == 0 || len(target.Columns) == 0 {
		return nil
	}

	targetRows := make(map[string]report.Row, len(target.Rows))
	for _, row := range target.Rows {
		targetRows[rowKey(target, row)] = row
	}

	var outcomes []Outcome
	for _, brow := range baseline.Rows {
		key := rowKey(baseline, brow)
		trow, ok := targetRows[key]
		if !ok {
			continue
		}
		for _, col := range baseline.Columns {
			if !e.numeric(col) {
				continue
			}
			bv, ok := brow[col]
			if !ok || bv.IsNull() {
				continue
			}
			tv, ok := trow[col]
			if !ok || tv.IsNull() {
				continue
			}
			o := diff(col, bv, tv, th)
			o.Row = key
			outcomes = append(outcomes, o)
		}
	}
	return outcomes
}

// compareColumns compares the mean of every column the two tables share.
// Rows of different engines rarely correspond, so row detail is collapsed.
func (e *Engine) compareColumns(baseline, target *report.Table, th config.Thresholds) []Outcome {
	inTarget := make(map[string]bool, len(target.Columns))
	for _, col := range target.Columns {
		inTarget[col] = true
	}

	var outcomes []Outcome
	for _, col := range uniqueColumns(baseline.Columns) {
		if !inTarget[col] || !e.numeric(col) {
			continue
		}
		bmean, ok := columnMean(baseline, col)
		if !ok {
			continue
		}
		tmean, ok := columnMean(target, col)
		if !ok {
			continue
		}
		outcomes = append(outcomes, diff(col, report.FloatValue(bmean), report.FloatValue(tmean), th))
	}
	return outcomes
}

// diff computes the change from baseline to target and classifies it.
// Values that cannot be read as finite numbers, or whose difference
// overflows, yield an outcome without changes. A percent change that
// overflows is left unset like one over a zero baseline.
func diff(metric string, baseline, target report.Value, th config.Thresholds) Outcome {
	o := Outcome{Metric: metric, Baseline: baseline, Target: target}

	b, ok := finite(baseline)
	if !ok {
		return o
	}
	t, ok := finite(target)
	if !ok {
		return o
	}

	abs := t - b
	if math.IsInf(abs, 0) {
		return o
	}
	o.AbsoluteChange = &abs
	if b == 0 {
		return o
	}

	pct := abs / math.Abs(b) * 100
	if math.IsInf(pct, 0) {
		return o
	}
	o.PercentChange = &pct
	o.IsCritical, o.IsWarning = classify(pct, th)
	return o
}

// classify flags a percent change. Critical takes precedence over warning.
func classify(pct float64, th config.Thresholds) (critical, warning bool) {
	mag := math.Abs(pct)
	switch {
	case mag >= th.CriticalPercent:
		return true, false
	case mag >= th.WarningPercent:
		return false, true
	default:
		return false, false
	}
}

func rowKey(t *report.Table, row report.Row) string {
	return row[t.Columns[0]].String()
}

// columnMean averages the numeric values of column; text that does not
// parse as a finite number is left out.
func columnMean(t *report.Table, column string) (float64, bool) {
	var sum float64
	n := 0
	for _, row := range t.Rows {
		v, ok := row[column]
		if !ok || v.IsNull() {
			continue
		}
		f, ok := finite(v)
		if !ok {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, false
	}
	mean := sum / float64(n)
	if math.IsInf(mean, 0) {
		return 0, false
	}
	return mean, true
}

// finite reads v as a number, rejecting the infinities an overflowing cell
// normalizes to.
func finite(v report.Value) (float64, bool) {
	f, ok := v.Float64()
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func uniqueColumns(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, col)
	}
	return out
}
