// Package history records comparison results in a SQL database so runs can
// be listed and reviewed later. MySQL, PostgreSQL and SQLite are supported.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mudrockdev/mudrockreportdiff/compare"
	"github.com/mudrockdev/mudrockreportdiff/report"
)

const (
	runsTable     = "comparison_runs"
	outcomesTable = "comparison_outcomes"
)

var (
	// ErrNotInitialized is returned when the history tables are missing.
	ErrNotInitialized = errors.New("history store not initialized")
	// ErrRunNotFound is returned by Run for an unknown id.
	ErrRunNotFound = errors.New("comparison run not found")
)

// Run is one saved comparison.
type Run struct {
	ID               string
	Created          time.Time
	Mode             compare.Mode
	BaselineEngine   report.Engine
	BaselineDatabase string
	TargetEngine     report.Engine
	TargetDatabase   string
	Summary          compare.Summary
}

// Outcome is a saved compared metric.
type Outcome struct {
	Table report.TableID
	compare.Outcome
}

// Info describes the database behind a store.
type Info struct {
	Host     string
	Database string
	Tables   int
	Size     int64 // in bytes
}

type Store struct {
	db      *sql.DB
	adapter Adapter
	url     string
	logger  *zap.Logger
	now     func() time.Time
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock replaces the clock stamping saved runs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open connects to the history database. url may carry a driver scheme
// such as mysql:// or sqlite://.
func Open(driver, url string, opts ...Option) (*Store, error) {
	adapter, err := GetAdapter(driver)
	if err != nil {
		return nil, err
	}

	s := &Store{
		adapter: adapter,
		url:     adapter.GetConnectStringFromURL(url),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.db, err = adapter.Connect(s.url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s history database: %w", driver, err)
	}
	s.logger = s.logger.With(zap.String("driver", driver))
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the history tables when they do not exist.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range s.adapter.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating history schema: %w", err)
		}
	}
	s.logger.Debug("history schema ready")
	return nil
}

// Check returns ErrNotInitialized unless both history tables exist.
func (s *Store) Check(ctx context.Context) error {
	tables, err := s.adapter.GetTableList(ctx, s.db)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}
	for _, want := range []string{runsTable, outcomesTable} {
		found := false
		for _, t := range tables {
			if strings.EqualFold(t, want) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: table %s missing", ErrNotInitialized, want)
		}
	}
	return nil
}

// Info reports where the store lives, how many tables it holds and its
// size. The size is left at zero when the database cannot report it.
func (s *Store) Info(ctx context.Context) (Info, error) {
	info := Info{}

	if before, after, ok := strings.Cut(s.url, "@"); ok && before != "" {
		hostPart, dbPart, _ := strings.Cut(after, "/")
		info.Host = strings.TrimSuffix(strings.TrimPrefix(hostPart, "tcp("), ")")
		info.Database, _, _ = strings.Cut(dbPart, "?")
	} else {
		info.Host = "local"
		info.Database = s.url
	}

	tables, err := s.adapter.GetTableList(ctx, s.db)
	if err != nil {
		return info, err
	}
	info.Tables = len(tables)

	var size sql.NullInt64
	if err := s.db.QueryRowContext(ctx, s.adapter.SizeQuery()).Scan(&size); err != nil {
		s.logger.Debug("database size unavailable", zap.Error(err))
	} else {
		info.Size = size.Int64
	}
	return info, nil
}

// Save stores result and returns the id of the new run.
func (s *Store) Save(ctx context.Context, result *compare.Result) (string, error) {
	id := uuid.NewString()
	created := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.adapter.Rebind(`INSERT INTO `+runsTable+` (
    id, created_unix_ms, mode, baseline_engine, baseline_database, target_engine, target_database,
    total_tables, total_metrics, critical_count, warning_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, created.UnixMilli(), string(result.Mode),
		string(result.Baseline.Engine), result.Baseline.Database,
		string(result.Target.Engine), result.Target.Database,
		result.Summary.TotalTables, result.Summary.TotalMetrics,
		result.Summary.CriticalCount, result.Summary.WarningCount,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.adapter.Rebind(`INSERT INTO `+outcomesTable+` (
    run_id, seq, table_id, row_key, metric, baseline_value, target_value, absolute_change, percent_change, status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	seq := 0
	for _, table := range result.Tables {
		for _, o := range table.Outcomes {
			_, err := stmt.ExecContext(ctx,
				id, seq, string(table.Table), o.Row, o.Metric,
				o.Baseline.String(), o.Target.String(),
				nullFloat(o.AbsoluteChange), nullFloat(o.PercentChange),
				o.Status(),
			)
			if err != nil {
				return "", fmt.Errorf("inserting outcome %d: %w", seq, err)
			}
			seq++
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	s.logger.Info("saved comparison run", zap.String("id", id), zap.Int("outcomes", seq))
	return id, nil
}

const runColumns = `id, created_unix_ms, mode, baseline_engine, baseline_database, target_engine, target_database,
    total_tables, total_metrics, critical_count, warning_count`

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM ` + runsTable + ` ORDER BY created_unix_ms DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.adapter.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Run returns the run with the given id.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, s.adapter.Rebind(`SELECT `+runColumns+` FROM `+runsTable+` WHERE id = ?`), id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Outcomes returns the saved outcomes of a run in their original order.
// Values come back normalized from their stored text, so a float with no
// fractional part reads back as an integer.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx, s.adapter.Rebind(`SELECT
    table_id, row_key, metric, baseline_value, target_value, absolute_change, percent_change, status
FROM `+outcomesTable+` WHERE run_id = ? ORDER BY seq`), runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var (
			table, status     string
			baseline, target  string
			absolute, percent sql.NullFloat64
			o                 Outcome
		)
		if err := rows.Scan(&table, &o.Row, &o.Metric, &baseline, &target, &absolute, &percent, &status); err != nil {
			return nil, err
		}
		o.Table = report.TableID(table)
		o.Baseline = report.Normalize(baseline)
		o.Target = report.Normalize(target)
		o.AbsoluteChange = floatPtr(absolute)
		o.PercentChange = floatPtr(percent)
		o.IsCritical = status == "critical"
		o.IsWarning = status == "warning"
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                         Run
		created                     int64
		mode, baseEngine, tgtEngine string
	)
	err := row.Scan(
		&run.ID, &created, &mode,
		&baseEngine, &run.BaselineDatabase, &tgtEngine, &run.TargetDatabase,
		&run.Summary.TotalTables, &run.Summary.TotalMetrics,
		&run.Summary.CriticalCount, &run.Summary.WarningCount,
	)
	if err != nil {
		return Run{}, err
	}
	run.Created = time.UnixMilli(created).UTC()
	run.Mode = compare.Mode(mode)
	run.BaselineEngine = report.Engine(baseEngine)
	run.TargetEngine = report.Engine(tgtEngine)
	run.Summary.HasIssues = run.Summary.CriticalCount+run.Summary.WarningCount > 0
	return run, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}
