package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedDriver is returned by GetAdapter for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported history driver")

// Adapter defines the interface for database-specific operations
type Adapter interface {
	Connect(connectionString string) (*sql.DB, error)
	GetConnectStringFromURL(url string) string
	GetTableList(ctx context.Context, db *sql.DB) ([]string, error)
	// SizeQuery returns a query yielding the database size in bytes.
	SizeQuery() string
	// Rebind rewrites the ? placeholders of query for the driver.
	Rebind(query string) string
	// Schema returns the statements that create the history tables.
	Schema() []string
}

// GetAdapter returns the appropriate adapter for the given driver
func GetAdapter(driver string) (Adapter, error) {
	switch driver {
	case "mysql":
		return &MySQLAdapter{}, nil
	case "postgres":
		return &PostgreSQLAdapter{}, nil
	case "sqlite":
		return &SQLiteAdapter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// Drivers lists the driver names GetAdapter accepts.
func Drivers() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

// columnTypes fills the driver specific column types of the history schema.
type columnTypes struct {
	id, key, text, float string
}

func schema(t columnTypes) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id %s PRIMARY KEY,
    created_unix_ms BIGINT NOT NULL,
    mode %s NOT NULL,
    baseline_engine %s NOT NULL,
    baseline_database %s NOT NULL,
    target_engine %s NOT NULL,
    target_database %s NOT NULL,
    total_tables INTEGER NOT NULL,
    total_metrics INTEGER NOT NULL,
    critical_count INTEGER NOT NULL,
    warning_count INTEGER NOT NULL
)`, runsTable, t.id, t.key, t.key, t.key, t.key, t.key),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    run_id %s NOT NULL,
    seq INTEGER NOT NULL,
    table_id %s NOT NULL,
    row_key %s NOT NULL,
    metric %s NOT NULL,
    baseline_value %s NOT NULL,
    target_value %s NOT NULL,
    absolute_change %s,
    percent_change %s,
    status %s NOT NULL,
    PRIMARY KEY (run_id, seq)
)`, outcomesTable, t.id, t.key, t.key, t.key, t.text, t.text, t.float, t.float, t.key),
	}
}

// scanNames reads a single string column from every row.
func scanNames(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// rebindDollar numbers ? placeholders as $1, $2 and so on.
func rebindDollar(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
