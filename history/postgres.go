package history

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

// PostgreSQLAdapter implements Adapter for PostgreSQL
type PostgreSQLAdapter struct{}

func (a *PostgreSQLAdapter) Connect(connectionString string) (*sql.DB, error) {
	return sql.Open("postgres", connectionString)
}

func (a *PostgreSQLAdapter) GetConnectStringFromURL(url string) string {
	// For Postgres, the URL format should already be compatible
	return url
}

func (a *PostgreSQLAdapter) GetTableList(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema='public' AND table_type='BASE TABLE'
	`)
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (a *PostgreSQLAdapter) SizeQuery() string {
	return "SELECT pg_database_size(current_database())"
}

func (a *PostgreSQLAdapter) Rebind(query string) string {
	return rebindDollar(query)
}

func (a *PostgreSQLAdapter) Schema() []string {
	return schema(columnTypes{id: "UUID", key: "TEXT", text: "TEXT", float: "DOUBLE PRECISION"})
}
