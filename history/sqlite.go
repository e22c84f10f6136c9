package history

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteAdapter implements Adapter for SQLite
type SQLiteAdapter struct{}

func (a *SQLiteAdapter) Connect(connectionString string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return nil, err
	}
	// an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)
	return db, nil
}

func (a *SQLiteAdapter) GetConnectStringFromURL(url string) string {
	// For SQLite, remove sqlite:// prefix if present
	return strings.TrimPrefix(url, "sqlite://")
}

func (a *SQLiteAdapter) GetTableList(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (a *SQLiteAdapter) SizeQuery() string {
	return "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
}

func (a *SQLiteAdapter) Rebind(query string) string {
	return query
}

func (a *SQLiteAdapter) Schema() []string {
	return schema(columnTypes{id: "TEXT", key: "TEXT", text: "TEXT", float: "REAL"})
}
