package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLAdapter implements Adapter for MySQL
type MySQLAdapter struct{}

func (a *MySQLAdapter) Connect(connectionString string) (*sql.DB, error) {
	return sql.Open("mysql", mysqlDSN(connectionString))
}

// mysqlDSN wraps a bare host:port in tcp() as the driver expects.
func mysqlDSN(connectionString string) string {
	if strings.Contains(connectionString, "tcp(") || !strings.Contains(connectionString, "@") {
		return connectionString
	}
	userPass, hostDBPart, _ := strings.Cut(connectionString, "@")

	// Split hostDBPart by first slash to separate host:port from dbname
	hostPort, dbname, ok := strings.Cut(hostDBPart, "/")
	if !ok {
		return connectionString
	}
	return fmt.Sprintf("%s@tcp(%s)/%s", userPass, hostPort, dbname)
}

func (a *MySQLAdapter) GetConnectStringFromURL(url string) string {
	// For MySQL, remove mysql:// prefix if present
	return strings.TrimPrefix(url, "mysql://")
}

func (a *MySQLAdapter) GetTableList(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (a *MySQLAdapter) SizeQuery() string {
	return "SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = DATABASE()"
}

func (a *MySQLAdapter) Rebind(query string) string {
	return query
}

func (a *MySQLAdapter) Schema() []string {
	return schema(columnTypes{id: "CHAR(36)", key: "VARCHAR(255)", text: "TEXT", float: "DOUBLE"})
}
