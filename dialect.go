package typescaffold

import (
	"fmt"
	"strings"
)

// Dialect represents supported database dialects
// This type is shared across all packages
type Dialect string

const (
	DialectPostgres  Dialect = "postgres"
	DialectMySQL     Dialect = "mysql"
	DialectSQLite    Dialect = "sqlite"
	DialectSQLServer Dialect = "sqlserver"
)

// ParseDialect normalizes driver names and URL schemes into a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "sqlserver", "mssql":
		return DialectSQLServer, nil
	case "":
		return "", ErrDialectMustBeSpecified
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, name)
	}
}

func (d Dialect) String() string {
	return string(d)
}
