package pull

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shibukawa/typescaffold"
)

// Extractor reads table, column, constraint and index metadata from a live database.
// Column store types are reported exactly as the database spells them.
type Extractor interface {
	ExtractSchemas(ctx context.Context, db *sql.DB, config ExtractConfig) ([]typescaffold.DatabaseSchema, error)
	DatabaseInfo(ctx context.Context, db *sql.DB) (typescaffold.DatabaseInfo, error)
}

// ExtractConfig contains configuration for schema extraction
type ExtractConfig struct {
	IncludeSchemas []string // Schema filter (PostgreSQL)
	ExcludeSchemas []string // Schema exclusion (PostgreSQL)
	IncludeTables  []string // Wildcard patterns
	ExcludeTables  []string // Wildcard patterns
}

// NewExtractor creates a new extractor for the specified dialect
func NewExtractor(dialect typescaffold.Dialect) (Extractor, error) {
	if dialect == "" {
		return nil, ErrEmptyDatabaseType
	}

	switch dialect {
	case typescaffold.DialectPostgres:
		return NewPostgreSQLExtractor(), nil
	case typescaffold.DialectMySQL:
		return NewMySQLExtractor(), nil
	case typescaffold.DialectSQLite:
		return NewSQLiteExtractor(), nil
	case typescaffold.DialectSQLServer:
		return NewSQLServerExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, dialect)
	}
}

// ValidateExtractConfig validates the extraction configuration
func ValidateExtractConfig(config ExtractConfig) error {
	for _, includeSchema := range config.IncludeSchemas {
		for _, excludeSchema := range config.ExcludeSchemas {
			if includeSchema == excludeSchema {
				return fmt.Errorf("%w: %s", ErrConflictingSchemaFilters, includeSchema)
			}
		}
	}

	for _, includeTable := range config.IncludeTables {
		for _, excludeTable := range config.ExcludeTables {
			if includeTable == excludeTable {
				return fmt.Errorf("%w: %s", ErrConflictingTableFilters, includeTable)
			}
		}
	}

	return nil
}

// ShouldIncludeSchema determines if a schema should be included based on filters
func ShouldIncludeSchema(schemaName string, includeSchemas, excludeSchemas []string) bool {
	for _, excludeSchema := range excludeSchemas {
		if schemaName == excludeSchema {
			return false
		}
	}

	if len(includeSchemas) == 0 {
		return true
	}

	for _, includeSchema := range includeSchemas {
		if schemaName == includeSchema {
			return true
		}
	}

	return false
}

// ShouldIncludeTable determines if a table should be included based on wildcard filters
func ShouldIncludeTable(tableName string, includeTables, excludeTables []string) bool {
	return typescaffold.TablePatterns{Include: includeTables, Exclude: excludeTables}.Includes(tableName)
}

// filterTableNames drops the tables excluded by config
func filterTableNames(tables []string, config ExtractConfig) []string {
	var filtered []string

	for _, table := range tables {
		if ShouldIncludeTable(table, config.IncludeTables, config.ExcludeTables) {
			filtered = append(filtered, table)
		}
	}

	return filtered
}

// queryStrings runs a query returning one string column
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}

		values = append(values, value)
	}

	return values, rows.Err()
}

// PostgreSQLSystemSchemas are never extracted
var PostgreSQLSystemSchemas = []string{"information_schema", "pg_catalog", "pg_toast"}
