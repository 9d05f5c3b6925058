package pull

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shibukawa/typescaffold"
)

// MySQLExtractor handles MySQL-specific schema extraction
type MySQLExtractor struct{}

// NewMySQLExtractor creates a new MySQL extractor
func NewMySQLExtractor() *MySQLExtractor {
	return &MySQLExtractor{}
}

// ExtractSchemas extracts the connected database as one schema
func (e *MySQLExtractor) ExtractSchemas(ctx context.Context, db *sql.DB, config ExtractConfig) ([]typescaffold.DatabaseSchema, error) {
	dbInfo, err := e.DatabaseInfo(ctx, db)
	if err != nil {
		return nil, err
	}

	// MySQL uses the database name as schema name
	tables, err := e.ExtractTables(ctx, db, dbInfo.Name, config)
	if err != nil {
		return nil, err
	}

	return []typescaffold.DatabaseSchema{{
		Name:         dbInfo.Name,
		Tables:       tables,
		DatabaseInfo: dbInfo,
	}}, nil
}

// ExtractTables extracts all base tables from a specific schema
func (e *MySQLExtractor) ExtractTables(ctx context.Context, db *sql.DB, schemaName string, config ExtractConfig) ([]*typescaffold.TableInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildTablesQuery(), schemaName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	var tables []*typescaffold.TableInfo

	for rows.Next() {
		var tableName string
		var comment sql.NullString

		if err := rows.Scan(&tableName, &comment); err != nil {
			rows.Close()
			return nil, e.HandleDatabaseError(err)
		}

		if !ShouldIncludeTable(tableName, config.IncludeTables, config.ExcludeTables) {
			continue
		}

		tables = append(tables, &typescaffold.TableInfo{
			Name:    tableName,
			Schema:  schemaName,
			Comment: comment.String,
		})
	}

	err = rows.Err()
	rows.Close()

	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	for _, table := range tables {
		if table.Columns, err = e.ExtractColumns(ctx, db, schemaName, table.Name); err != nil {
			return nil, err
		}

		if table.Constraints, err = e.ExtractConstraints(ctx, db, schemaName, table.Name); err != nil {
			return nil, err
		}

		if table.Indexes, err = e.ExtractIndexes(ctx, db, schemaName, table.Name); err != nil {
			return nil, err
		}
	}

	return tables, nil
}

// ExtractColumns extracts all columns from a specific table.
// COLUMN_TYPE keeps lengths and modifiers such as "varchar(255)" or "int unsigned".
func (e *MySQLExtractor) ExtractColumns(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]*typescaffold.ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildColumnsQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var columns []*typescaffold.ColumnInfo

	for rows.Next() {
		var columnName, columnType, isNullable, columnKey string
		var columnDefault, comment sql.NullString

		if err := rows.Scan(&columnName, &columnType, &isNullable, &columnKey, &columnDefault, &comment); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		col := &typescaffold.ColumnInfo{
			Name:         columnName,
			StoreType:    columnType,
			Nullable:     isNullable == "YES",
			IsPrimaryKey: columnKey == "PRI",
			Comment:      comment.String,
		}
		if columnDefault.Valid {
			col.DefaultValue = e.ParseDefaultValue(columnDefault.String)
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	return columns, nil
}

// ExtractConstraints extracts all constraints from a specific table
func (e *MySQLExtractor) ExtractConstraints(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]typescaffold.ConstraintInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildConstraintsQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var names []string
	constraintMap := make(map[string]*typescaffold.ConstraintInfo)

	for rows.Next() {
		var constraintName, constraintType string
		var columnName, referencedTable, referencedColumn sql.NullString

		if err := rows.Scan(&constraintName, &constraintType, &columnName, &referencedTable, &referencedColumn); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		constraint, exists := constraintMap[constraintName]
		if !exists {
			constraint = &typescaffold.ConstraintInfo{
				Name:            constraintName,
				Type:            e.ParseConstraintType(constraintType),
				Columns:         []string{},
				ReferencedTable: referencedTable.String,
			}
			constraintMap[constraintName] = constraint
			names = append(names, constraintName)
		}

		if columnName.Valid {
			constraint.Columns = append(constraint.Columns, columnName.String)
		}

		if referencedColumn.Valid {
			constraint.ReferencedColumns = append(constraint.ReferencedColumns, referencedColumn.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	constraints := make([]typescaffold.ConstraintInfo, 0, len(names))
	for _, name := range names {
		constraints = append(constraints, *constraintMap[name])
	}

	return constraints, nil
}

// ExtractIndexes extracts all secondary indexes from a specific table
func (e *MySQLExtractor) ExtractIndexes(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]typescaffold.IndexInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildIndexesQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var names []string
	indexMap := make(map[string]*typescaffold.IndexInfo)

	for rows.Next() {
		var indexName string
		var columnName sql.NullString
		var nonUnique int

		// Rows arrive ordered by SEQ_IN_INDEX
		if err := rows.Scan(&indexName, &nonUnique, &columnName); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		// Skip primary key index (handled as constraint)
		if indexName == "PRIMARY" {
			continue
		}

		index, exists := indexMap[indexName]
		if !exists {
			index = &typescaffold.IndexInfo{Name: indexName, IsUnique: nonUnique == 0}
			indexMap[indexName] = index
			names = append(names, indexName)
		}

		// Functional key parts have no column
		if columnName.Valid {
			index.Columns = append(index.Columns, columnName.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	indexes := make([]typescaffold.IndexInfo, 0, len(names))
	for _, name := range names {
		indexes = append(indexes, *indexMap[name])
	}

	return indexes, nil
}

// DatabaseInfo extracts database information
func (e *MySQLExtractor) DatabaseInfo(ctx context.Context, db *sql.DB) (typescaffold.DatabaseInfo, error) {
	var version, dbName string

	if err := db.QueryRowContext(ctx, "SELECT VERSION(), DATABASE()").Scan(&version, &dbName); err != nil {
		return typescaffold.DatabaseInfo{}, e.HandleDatabaseError(err)
	}

	var charset string
	if err := db.QueryRowContext(ctx, "SELECT @@character_set_database").Scan(&charset); err != nil {
		// If charset query fails, use default
		charset = "utf8mb4"
	}

	return typescaffold.DatabaseInfo{
		Type:    string(typescaffold.DialectMySQL),
		Version: version,
		Name:    dbName,
		Charset: charset,
	}, nil
}

// Query builders for MySQL

// BuildTablesQuery builds a query to get all base tables in a schema
func (e *MySQLExtractor) BuildTablesQuery() string {
	return `
		SELECT
			TABLE_NAME,
			TABLE_COMMENT
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		  AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`
}

// BuildColumnsQuery builds a query to get all columns in a table
func (e *MySQLExtractor) BuildColumnsQuery() string {
	return `
		SELECT
			COLUMN_NAME,
			COLUMN_TYPE,
			IS_NULLABLE,
			COLUMN_KEY,
			COLUMN_DEFAULT,
			COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		  AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`
}

// BuildConstraintsQuery builds a query to get all constraints in a table
func (e *MySQLExtractor) BuildConstraintsQuery() string {
	return `
		SELECT
			tc.CONSTRAINT_NAME,
			tc.CONSTRAINT_TYPE,
			kcu.COLUMN_NAME,
			kcu.REFERENCED_TABLE_NAME,
			kcu.REFERENCED_COLUMN_NAME
		FROM information_schema.TABLE_CONSTRAINTS tc
		LEFT JOIN information_schema.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			AND tc.TABLE_NAME = kcu.TABLE_NAME
		WHERE tc.TABLE_SCHEMA = ?
		  AND tc.TABLE_NAME = ?
		ORDER BY tc.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`
}

// BuildIndexesQuery builds a query to get all indexes in a table
func (e *MySQLExtractor) BuildIndexesQuery() string {
	return `
		SELECT
			INDEX_NAME,
			NON_UNIQUE,
			COLUMN_NAME
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ?
		  AND TABLE_NAME = ?
		ORDER BY INDEX_NAME, SEQ_IN_INDEX`
}

// Helper methods for MySQL

// ParseDefaultValue parses MySQL default values
func (e *MySQLExtractor) ParseDefaultValue(defaultValue string) string {
	switch strings.ToUpper(defaultValue) {
	case "CURRENT_TIMESTAMP", "NOW()":
		return "CURRENT_TIMESTAMP"
	case "NULL":
		return ""
	default:
		// Remove quotes if present
		if len(defaultValue) >= 2 && strings.HasPrefix(defaultValue, "'") && strings.HasSuffix(defaultValue, "'") {
			return defaultValue[1 : len(defaultValue)-1]
		}

		return defaultValue
	}
}

// ParseConstraintType converts MySQL constraint types to standard types
func (e *MySQLExtractor) ParseConstraintType(constraintType string) string {
	switch strings.ToUpper(strings.TrimSpace(constraintType)) {
	case "PRIMARY KEY":
		return typescaffold.ConstraintPrimaryKey
	case "FOREIGN KEY":
		return typescaffold.ConstraintForeignKey
	case "UNIQUE":
		return typescaffold.ConstraintUnique
	case "CHECK":
		return typescaffold.ConstraintCheck
	default:
		return strings.ToUpper(constraintType)
	}
}

// HandleDatabaseError converts MySQL-specific errors to standard errors
func (e *MySQLExtractor) HandleDatabaseError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "connection"):
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	case strings.Contains(errStr, "doesn't exist"):
		return fmt.Errorf("%w: %w", ErrSchemaNotFound, err)
	case strings.Contains(errStr, "Access denied"):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
}
