package pull

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shibukawa/typescaffold"
)

// PostgreSQLExtractor handles PostgreSQL-specific schema extraction
type PostgreSQLExtractor struct{}

// NewPostgreSQLExtractor creates a new PostgreSQL extractor
func NewPostgreSQLExtractor() *PostgreSQLExtractor {
	return &PostgreSQLExtractor{}
}

// ExtractSchemas extracts every non-system schema that passes the filters
func (e *PostgreSQLExtractor) ExtractSchemas(ctx context.Context, db *sql.DB, config ExtractConfig) ([]typescaffold.DatabaseSchema, error) {
	dbInfo, err := e.DatabaseInfo(ctx, db)
	if err != nil {
		return nil, err
	}

	schemaNames, err := queryStrings(ctx, db, e.BuildSchemasQuery())
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	var schemas []typescaffold.DatabaseSchema

	for _, schemaName := range e.FilterSystemSchemas(schemaNames, config) {
		tables, err := e.ExtractTables(ctx, db, schemaName, config)
		if err != nil {
			return nil, err
		}

		schemas = append(schemas, typescaffold.DatabaseSchema{
			Name:         schemaName,
			Tables:       tables,
			DatabaseInfo: dbInfo,
		})
	}

	return schemas, nil
}

// ExtractTables extracts all ordinary and partitioned tables from a specific schema
func (e *PostgreSQLExtractor) ExtractTables(ctx context.Context, db *sql.DB, schemaName string, config ExtractConfig) ([]*typescaffold.TableInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildTablesQuery(), schemaName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	var tables []*typescaffold.TableInfo

	for rows.Next() {
		var tableName, comment string
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
			Comment: comment,
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

		table.MarkPrimaryKeys()
	}

	return tables, nil
}

// ExtractColumns extracts all columns from a specific table.
// format_type reports the full store type, e.g. "character varying(255)".
func (e *PostgreSQLExtractor) ExtractColumns(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]*typescaffold.ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildColumnsQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var columns []*typescaffold.ColumnInfo

	for rows.Next() {
		var name, storeType, defaultValue, comment string
		var nullable bool

		if err := rows.Scan(&name, &storeType, &nullable, &defaultValue, &comment); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		columns = append(columns, &typescaffold.ColumnInfo{
			Name:         name,
			StoreType:    storeType,
			Nullable:     nullable,
			DefaultValue: e.ParseDefaultValue(defaultValue),
			Comment:      comment,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	return columns, nil
}

// ExtractConstraints extracts all constraints from a specific table
func (e *PostgreSQLExtractor) ExtractConstraints(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]typescaffold.ConstraintInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildConstraintsQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var constraints []typescaffold.ConstraintInfo

	for rows.Next() {
		var name, constraintType, columns, referencedTable, referencedColumns, definition string

		if err := rows.Scan(&name, &constraintType, &columns, &referencedTable, &referencedColumns, &definition); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		constraints = append(constraints, typescaffold.ConstraintInfo{
			Name:              name,
			Type:              e.ParseConstraintType(constraintType),
			Columns:           splitColumnList(columns),
			ReferencedTable:   referencedTable,
			ReferencedColumns: splitColumnList(referencedColumns),
			Definition:        definition,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	return constraints, nil
}

// ExtractIndexes extracts all non-primary indexes from a specific table
func (e *PostgreSQLExtractor) ExtractIndexes(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]typescaffold.IndexInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildIndexesQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var indexes []typescaffold.IndexInfo

	for rows.Next() {
		var name, columns string
		var unique bool

		if err := rows.Scan(&name, &columns, &unique); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		indexes = append(indexes, typescaffold.IndexInfo{
			Name:     name,
			Columns:  splitColumnList(columns),
			IsUnique: unique,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	return indexes, nil
}

// DatabaseInfo extracts database information
func (e *PostgreSQLExtractor) DatabaseInfo(ctx context.Context, db *sql.DB) (typescaffold.DatabaseInfo, error) {
	var version, name, charset string

	if err := db.QueryRowContext(ctx, e.BuildDatabaseInfoQuery()).Scan(&version, &name, &charset); err != nil {
		return typescaffold.DatabaseInfo{}, e.HandleDatabaseError(err)
	}

	return typescaffold.DatabaseInfo{
		Type:    string(typescaffold.DialectPostgres),
		Version: version,
		Name:    name,
		Charset: charset,
	}, nil
}

// Query builders

func (e *PostgreSQLExtractor) BuildSchemasQuery() string {
	return `
		SELECT schema_name
		FROM information_schema.schemata
		ORDER BY schema_name
	`
}

func (e *PostgreSQLExtractor) BuildTablesQuery() string {
	return `
		SELECT
			c.relname,
			COALESCE(obj_description(c.oid, 'pg_class'), '')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		AND c.relkind IN ('r', 'p')
		ORDER BY c.relname
	`
}

func (e *PostgreSQLExtractor) BuildColumnsQuery() string {
	return `
		SELECT
			a.attname,
			format_type(a.atttypid, a.atttypmod),
			NOT a.attnotnull,
			COALESCE(pg_get_expr(d.adbin, d.adrelid), ''),
			COALESCE(col_description(c.oid, a.attnum), '')
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1
		AND c.relname = $2
		AND a.attnum > 0
		AND NOT a.attisdropped
		ORDER BY a.attnum
	`
}

func (e *PostgreSQLExtractor) BuildConstraintsQuery() string {
	return `
		SELECT
			con.conname,
			con.contype::text,
			COALESCE(array_to_string(ARRAY(
				SELECT att.attname
				FROM unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
				JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = k.attnum
				ORDER BY k.ord
			), ','), ''),
			COALESCE(ref.relname, ''),
			COALESCE(array_to_string(ARRAY(
				SELECT att.attname
				FROM unnest(con.confkey) WITH ORDINALITY AS k(attnum, ord)
				JOIN pg_attribute att ON att.attrelid = con.confrelid AND att.attnum = k.attnum
				ORDER BY k.ord
			), ','), ''),
			pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_class ref ON ref.oid = con.confrelid
		WHERE n.nspname = $1
		AND c.relname = $2
		ORDER BY con.conname
	`
}

func (e *PostgreSQLExtractor) BuildIndexesQuery() string {
	return `
		SELECT
			i.relname as index_name,
			string_agg(a.attname, ',' ORDER BY a.attnum) as columns,
			ix.indisunique as is_unique
		FROM pg_class t
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1
		AND t.relname = $2
		AND NOT ix.indisprimary
		GROUP BY i.relname, ix.indisunique
		ORDER BY i.relname
	`
}

func (e *PostgreSQLExtractor) BuildDatabaseInfoQuery() string {
	return `SELECT version(), current_database(), pg_encoding_to_char(encoding) FROM pg_database WHERE datname = current_database()`
}

// ParseConstraintType maps pg_constraint.contype codes and constraint type names
func (e *PostgreSQLExtractor) ParseConstraintType(constraintType string) string {
	switch strings.ToUpper(strings.TrimSpace(constraintType)) {
	case "P", "PRIMARY KEY":
		return typescaffold.ConstraintPrimaryKey
	case "F", "FOREIGN KEY":
		return typescaffold.ConstraintForeignKey
	case "U", "UNIQUE":
		return typescaffold.ConstraintUnique
	case "C", "CHECK":
		return typescaffold.ConstraintCheck
	case "X", "EXCLUDE":
		return "EXCLUDE"
	default:
		return strings.ToUpper(constraintType)
	}
}

// ParseDefaultValue parses PostgreSQL default values
func (e *PostgreSQLExtractor) ParseDefaultValue(defaultValue string) string {
	value := strings.TrimSpace(defaultValue)
	if value == "" {
		return ""
	}

	// Handle nextval() for sequences (including regclass casting)
	if strings.HasPrefix(value, "nextval(") {
		return "AUTO_INCREMENT"
	}

	// Handle string literals with type casting (e.g., 'value'::character varying)
	if literal, _, found := strings.Cut(value, "::"); found {
		literal = strings.TrimSpace(literal)
		if len(literal) >= 2 && strings.HasPrefix(literal, "'") && strings.HasSuffix(literal, "'") {
			return literal[1 : len(literal)-1]
		}
	}

	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		return value[1 : len(value)-1]
	}

	switch strings.ToLower(value) {
	case "true", "false":
		return strings.ToLower(value)
	case "null":
		return ""
	}

	return value
}

// FilterSystemSchemas filters out PostgreSQL system schemas, then applies the schema filters
func (e *PostgreSQLExtractor) FilterSystemSchemas(schemas []string, config ExtractConfig) []string {
	var filtered []string

	for _, schema := range schemas {
		if strings.HasPrefix(schema, "pg_temp_") || strings.HasPrefix(schema, "pg_toast_temp_") {
			continue
		}

		exclude := append(append([]string{}, PostgreSQLSystemSchemas...), config.ExcludeSchemas...)
		if ShouldIncludeSchema(schema, config.IncludeSchemas, exclude) {
			filtered = append(filtered, schema)
		}
	}

	return filtered
}

// HandleDatabaseError handles PostgreSQL-specific database errors
func (e *PostgreSQLExtractor) HandleDatabaseError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "authentication failed"):
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	case strings.Contains(errStr, "database") && strings.Contains(errStr, "does not exist"):
		return fmt.Errorf("%w: %w", ErrSchemaNotFound, err)
	case strings.Contains(errStr, "relation") && strings.Contains(errStr, "does not exist"):
		return fmt.Errorf("%w: %w", ErrTableNotFound, err)
	case strings.Contains(errStr, "permission denied"):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
}

// splitColumnList splits a comma separated column list, dropping empty entries
func splitColumnList(columns string) []string {
	if columns == "" {
		return nil
	}

	parts := strings.Split(columns, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}

	return result
}
