package pull

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/typescaffold"
)

// SQLServerSystemSchemas are never extracted
var SQLServerSystemSchemas = []string{"sys", "INFORMATION_SCHEMA", "guest"}

// SQLServerExtractor handles SQL Server-specific schema extraction
type SQLServerExtractor struct{}

// NewSQLServerExtractor creates a new SQL Server extractor
func NewSQLServerExtractor() *SQLServerExtractor {
	return &SQLServerExtractor{}
}

// ExtractSchemas extracts every user schema owning at least one table
func (e *SQLServerExtractor) ExtractSchemas(ctx context.Context, db *sql.DB, config ExtractConfig) ([]typescaffold.DatabaseSchema, error) {
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

// ExtractTables extracts all user tables from a specific schema
func (e *SQLServerExtractor) ExtractTables(ctx context.Context, db *sql.DB, schemaName string, config ExtractConfig) ([]*typescaffold.TableInfo, error) {
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
// sys.columns stores facets separately; FormatStoreType puts them back into the store type.
func (e *SQLServerExtractor) ExtractColumns(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]*typescaffold.ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildColumnsQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var columns []*typescaffold.ColumnInfo

	for rows.Next() {
		var name, typeName, defaultValue, comment string
		var maxLength, precision, scale int
		var nullable bool

		if err := rows.Scan(&name, &typeName, &maxLength, &precision, &scale, &nullable, &defaultValue, &comment); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		storeType := e.FormatStoreType(typeName, maxLength, precision, scale)

		columns = append(columns, &typescaffold.ColumnInfo{
			Name:         name,
			StoreType:    storeType,
			Nullable:     nullable,
			DefaultValue: e.ParseDefaultValue(defaultValue),
			Comment:      comment,
			IsRowVersion: typescaffold.IsRowVersionStoreType(typescaffold.DialectSQLServer, storeType),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, e.HandleDatabaseError(err)
	}

	return columns, nil
}

// ExtractConstraints extracts primary key, unique, foreign key and check constraints
func (e *SQLServerExtractor) ExtractConstraints(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]typescaffold.ConstraintInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildConstraintsQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var names []string
	constraintMap := make(map[string]*typescaffold.ConstraintInfo)

	for rows.Next() {
		var constraintName, constraintType, definition string
		var columnName, referencedTable, referencedColumn sql.NullString
		var ordinal int

		if err := rows.Scan(&constraintName, &constraintType, &columnName, &referencedTable, &referencedColumn, &definition, &ordinal); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		constraint, exists := constraintMap[constraintName]
		if !exists {
			constraint = &typescaffold.ConstraintInfo{
				Name:            constraintName,
				Type:            e.ParseConstraintType(constraintType),
				Columns:         []string{},
				ReferencedTable: referencedTable.String,
				Definition:      definition,
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

// ExtractIndexes extracts all indexes that do not back a primary key
func (e *SQLServerExtractor) ExtractIndexes(ctx context.Context, db *sql.DB, schemaName, tableName string) ([]typescaffold.IndexInfo, error) {
	rows, err := db.QueryContext(ctx, e.BuildIndexesQuery(), schemaName, tableName)
	if err != nil {
		return nil, e.HandleDatabaseError(err)
	}
	defer rows.Close()

	var names []string
	indexMap := make(map[string]*typescaffold.IndexInfo)

	for rows.Next() {
		var indexName, columnName string
		var isUnique bool

		if err := rows.Scan(&indexName, &isUnique, &columnName); err != nil {
			return nil, e.HandleDatabaseError(err)
		}

		index, exists := indexMap[indexName]
		if !exists {
			index = &typescaffold.IndexInfo{Name: indexName, IsUnique: isUnique}
			indexMap[indexName] = index
			names = append(names, indexName)
		}

		index.Columns = append(index.Columns, columnName)
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

// DatabaseInfo extracts database information. Charset carries the database collation.
func (e *SQLServerExtractor) DatabaseInfo(ctx context.Context, db *sql.DB) (typescaffold.DatabaseInfo, error) {
	var version, dbName, collation string

	if err := db.QueryRowContext(ctx, e.BuildDatabaseInfoQuery()).Scan(&version, &dbName, &collation); err != nil {
		return typescaffold.DatabaseInfo{}, e.HandleDatabaseError(err)
	}

	return typescaffold.DatabaseInfo{
		Type:    string(typescaffold.DialectSQLServer),
		Version: version,
		Name:    dbName,
		Charset: collation,
	}, nil
}

// Query builders for SQL Server

// BuildSchemasQuery builds a query to get the schemas owning user tables
func (e *SQLServerExtractor) BuildSchemasQuery() string {
	return `
		SELECT s.name
		FROM sys.schemas s
		WHERE EXISTS (
			SELECT 1 FROM sys.tables t
			WHERE t.schema_id = s.schema_id AND t.is_ms_shipped = 0
		)
		ORDER BY s.name`
}

// BuildTablesQuery builds a query to get all user tables in a schema
func (e *SQLServerExtractor) BuildTablesQuery() string {
	return `
		SELECT
			t.name,
			CAST(ISNULL(ep.value, '') AS nvarchar(max))
		FROM sys.tables t
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		LEFT JOIN sys.extended_properties ep
			ON ep.class = 1 AND ep.major_id = t.object_id AND ep.minor_id = 0 AND ep.name = 'MS_Description'
		WHERE s.name = @p1
		  AND t.is_ms_shipped = 0
		ORDER BY t.name`
}

// BuildColumnsQuery builds a query to get all columns in a table.
// Alias types resolve to their system type; CLR types keep their own name.
func (e *SQLServerExtractor) BuildColumnsQuery() string {
	return `
		SELECT
			c.name,
			CASE WHEN ty.is_user_defined = 1 AND ty.is_assembly_type = 0
				THEN TYPE_NAME(c.system_type_id) ELSE ty.name END,
			c.max_length,
			c.precision,
			c.scale,
			c.is_nullable,
			ISNULL(OBJECT_DEFINITION(c.default_object_id), ''),
			CAST(ISNULL(ep.value, '') AS nvarchar(max))
		FROM sys.columns c
		JOIN sys.tables t ON t.object_id = c.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.types ty ON ty.user_type_id = c.user_type_id
		LEFT JOIN sys.extended_properties ep
			ON ep.class = 1 AND ep.major_id = c.object_id AND ep.minor_id = c.column_id AND ep.name = 'MS_Description'
		WHERE s.name = @p1
		  AND t.name = @p2
		ORDER BY c.column_id`
}

// BuildConstraintsQuery builds a query to get all constraints in a table
func (e *SQLServerExtractor) BuildConstraintsQuery() string {
	return `
		SELECT k.name, k.type, COL_NAME(ic.object_id, ic.column_id), NULL, NULL, '', ic.key_ordinal
		FROM sys.key_constraints k
		JOIN sys.tables t ON t.object_id = k.parent_object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.index_columns ic ON ic.object_id = k.parent_object_id AND ic.index_id = k.unique_index_id
		WHERE s.name = @p1 AND t.name = @p2
		UNION ALL
		SELECT fk.name, fk.type, COL_NAME(fkc.parent_object_id, fkc.parent_column_id),
			OBJECT_NAME(fkc.referenced_object_id), COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id), '', fkc.constraint_column_id
		FROM sys.foreign_keys fk
		JOIN sys.tables t ON t.object_id = fk.parent_object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
		WHERE s.name = @p1 AND t.name = @p2
		UNION ALL
		SELECT cc.name, cc.type, COL_NAME(cc.parent_object_id, NULLIF(cc.parent_column_id, 0)), NULL, NULL, cc.definition, 0
		FROM sys.check_constraints cc
		JOIN sys.tables t ON t.object_id = cc.parent_object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE s.name = @p1 AND t.name = @p2
		ORDER BY 1, 7`
}

// BuildIndexesQuery builds a query to get all non primary key indexes in a table
func (e *SQLServerExtractor) BuildIndexesQuery() string {
	return `
		SELECT i.name, i.is_unique, COL_NAME(ic.object_id, ic.column_id)
		FROM sys.indexes i
		JOIN sys.tables t ON t.object_id = i.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		WHERE s.name = @p1
		  AND t.name = @p2
		  AND i.is_primary_key = 0
		  AND i.is_hypothetical = 0
		  AND ic.is_included_column = 0
		ORDER BY i.name, ic.key_ordinal`
}

// BuildDatabaseInfoQuery builds a query to get version, name and collation
func (e *SQLServerExtractor) BuildDatabaseInfoQuery() string {
	return `SELECT CAST(SERVERPROPERTY('ProductVersion') AS nvarchar(128)), DB_NAME(), CAST(DATABASEPROPERTYEX(DB_NAME(), 'Collation') AS nvarchar(128))`
}

// Helper methods for SQL Server

// FormatStoreType rebuilds the declared store type from sys.columns facets.
// max_length is in bytes and is -1 for (max).
func (e *SQLServerExtractor) FormatStoreType(typeName string, maxLength, precision, scale int) string {
	switch typeName {
	case "nvarchar", "nchar":
		if maxLength == -1 {
			return typeName + "(max)"
		}

		return typeName + "(" + strconv.Itoa(maxLength/2) + ")"
	case "varchar", "char", "varbinary", "binary":
		if maxLength == -1 {
			return typeName + "(max)"
		}

		return typeName + "(" + strconv.Itoa(maxLength) + ")"
	case "decimal", "numeric":
		return fmt.Sprintf("%s(%d,%d)", typeName, precision, scale)
	case "datetime2", "datetimeoffset", "time":
		if scale == 7 {
			return typeName
		}

		return typeName + "(" + strconv.Itoa(scale) + ")"
	case "float":
		if precision == 53 {
			return typeName
		}

		return typeName + "(" + strconv.Itoa(precision) + ")"
	default:
		return typeName
	}
}

// ParseConstraintType converts sys.objects type codes to standard types
func (e *SQLServerExtractor) ParseConstraintType(constraintType string) string {
	switch strings.ToUpper(strings.TrimSpace(constraintType)) {
	case "PK", typescaffold.ConstraintPrimaryKey:
		return typescaffold.ConstraintPrimaryKey
	case "F", typescaffold.ConstraintForeignKey:
		return typescaffold.ConstraintForeignKey
	case "UQ", typescaffold.ConstraintUnique:
		return typescaffold.ConstraintUnique
	case "C", typescaffold.ConstraintCheck:
		return typescaffold.ConstraintCheck
	default:
		return "UNKNOWN"
	}
}

// ParseDefaultValue strips the parentheses SQL Server wraps around default definitions
func (e *SQLServerExtractor) ParseDefaultValue(defaultValue string) string {
	value := strings.TrimSpace(defaultValue)

	for wrappedInParens(value) {
		value = strings.TrimSpace(value[1 : len(value)-1])
	}

	switch {
	case strings.EqualFold(value, "NULL"):
		return ""
	case strings.EqualFold(value, "getdate()"), strings.EqualFold(value, "sysdatetime()"):
		return "CURRENT_TIMESTAMP"
	case len(value) >= 3 && strings.HasPrefix(value, "N'") && strings.HasSuffix(value, "'"):
		return value[2 : len(value)-1]
	case len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'"):
		return value[1 : len(value)-1]
	default:
		return value
	}
}

// wrappedInParens reports whether the parenthesis opening value closes at its
// last byte, so "((0))" is wrapped but "(1)+(2)" is not. Quoted text is skipped.
func wrappedInParens(value string) bool {
	if len(value) < 2 || value[0] != '(' || value[len(value)-1] != ')' {
		return false
	}

	depth := 0
	quoted := false

	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case c == '\'':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i == len(value)-1
			}
		}
	}

	return false
}

// FilterSystemSchemas removes system schemas and applies the schema filters
func (e *SQLServerExtractor) FilterSystemSchemas(schemas []string, config ExtractConfig) []string {
	var filtered []string

	for _, schema := range schemas {
		if e.isSystemSchema(schema) {
			continue
		}

		if ShouldIncludeSchema(schema, config.IncludeSchemas, config.ExcludeSchemas) {
			filtered = append(filtered, schema)
		}
	}

	return filtered
}

func (e *SQLServerExtractor) isSystemSchema(schema string) bool {
	if strings.HasPrefix(schema, "db_") {
		return true
	}

	for _, system := range SQLServerSystemSchemas {
		if strings.EqualFold(schema, system) {
			return true
		}
	}

	return false
}

// HandleDatabaseError converts SQL Server-specific errors to standard errors
func (e *SQLServerExtractor) HandleDatabaseError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "Login failed"), strings.Contains(errStr, "permission was denied"):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case strings.Contains(errStr, "Cannot open database"):
		return fmt.Errorf("%w: %w", ErrSchemaNotFound, err)
	case strings.Contains(errStr, "Invalid object name"):
		return fmt.Errorf("%w: %w", ErrTableNotFound, err)
	case strings.Contains(errStr, "connection"):
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	default:
		return fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
}
