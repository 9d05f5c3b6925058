package pull

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/shibukawa/typescaffold"
)

// SQLiteExtractor handles SQLite-specific schema extraction
type SQLiteExtractor struct{}

// NewSQLiteExtractor creates a new SQLite extractor
func NewSQLiteExtractor() *SQLiteExtractor {
	return &SQLiteExtractor{}
}

// ExtractSchemas extracts the main database as a single "global" schema
func (e *SQLiteExtractor) ExtractSchemas(ctx context.Context, db *sql.DB, config ExtractConfig) ([]typescaffold.DatabaseSchema, error) {
	dbInfo, err := e.DatabaseInfo(ctx, db)
	if err != nil {
		return nil, err
	}

	tables, err := e.ExtractTables(ctx, db, config)
	if err != nil {
		return nil, err
	}

	return []typescaffold.DatabaseSchema{{
		Name:         "global",
		Tables:       tables,
		DatabaseInfo: dbInfo,
	}}, nil
}

// ExtractTables extracts all user tables that pass the table filters
func (e *SQLiteExtractor) ExtractTables(ctx context.Context, db *sql.DB, config ExtractConfig) ([]*typescaffold.TableInfo, error) {
	names, err := queryStrings(ctx, db, `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	var tables []*typescaffold.TableInfo

	for _, tableName := range filterTableNames(names, config) {
		table := &typescaffold.TableInfo{Name: tableName}

		table.Columns, err = e.ExtractColumns(ctx, db, tableName)
		if err != nil {
			return nil, err
		}

		table.Constraints, err = e.ExtractConstraints(ctx, db, tableName)
		if err != nil {
			return nil, err
		}

		table.Indexes, err = e.ExtractIndexes(ctx, db, tableName)
		if err != nil {
			return nil, err
		}

		tables = append(tables, table)
	}

	return tables, nil
}

type sqlitePragmaColumn struct {
	column *typescaffold.ColumnInfo
	pk     int
}

func (e *SQLiteExtractor) tableInfo(ctx context.Context, db *sql.DB, tableName string) ([]sqlitePragmaColumn, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLiteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	var columns []sqlitePragmaColumn

	for rows.Next() {
		var cid int
		var name, storeType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &storeType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResultScanFailed, err)
		}

		column := &typescaffold.ColumnInfo{
			Name:         name,
			StoreType:    storeType,
			Nullable:     notNull == 0 && pk == 0,
			IsPrimaryKey: pk > 0,
		}

		if defaultValue.Valid {
			column.DefaultValue = defaultValue.String
		}

		columns = append(columns, sqlitePragmaColumn{column: column, pk: pk})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	return columns, nil
}

// ExtractColumns extracts the columns of a table in declaration order.
// The declared type is reported verbatim and may be empty.
func (e *SQLiteExtractor) ExtractColumns(ctx context.Context, db *sql.DB, tableName string) ([]*typescaffold.ColumnInfo, error) {
	info, err := e.tableInfo(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	columns := make([]*typescaffold.ColumnInfo, 0, len(info))
	for _, c := range info {
		columns = append(columns, c.column)
	}

	return columns, nil
}

// ExtractConstraints extracts the primary key and foreign keys of a table
func (e *SQLiteExtractor) ExtractConstraints(ctx context.Context, db *sql.DB, tableName string) ([]typescaffold.ConstraintInfo, error) {
	info, err := e.tableInfo(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	var constraints []typescaffold.ConstraintInfo

	// pk holds the 1-based position within a composite key
	var pkColumns []sqlitePragmaColumn
	for _, c := range info {
		if c.pk > 0 {
			pkColumns = append(pkColumns, c)
		}
	}

	if len(pkColumns) > 0 {
		sort.Slice(pkColumns, func(i, j int) bool { return pkColumns[i].pk < pkColumns[j].pk })

		pk := typescaffold.ConstraintInfo{
			Name: fmt.Sprintf("%s_pkey", tableName),
			Type: typescaffold.ConstraintPrimaryKey,
		}
		for _, c := range pkColumns {
			pk.Columns = append(pk.Columns, c.column.Name)
		}

		constraints = append(constraints, pk)
	}

	foreignKeys, err := e.extractForeignKeys(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	return append(constraints, foreignKeys...), nil
}

func (e *SQLiteExtractor) extractForeignKeys(ctx context.Context, db *sql.DB, tableName string) ([]typescaffold.ConstraintInfo, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteSQLiteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	var ids []int
	byID := make(map[int]*typescaffold.ConstraintInfo)

	for rows.Next() {
		var id, seq int
		var refTable, from string
		var to sql.NullString
		var onUpdate, onDelete, match string

		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResultScanFailed, err)
		}

		fk, ok := byID[id]
		if !ok {
			fk = &typescaffold.ConstraintInfo{
				Name:            fmt.Sprintf("%s_fk_%d", tableName, id),
				Type:            typescaffold.ConstraintForeignKey,
				ReferencedTable: refTable,
			}
			byID[id] = fk
			ids = append(ids, id)
		}

		fk.Columns = append(fk.Columns, from)
		if to.Valid {
			fk.ReferencedColumns = append(fk.ReferencedColumns, to.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	sort.Ints(ids)

	constraints := make([]typescaffold.ConstraintInfo, 0, len(ids))
	for _, id := range ids {
		constraints = append(constraints, *byID[id])
	}

	return constraints, nil
}

// ExtractIndexes extracts explicit indexes and unique constraints of a table.
// The implicit primary key index is skipped.
func (e *SQLiteExtractor) ExtractIndexes(ctx context.Context, db *sql.DB, tableName string) ([]typescaffold.IndexInfo, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteSQLiteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	var indexes []typescaffold.IndexInfo

	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %w", ErrResultScanFailed, err)
		}

		if origin == "pk" {
			continue
		}

		indexes = append(indexes, typescaffold.IndexInfo{Name: name, IsUnique: unique == 1})
	}

	err = rows.Err()
	rows.Close()

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	for i := range indexes {
		indexes[i].Columns, err = e.indexColumns(ctx, db, indexes[i].Name)
		if err != nil {
			return nil, err
		}
	}

	return indexes, nil
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, db *sql.DB, indexName string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteSQLiteIdentifier(indexName)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	var columns []string

	for rows.Next() {
		var seqno, cid int
		var name sql.NullString

		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResultScanFailed, err)
		}

		// Expression columns have no name
		if name.Valid {
			columns = append(columns, name.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	return columns, nil
}

// DatabaseInfo extracts database information
func (e *SQLiteExtractor) DatabaseInfo(ctx context.Context, db *sql.DB) (typescaffold.DatabaseInfo, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return typescaffold.DatabaseInfo{}, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	return typescaffold.DatabaseInfo{
		Type:    string(typescaffold.DialectSQLite),
		Version: version,
		Name:    "main",
	}, nil
}

func quoteSQLiteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
