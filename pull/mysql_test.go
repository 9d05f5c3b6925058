package pull

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/typescaffold"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db, mock
}

func TestMySQLQueries(t *testing.T) {
	extractor := NewMySQLExtractor()

	t.Run("BuildTablesQuery", func(t *testing.T) {
		query := extractor.BuildTablesQuery()
		assert.Contains(t, query, "information_schema.TABLES")
		assert.Contains(t, query, "TABLE_SCHEMA = ?")
		assert.Contains(t, query, "TABLE_TYPE = 'BASE TABLE'")
	})

	t.Run("BuildColumnsQuery", func(t *testing.T) {
		query := extractor.BuildColumnsQuery()
		assert.Contains(t, query, "information_schema.COLUMNS")
		assert.Contains(t, query, "COLUMN_TYPE")
		assert.Contains(t, query, "TABLE_NAME = ?")
		assert.Contains(t, query, "ORDINAL_POSITION")
	})

	t.Run("BuildConstraintsQuery", func(t *testing.T) {
		query := extractor.BuildConstraintsQuery()
		assert.Contains(t, query, "information_schema.TABLE_CONSTRAINTS")
		assert.Contains(t, query, "information_schema.KEY_COLUMN_USAGE")
		assert.Contains(t, query, "TABLE_NAME = ?")
	})

	t.Run("BuildIndexesQuery", func(t *testing.T) {
		query := extractor.BuildIndexesQuery()
		assert.Contains(t, query, "information_schema.STATISTICS")
		assert.Contains(t, query, "SEQ_IN_INDEX")
	})
}

func TestMySQLConstraintParsing(t *testing.T) {
	extractor := NewMySQLExtractor()
	testConstraintParsing(t, extractor, "CUSTOM")
}

func TestMySQLDefaultValues(t *testing.T) {
	extractor := NewMySQLExtractor()

	testCases := []struct {
		input    string
		expected string
	}{
		{"CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
		{"NOW()", "CURRENT_TIMESTAMP"},
		{"NULL", ""},
		{"'default_value'", "default_value"},
		{"42", "42"},
		{"'quoted string'", "quoted string"},
	}

	for _, tc := range testCases {
		result := extractor.ParseDefaultValue(tc.input)
		assert.Equal(t, tc.expected, result, "Failed for input: %s", tc.input)
	}
}

func TestMySQLErrorHandling(t *testing.T) {
	extractor := NewMySQLExtractor()

	testCases := []struct {
		name     string
		message  string
		sentinel error
	}{
		{"Connection", "connection refused", ErrConnectionFailed},
		{"Query", "syntax error", ErrQueryExecutionFailed},
		{"SchemaNotFound", "database doesn't exist", ErrSchemaNotFound},
		{"Permission", "Access denied for user", ErrPermissionDenied},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := extractor.HandleDatabaseError(errors.New(tc.message))
			assert.True(t, errors.Is(err, tc.sentinel), "got %v", err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}

	assert.NoError(t, extractor.HandleDatabaseError(nil))
}

func TestMySQLExtractColumns(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewMySQLExtractor()

	mock.ExpectQuery(extractor.BuildColumnsQuery()).
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "COLUMN_DEFAULT", "COLUMN_COMMENT"}).
			AddRow("id", "int unsigned", "NO", "PRI", nil, "").
			AddRow("code", "varchar(32)", "NO", "UNI", nil, "order code").
			AddRow("status", "enum('new','paid')", "NO", "", "'new'", "").
			AddRow("created_at", "timestamp", "YES", "", "CURRENT_TIMESTAMP", ""))

	columns, err := extractor.ExtractColumns(context.Background(), db, "shop", "orders")
	assert.NoError(t, err)
	assert.Equal(t, []*typescaffold.ColumnInfo{
		{Name: "id", StoreType: "int unsigned", IsPrimaryKey: true},
		{Name: "code", StoreType: "varchar(32)", Comment: "order code"},
		{Name: "status", StoreType: "enum('new','paid')", DefaultValue: "new"},
		{Name: "created_at", StoreType: "timestamp", Nullable: true, DefaultValue: "CURRENT_TIMESTAMP"},
	}, columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLExtractConstraints(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewMySQLExtractor()

	mock.ExpectQuery(extractor.BuildConstraintsQuery()).
		WithArgs("shop", "order_items").
		WillReturnRows(sqlmock.NewRows([]string{"CONSTRAINT_NAME", "CONSTRAINT_TYPE", "COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME"}).
			AddRow("PRIMARY", "PRIMARY KEY", "order_id", nil, nil).
			AddRow("PRIMARY", "PRIMARY KEY", "line_no", nil, nil).
			AddRow("fk_order", "FOREIGN KEY", "order_id", "orders", "id").
			AddRow("qty_positive", "CHECK", nil, nil, nil))

	constraints, err := extractor.ExtractConstraints(context.Background(), db, "shop", "order_items")
	assert.NoError(t, err)
	assert.Equal(t, []typescaffold.ConstraintInfo{
		{Name: "PRIMARY", Type: typescaffold.ConstraintPrimaryKey, Columns: []string{"order_id", "line_no"}},
		{Name: "fk_order", Type: typescaffold.ConstraintForeignKey, Columns: []string{"order_id"}, ReferencedTable: "orders", ReferencedColumns: []string{"id"}},
		{Name: "qty_positive", Type: typescaffold.ConstraintCheck, Columns: []string{}},
	}, constraints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLExtractIndexes(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewMySQLExtractor()

	mock.ExpectQuery(extractor.BuildIndexesQuery()).
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "NON_UNIQUE", "COLUMN_NAME"}).
			AddRow("PRIMARY", 0, "id").
			AddRow("idx_customer_date", 1, "customer_id").
			AddRow("idx_customer_date", 1, "created_at").
			AddRow("uq_code", 0, "code"))

	indexes, err := extractor.ExtractIndexes(context.Background(), db, "shop", "orders")
	assert.NoError(t, err)
	assert.Equal(t, []typescaffold.IndexInfo{
		{Name: "idx_customer_date", Columns: []string{"customer_id", "created_at"}},
		{Name: "uq_code", Columns: []string{"code"}, IsUnique: true},
	}, indexes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLExtractSchemas(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewMySQLExtractor()

	mock.ExpectQuery("SELECT VERSION(), DATABASE()").
		WillReturnRows(sqlmock.NewRows([]string{"version", "database"}).AddRow("8.0.36", "shop"))
	mock.ExpectQuery("SELECT @@character_set_database").
		WillReturnError(errors.New("not allowed"))
	mock.ExpectQuery(extractor.BuildTablesQuery()).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "TABLE_COMMENT"}).
			AddRow("migrations", "").
			AddRow("users", "accounts"))
	mock.ExpectQuery(extractor.BuildColumnsQuery()).
		WithArgs("shop", "users").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "COLUMN_DEFAULT", "COLUMN_COMMENT"}).
			AddRow("id", "bigint", "NO", "PRI", nil, ""))
	mock.ExpectQuery(extractor.BuildConstraintsQuery()).
		WithArgs("shop", "users").
		WillReturnRows(sqlmock.NewRows([]string{"CONSTRAINT_NAME", "CONSTRAINT_TYPE", "COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME"}))
	mock.ExpectQuery(extractor.BuildIndexesQuery()).
		WithArgs("shop", "users").
		WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "NON_UNIQUE", "COLUMN_NAME"}))

	schemas, err := extractor.ExtractSchemas(context.Background(), db, ExtractConfig{ExcludeTables: []string{"migrations"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(schemas))
	assert.Equal(t, "shop", schemas[0].Name)
	assert.Equal(t, typescaffold.DatabaseInfo{Type: "mysql", Version: "8.0.36", Name: "shop", Charset: "utf8mb4"}, schemas[0].DatabaseInfo)
	assert.Equal(t, 1, len(schemas[0].Tables))
	assert.Equal(t, "users", schemas[0].Tables[0].Name)
	assert.Equal(t, "accounts", schemas[0].Tables[0].Comment)
	assert.Equal(t, "bigint", schemas[0].Tables[0].Columns[0].StoreType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLQueryFailure(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewMySQLExtractor()

	mock.ExpectQuery(extractor.BuildColumnsQuery()).
		WithArgs("shop", "missing").
		WillReturnError(errors.New("Table 'shop.missing' doesn't exist"))

	_, err := extractor.ExtractColumns(context.Background(), db, "shop", "missing")
	assert.True(t, errors.Is(err, ErrSchemaNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
