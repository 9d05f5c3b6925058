package typescaffold

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input    string
		expected Dialect
	}{
		{"postgres", DialectPostgres},
		{"PostgreSQL", DialectPostgres},
		{"pgx", DialectPostgres},
		{"mysql", DialectMySQL},
		{"mariadb", DialectMySQL},
		{"sqlite3", DialectSQLite},
		{"mssql", DialectSQLServer},
		{" sqlserver ", DialectSQLServer},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dialect, err := ParseDialect(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, dialect)
		})
	}

	_, err := ParseDialect("")
	assert.True(t, errors.Is(err, ErrDialectMustBeSpecified))

	_, err = ParseDialect("oracle")
	assert.True(t, errors.Is(err, ErrUnsupportedDialect))
}

func TestTableInfo_KeyOrIndexColumns(t *testing.T) {
	table := &TableInfo{
		Name: "orders",
		Columns: []*ColumnInfo{
			{Name: "Id", StoreType: "int"},
			{Name: "CustomerId", StoreType: "int"},
			{Name: "Code", StoreType: "nvarchar(20)"},
			{Name: "Note", StoreType: "nvarchar(max)"},
			{Name: "Amount", StoreType: "decimal(18,2)"},
		},
		Constraints: []ConstraintInfo{
			{Name: "PK_orders", Type: ConstraintPrimaryKey, Columns: []string{"Id"}},
			{Name: "FK_orders_customers", Type: ConstraintForeignKey, Columns: []string{"CustomerId"}},
			{Name: "CK_orders_amount", Type: ConstraintCheck, Columns: []string{"Amount"}},
		},
		Indexes: []IndexInfo{
			{Name: "IX_orders_code", Columns: []string{"code"}, IsUnique: true},
		},
	}

	table.MarkPrimaryKeys()
	assert.True(t, table.Column("id").IsPrimaryKey)

	keys := table.KeyOrIndexColumns()
	assert.Equal(t, map[string]bool{"id": true, "customerid": true, "code": true}, keys)
	assert.Zero(t, table.Column("missing"))
}

func TestIsRowVersionStoreType(t *testing.T) {
	assert.True(t, IsRowVersionStoreType(DialectSQLServer, "rowversion"))
	assert.True(t, IsRowVersionStoreType(DialectSQLServer, " TIMESTAMP "))
	assert.False(t, IsRowVersionStoreType(DialectSQLServer, "datetime2"))
	assert.False(t, IsRowVersionStoreType(DialectMySQL, "timestamp"))
	assert.False(t, IsRowVersionStoreType(DialectPostgres, "rowversion"))
}

func TestTablePatterns_Includes(t *testing.T) {
	patterns := TablePatterns{
		Include: []string{"user*", "orders"},
		Exclude: []string{"user_audit*"},
	}

	tests := []struct {
		table    string
		expected bool
	}{
		{"users", true},
		{"user_roles", true},
		{"orders", true},
		{"orders_archive", false},
		{"user_audit_log", false},
		{"products", false},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.expected, patterns.Includes(tt.table))
		})
	}

	assert.True(t, TablePatterns{}.Includes("anything"))
	assert.True(t, MatchWildcard("[invalid", "[invalid"))
}
