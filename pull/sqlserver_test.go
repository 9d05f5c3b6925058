package pull

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/typescaffold"
)

func TestSQLServerQueries(t *testing.T) {
	extractor := NewSQLServerExtractor()

	t.Run("BuildSchemasQuery", func(t *testing.T) {
		query := extractor.BuildSchemasQuery()
		assert.Contains(t, query, "sys.schemas")
		assert.Contains(t, query, "is_ms_shipped = 0")
	})

	t.Run("BuildTablesQuery", func(t *testing.T) {
		query := extractor.BuildTablesQuery()
		assert.Contains(t, query, "MS_Description")
		assert.Contains(t, query, "s.name = @p1")
	})

	t.Run("BuildColumnsQuery", func(t *testing.T) {
		query := extractor.BuildColumnsQuery()
		assert.Contains(t, query, "TYPE_NAME(c.system_type_id)")
		assert.Contains(t, query, "c.max_length")
		assert.Contains(t, query, "t.name = @p2")
		assert.Contains(t, query, "ORDER BY c.column_id")
	})

	t.Run("BuildConstraintsQuery", func(t *testing.T) {
		query := extractor.BuildConstraintsQuery()
		assert.Contains(t, query, "sys.key_constraints")
		assert.Contains(t, query, "sys.foreign_key_columns")
		assert.Contains(t, query, "sys.check_constraints")
	})

	t.Run("BuildIndexesQuery", func(t *testing.T) {
		query := extractor.BuildIndexesQuery()
		assert.Contains(t, query, "i.is_primary_key = 0")
		assert.Contains(t, query, "ic.is_included_column = 0")
	})

	t.Run("BuildDatabaseInfoQuery", func(t *testing.T) {
		query := extractor.BuildDatabaseInfoQuery()
		assert.Contains(t, query, "SERVERPROPERTY('ProductVersion')")
		assert.Contains(t, query, "'Collation'")
	})
}

func TestSQLServerFormatStoreType(t *testing.T) {
	extractor := NewSQLServerExtractor()

	testCases := []struct {
		typeName  string
		maxLength int
		precision int
		scale     int
		expected  string
	}{
		{"nvarchar", 100, 0, 0, "nvarchar(50)"},
		{"nvarchar", -1, 0, 0, "nvarchar(max)"},
		{"nchar", 20, 0, 0, "nchar(10)"},
		{"varchar", 100, 0, 0, "varchar(100)"},
		{"varbinary", -1, 0, 0, "varbinary(max)"},
		{"binary", 16, 0, 0, "binary(16)"},
		{"decimal", 9, 18, 2, "decimal(18,2)"},
		{"numeric", 5, 9, 0, "numeric(9,0)"},
		{"datetime2", 8, 27, 7, "datetime2"},
		{"datetime2", 6, 19, 0, "datetime2(0)"},
		{"time", 5, 16, 7, "time"},
		{"datetimeoffset", 9, 31, 3, "datetimeoffset(3)"},
		{"float", 8, 53, 0, "float"},
		{"float", 4, 24, 0, "float(24)"},
		{"int", 4, 10, 0, "int"},
		{"timestamp", 8, 0, 0, "timestamp"},
		{"geography", -1, 0, 0, "geography"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractor.FormatStoreType(tc.typeName, tc.maxLength, tc.precision, tc.scale))
		})
	}
}

func TestSQLServerConstraintParsing(t *testing.T) {
	extractor := NewSQLServerExtractor()
	testConstraintParsing(t, extractor, "UNKNOWN")

	codes := map[string]string{
		"PK": typescaffold.ConstraintPrimaryKey,
		"F ": typescaffold.ConstraintForeignKey,
		"UQ": typescaffold.ConstraintUnique,
		"C":  typescaffold.ConstraintCheck,
		"D":  "UNKNOWN",
	}
	for code, expected := range codes {
		assert.Equal(t, expected, extractor.ParseConstraintType(code), "type %q", code)
	}
}

func TestSQLServerDefaultValues(t *testing.T) {
	extractor := NewSQLServerExtractor()

	testCases := []struct {
		definition string
		expected   string
	}{
		{"((0))", "0"},
		{"(1)+(2)", "(1)+(2)"},
		{"((1)+(2))", "(1)+(2)"},
		{"('(a)')", "(a)"},
		{"(N')x(')", ")x("},
		{"(N'pending')", "pending"},
		{"('plain')", "plain"},
		{"(getdate())", "CURRENT_TIMESTAMP"},
		{"(sysdatetime())", "CURRENT_TIMESTAMP"},
		{"(newid())", "newid()"},
		{"(NULL)", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, extractor.ParseDefaultValue(tc.definition), "definition %q", tc.definition)
	}
}

func TestSQLServerSystemSchemaFiltering(t *testing.T) {
	extractor := NewSQLServerExtractor()
	all := []string{"dbo", "sales", "sys", "INFORMATION_SCHEMA", "guest", "db_owner", "db_datareader"}

	assert.Equal(t, []string{"dbo", "sales"}, extractor.FilterSystemSchemas(all, ExtractConfig{}))
	assert.Equal(t, []string{"sales"}, extractor.FilterSystemSchemas(all, ExtractConfig{ExcludeSchemas: []string{"dbo"}}))
	assert.Equal(t, []string{"dbo"}, extractor.FilterSystemSchemas(all, ExtractConfig{IncludeSchemas: []string{"dbo", "sys"}}))
}

func TestSQLServerErrorHandling(t *testing.T) {
	extractor := NewSQLServerExtractor()

	testCases := []struct {
		name     string
		message  string
		sentinel error
	}{
		{"Login", "mssql: Login failed for user 'sa'.", ErrPermissionDenied},
		{"Permission", "mssql: The SELECT permission was denied on the object 'Orders'", ErrPermissionDenied},
		{"Database", `mssql: Cannot open database "shop" requested by the login.`, ErrSchemaNotFound},
		{"Object", "mssql: Invalid object name 'dbo.Missing'.", ErrTableNotFound},
		{"Connection", "unable to open tcp connection with host 'localhost:1433'", ErrConnectionFailed},
		{"Other", "mssql: Incorrect syntax near 'FROM'.", ErrQueryExecutionFailed},
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

func TestSQLServerExtractSchemas(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewSQLServerExtractor()

	mock.ExpectQuery(extractor.BuildDatabaseInfoQuery()).
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "collation"}).
			AddRow("16.0.1000.6", "shop", "SQL_Latin1_General_CP1_CI_AS"))
	mock.ExpectQuery(extractor.BuildSchemasQuery()).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("db_owner").
			AddRow("dbo").
			AddRow("sys"))
	mock.ExpectQuery(extractor.BuildTablesQuery()).
		WithArgs("dbo").
		WillReturnRows(sqlmock.NewRows([]string{"name", "comment"}).
			AddRow("Customers", "Registered customers").
			AddRow("__EFMigrationsHistory", ""))
	mock.ExpectQuery(extractor.BuildColumnsQuery()).
		WithArgs("dbo", "Customers").
		WillReturnRows(sqlmock.NewRows([]string{"name", "type", "max_length", "precision", "scale", "is_nullable", "default", "comment"}).
			AddRow("Id", "int", 4, 10, 0, false, "", "").
			AddRow("Name", "nvarchar", 200, 0, 0, false, "(N'')", "").
			AddRow("Email", "nvarchar", 512, 0, 0, true, "(NULL)", "Login address").
			AddRow("CreatedAt", "datetime2", 8, 27, 7, false, "(sysdatetime())", "").
			AddRow("RowVer", "timestamp", 8, 0, 0, false, "", ""))
	mock.ExpectQuery(extractor.BuildConstraintsQuery()).
		WithArgs("dbo", "Customers").
		WillReturnRows(sqlmock.NewRows([]string{"name", "type", "column", "ref_table", "ref_column", "definition", "ordinal"}).
			AddRow("CK_Customers_Name", "C ", "Name", nil, nil, "(len([Name])>(0))", 0).
			AddRow("PK_Customers", "PK", "Id", nil, nil, "", 1).
			AddRow("UQ_Customers_Email", "UQ", "Email", nil, nil, "", 1))
	mock.ExpectQuery(extractor.BuildIndexesQuery()).
		WithArgs("dbo", "Customers").
		WillReturnRows(sqlmock.NewRows([]string{"name", "is_unique", "column"}).
			AddRow("IX_Customers_Name", false, "Name").
			AddRow("UQ_Customers_Email", true, "Email"))

	schemas, err := extractor.ExtractSchemas(context.Background(), db, ExtractConfig{ExcludeTables: []string{"__EFMigrationsHistory"}})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 1, len(schemas))
	assert.Equal(t, "dbo", schemas[0].Name)
	assert.Equal(t, typescaffold.DatabaseInfo{Type: "sqlserver", Version: "16.0.1000.6", Name: "shop", Charset: "SQL_Latin1_General_CP1_CI_AS"}, schemas[0].DatabaseInfo)

	assert.Equal(t, 1, len(schemas[0].Tables))
	customers := schemas[0].Tables[0]
	assert.Equal(t, "Customers", customers.Name)
	assert.Equal(t, "dbo", customers.Schema)
	assert.Equal(t, "Registered customers", customers.Comment)

	assert.Equal(t, &typescaffold.ColumnInfo{Name: "Id", StoreType: "int", IsPrimaryKey: true}, customers.Columns[0])
	assert.Equal(t, "nvarchar(100)", customers.Columns[1].StoreType)
	assert.Equal(t, &typescaffold.ColumnInfo{Name: "Email", StoreType: "nvarchar(256)", Nullable: true, Comment: "Login address"}, customers.Columns[2])
	assert.Equal(t, "datetime2", customers.Columns[3].StoreType)
	assert.Equal(t, "CURRENT_TIMESTAMP", customers.Columns[3].DefaultValue)
	assert.True(t, customers.Columns[4].IsRowVersion)
	assert.False(t, customers.Columns[1].IsRowVersion)

	assert.Equal(t, []typescaffold.ConstraintInfo{
		{Name: "CK_Customers_Name", Type: typescaffold.ConstraintCheck, Columns: []string{"Name"}, Definition: "(len([Name])>(0))"},
		{Name: "PK_Customers", Type: typescaffold.ConstraintPrimaryKey, Columns: []string{"Id"}},
		{Name: "UQ_Customers_Email", Type: typescaffold.ConstraintUnique, Columns: []string{"Email"}},
	}, customers.Constraints)
	assert.Equal(t, []typescaffold.IndexInfo{
		{Name: "IX_Customers_Name", Columns: []string{"Name"}},
		{Name: "UQ_Customers_Email", Columns: []string{"Email"}, IsUnique: true},
	}, customers.Indexes)
}

func TestSQLServerExtractCompositeForeignKey(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewSQLServerExtractor()

	mock.ExpectQuery(extractor.BuildConstraintsQuery()).
		WithArgs("sales", "OrderLines").
		WillReturnRows(sqlmock.NewRows([]string{"name", "type", "column", "ref_table", "ref_column", "definition", "ordinal"}).
			AddRow("FK_OrderLines_Orders", "F", "TenantId", "Orders", "TenantId", "", 1).
			AddRow("FK_OrderLines_Orders", "F", "OrderId", "Orders", "Id", "", 2))

	constraints, err := extractor.ExtractConstraints(context.Background(), db, "sales", "OrderLines")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []typescaffold.ConstraintInfo{{
		Name:              "FK_OrderLines_Orders",
		Type:              typescaffold.ConstraintForeignKey,
		Columns:           []string{"TenantId", "OrderId"},
		ReferencedTable:   "Orders",
		ReferencedColumns: []string{"TenantId", "Id"},
	}}, constraints)
}

func TestSQLServerExtractSchemasLoginFailure(t *testing.T) {
	db, mock := newMockDB(t)
	extractor := NewSQLServerExtractor()

	mock.ExpectQuery(extractor.BuildDatabaseInfoQuery()).
		WillReturnError(errors.New("mssql: Login failed for user 'app'."))

	_, err := extractor.ExtractSchemas(context.Background(), db, ExtractConfig{})
	assert.True(t, errors.Is(err, ErrPermissionDenied), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
