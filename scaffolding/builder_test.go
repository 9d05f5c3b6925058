package scaffolding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/typescaffold"
	"github.com/shibukawa/typescaffold/typemapping"
)

func sqlServerSchema() typescaffold.DatabaseSchema {
	return typescaffold.DatabaseSchema{
		Name:         "dbo",
		DatabaseInfo: typescaffold.DatabaseInfo{Type: "sqlserver"},
		Tables: []*typescaffold.TableInfo{
			{
				Name: "users",
				Columns: []*typescaffold.ColumnInfo{
					{Name: "id", StoreType: "int", IsPrimaryKey: true},
					{Name: "email", StoreType: "nvarchar(450)"},
					{Name: "display_name", StoreType: "varchar(100)", Nullable: true},
					{Name: "bio", StoreType: "nvarchar(max)", Nullable: true},
					{Name: "location", StoreType: "geography", Nullable: true},
					{Name: "created_at", StoreType: "datetime"},
					{Name: "row_ver", StoreType: "rowversion", IsRowVersion: true},
				},
				Indexes: []typescaffold.IndexInfo{
					{Name: "ux_users_email", Columns: []string{"Email"}, IsUnique: true},
				},
			},
			{
				Name: "sys_audit",
				Columns: []*typescaffold.ColumnInfo{
					{Name: "id", StoreType: "bigint"},
				},
			},
		},
	}
}

func TestModelBuilderBuild(t *testing.T) {
	var logged []string
	deps := NewDependencies(typemapping.NewSQLServerSource()).WithLogger(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})

	builder, err := NewModelBuilder(deps, BuildOptions{
		Tables: typescaffold.TablePatterns{Exclude: []string{"sys_*"}},
	})
	assert.NoError(t, err)

	model, err := builder.Build(context.Background(), []typescaffold.DatabaseSchema{sqlServerSchema()})
	assert.NoError(t, err)

	assert.Equal(t, "sqlserver", model.Dialect)
	assert.Equal(t, 1, len(model.Entities))

	users := model.Entities[0]
	assert.Equal(t, "Users", users.Name)
	assert.Equal(t, "users", users.Table)
	assert.Equal(t, "dbo", users.Schema)

	expected := []*Property{
		{Name: "ID", Column: "id", ValueType: "int32", IsKey: true},
		{Name: "Email", Column: "email", ValueType: "string"},
		{Name: "DisplayName", Column: "display_name", ValueType: "string", Unicode: typemapping.BoolPtr(false), MaxLength: typemapping.IntPtr(100), Nullable: true},
		{Name: "Bio", Column: "bio", ValueType: "string", Nullable: true},
		{Name: "Location", Column: "location", StoreType: "geography", Nullable: true, Unmapped: true},
		{Name: "CreatedAt", Column: "created_at", ValueType: "datetime", StoreType: "datetime"},
		{Name: "RowVer", Column: "row_ver", ValueType: "binary", IsRowVersion: true},
	}
	assert.Equal(t, expected, users.Properties)

	assert.Equal(t, []string{`users.location: store type "geography" could not be mapped`}, model.Warnings)
	log := strings.Join(logged, "\n")
	assert.Contains(t, log, "Skipping table sys_audit")
	assert.Contains(t, log, `Warning: users.location: store type "geography" could not be mapped`)
}

func TestModelBuilderRowVersionColumns(t *testing.T) {
	schema := typescaffold.DatabaseSchema{
		Tables: []*typescaffold.TableInfo{
			{
				Name:    "documents",
				Schema:  "app",
				Columns: []*typescaffold.ColumnInfo{{Name: "Version", StoreType: "rowversion"}},
			},
		},
	}

	builder, err := NewModelBuilder(NewDependencies(typemapping.NewSQLServerSource()), BuildOptions{
		RowVersionColumns: []string{"version"},
	})
	assert.NoError(t, err)

	model, err := builder.Build(context.Background(), []typescaffold.DatabaseSchema{schema})
	assert.NoError(t, err)

	prop := model.Entities[0].Properties[0]
	assert.True(t, prop.IsRowVersion)
	assert.Equal(t, "", prop.StoreType)
	assert.Zero(t, prop.MaxLength)
	assert.Equal(t, "app", model.Entities[0].Schema)
}

func TestModelBuilderKeyColumnsUseKeyDefaults(t *testing.T) {
	table := &typescaffold.TableInfo{
		Name: "tags",
		Columns: []*typescaffold.ColumnInfo{
			{Name: "code", StoreType: "nvarchar(450)"},
			{Name: "label", StoreType: "nvarchar(450)"},
		},
		Constraints: []typescaffold.ConstraintInfo{
			{Name: "pk_tags", Type: typescaffold.ConstraintPrimaryKey, Columns: []string{"code"}},
		},
	}
	table.MarkPrimaryKeys()

	builder, err := NewModelBuilder(NewDependencies(typemapping.NewSQLServerSource()), BuildOptions{})
	assert.NoError(t, err)

	model, err := builder.Build(context.Background(), []typescaffold.DatabaseSchema{{Tables: []*typescaffold.TableInfo{table}}})
	assert.NoError(t, err)

	code, label := model.Entities[0].Properties[0], model.Entities[0].Properties[1]
	assert.True(t, code.IsKey)
	assert.Zero(t, code.MaxLength)
	assert.Equal(t, typemapping.IntPtr(450), label.MaxLength)
}

func TestModelBuilderErrors(t *testing.T) {
	_, err := NewModelBuilder(Dependencies{}, BuildOptions{})
	assert.True(t, errors.Is(err, ErrNilTypeMappingSource))

	lookupErr := errors.New("lookup failed")
	source := &fakeSource{
		byStoreType: map[string]*typemapping.TypeMapping{
			"int": {ValueType: typemapping.ValueInt32, StoreType: "int"},
		},
		getErr: lookupErr,
	}

	builder, err := NewModelBuilder(NewDependencies(source), BuildOptions{})
	assert.NoError(t, err)

	schema := typescaffold.DatabaseSchema{Tables: []*typescaffold.TableInfo{
		{Name: "t", Columns: []*typescaffold.ColumnInfo{{Name: "c", StoreType: "int"}}},
	}}

	_, err = builder.Build(context.Background(), []typescaffold.DatabaseSchema{schema})
	assert.True(t, errors.Is(err, lookupErr))
	assert.Contains(t, err.Error(), "t.c (int)")
}

func TestModelBuilderHonoursCancellation(t *testing.T) {
	builder, err := NewModelBuilder(NewDependencies(typemapping.NewSQLServerSource()), BuildOptions{})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = builder.Build(ctx, []typescaffold.DatabaseSchema{sqlServerSchema()})
	assert.True(t, errors.Is(err, context.Canceled))
}
