package scaffolding

import (
	"context"
	"fmt"
	"strings"

	"github.com/shibukawa/typescaffold"
)

// BuildOptions controls which tables are scaffolded and how columns are flagged.
type BuildOptions struct {
	// RowVersionColumns lists column names treated as row versions in every table.
	RowVersionColumns []string
	// Tables filters tables by wildcard patterns.
	Tables typescaffold.TablePatterns
}

// Model is the scaffolded view of one or more database schemas.
type Model struct {
	Dialect  string    `yaml:"dialect,omitempty"`
	Entities []*Entity `yaml:"entities"`
	Warnings []string  `yaml:"warnings,omitempty"`
}

// Entity is a scaffolded table.
type Entity struct {
	Name       string      `yaml:"name"`
	Table      string      `yaml:"table"`
	Schema     string      `yaml:"schema,omitempty"`
	Comment    string      `yaml:"comment,omitempty"`
	Properties []*Property `yaml:"properties"`
}

// Property is a scaffolded column. StoreType is only set when generated code
// has to state it explicitly.
type Property struct {
	Name         string `yaml:"name"`
	Column       string `yaml:"column"`
	ValueType    string `yaml:"value_type,omitempty"`
	StoreType    string `yaml:"store_type,omitempty"`
	Unicode      *bool  `yaml:"unicode,omitempty"`
	MaxLength    *int   `yaml:"max_length,omitempty"`
	Nullable     bool   `yaml:"nullable"`
	IsKey        bool   `yaml:"is_key,omitempty"`
	IsRowVersion bool   `yaml:"is_row_version,omitempty"`
	Unmapped     bool   `yaml:"unmapped,omitempty"`
	Comment      string `yaml:"comment,omitempty"`
}

// ModelBuilder turns extracted schemas into a scaffold model.
type ModelBuilder struct {
	deps     Dependencies
	opts     BuildOptions
	resolver *Resolver
}

// NewModelBuilder creates a builder. deps must carry a type mapping source.
func NewModelBuilder(deps Dependencies, opts BuildOptions) (*ModelBuilder, error) {
	deps = deps.withDefaults()

	resolver, err := NewResolver(deps.TypeMappingSource)
	if err != nil {
		return nil, err
	}

	return &ModelBuilder{deps: deps, opts: opts, resolver: resolver}, nil
}

// Build classifies every column of every included table.
// Columns the source cannot map are kept as unmapped properties and reported in Model.Warnings.
func (b *ModelBuilder) Build(ctx context.Context, schemas []typescaffold.DatabaseSchema) (*Model, error) {
	model := &Model{}

	for _, schema := range schemas {
		if model.Dialect == "" {
			model.Dialect = schema.DatabaseInfo.Type
		}

		for _, table := range schema.Tables {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if !b.opts.Tables.Includes(table.Name) {
				b.deps.Logger("Skipping table %s", table.Name)
				continue
			}

			entity, err := b.buildEntity(model, schema.Name, table)
			if err != nil {
				return nil, err
			}

			model.Entities = append(model.Entities, entity)
		}
	}

	b.deps.Logger("Built %d entities with %d warnings", len(model.Entities), len(model.Warnings))

	return model, nil
}

func (b *ModelBuilder) buildEntity(model *Model, schemaName string, table *typescaffold.TableInfo) (*Entity, error) {
	if table.Schema != "" {
		schemaName = table.Schema
	}

	entity := &Entity{
		Name:    b.deps.FieldNamer.FieldName(table.Name),
		Table:   table.Name,
		Schema:  schemaName,
		Comment: table.Comment,
	}

	keys := table.KeyOrIndexColumns()

	for _, col := range table.Columns {
		isKeyOrIndex := keys[strings.ToLower(col.Name)]
		isRowVersion := col.IsRowVersion || b.isRowVersionColumn(col.Name)

		info, err := b.resolver.Classify(col.StoreType, isKeyOrIndex, isRowVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to classify %s.%s (%s): %w", table.Name, col.Name, col.StoreType, err)
		}

		prop := &Property{
			Name:         b.deps.FieldNamer.FieldName(col.Name),
			Column:       col.Name,
			Nullable:     col.Nullable,
			IsKey:        col.IsPrimaryKey,
			IsRowVersion: isRowVersion,
			Comment:      col.Comment,
		}

		if info == nil {
			prop.StoreType = col.StoreType
			prop.Unmapped = true

			warning := fmt.Sprintf("%s.%s: store type %q could not be mapped", table.Name, col.Name, col.StoreType)
			model.Warnings = append(model.Warnings, warning)
			b.deps.Logger("Warning: %s", warning)

			entity.Properties = append(entity.Properties, prop)

			continue
		}

		prop.ValueType = info.ValueType.String()
		if info.NeedsStoreTypeAnnotation() {
			prop.StoreType = col.StoreType
		}

		prop.Unicode = info.ScaffoldUnicode
		prop.MaxLength = info.ScaffoldMaxLength

		entity.Properties = append(entity.Properties, prop)
	}

	return entity, nil
}

func (b *ModelBuilder) isRowVersionColumn(name string) bool {
	for _, column := range b.opts.RowVersionColumns {
		if strings.EqualFold(column, name) {
			return true
		}
	}

	return false
}
