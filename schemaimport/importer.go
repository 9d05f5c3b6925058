package schemaimport

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	tblsschema "github.com/k1LoW/tbls/schema"
	"github.com/shibukawa/typescaffold"
)

// Importer loads a tbls schema.json and converts it into database schemas
// whose columns keep the store types tbls reported.
type Importer struct {
	cfg    *Config
	schema *tblsschema.Schema
}

// NewImporter constructs an Importer from a Config.
func NewImporter(cfg Config) *Importer {
	copyCfg := cfg
	return &Importer{cfg: &copyCfg}
}

// Config returns the resolved configuration backing the importer.
func (i *Importer) Config() *Config {
	if i == nil {
		return nil
	}

	return i.cfg
}

// LoadSchemaJSON loads the tbls JSON artefact into memory ready for conversion.
func (i *Importer) LoadSchemaJSON(ctx context.Context) error {
	if i == nil {
		return ErrImporterNil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if i.cfg == nil {
		return ErrImporterConfigNil
	}

	path := i.cfg.SchemaJSONPath
	if strings.TrimSpace(path) == "" {
		return ErrSchemaJSONPathMissing
	}

	path = absPath(cmp.Or(i.cfg.WorkingDir, "."), path)

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %q", ErrSchemaJSONNotFound, path)
	case err != nil:
		return fmt.Errorf("schemaimport: open schema JSON %q: %w", path, err)
	}
	defer file.Close()

	schema, err := decodeSchemaJSON(file)
	if err != nil {
		return fmt.Errorf("schemaimport: decode schema JSON %q: %w", path, err)
	}

	if err := validateSchema(schema); err != nil {
		return fmt.Errorf("schemaimport: invalid schema JSON %q: %w", path, err)
	}

	i.logf("Loaded schema JSON (%s) tables=%d", schema.Driver.Name, len(schema.Tables))

	i.schema = schema

	return nil
}

// Dialect maps the loaded tbls driver name to a dialect.
func (i *Importer) Dialect() (typescaffold.Dialect, error) {
	if i == nil {
		return "", ErrImporterNil
	}

	if !i.hasLoadedSchema() {
		return "", ErrSchemaNotLoaded
	}

	return typescaffold.ParseDialect(i.schema.Driver.Name)
}

// Convert transforms the loaded tbls schema into database schemas.
// Schemas keep the order in which their first table appears. Views are skipped.
func (i *Importer) Convert(ctx context.Context) ([]typescaffold.DatabaseSchema, error) {
	if i == nil {
		return nil, ErrImporterNil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !i.hasLoadedSchema() {
		return nil, ErrSchemaNotLoaded
	}

	dialect, err := i.Dialect()
	if err != nil {
		i.logf("Driver %q has no dialect; rowversion detection disabled", i.schema.Driver.Name)
	}

	dbInfo := typescaffold.DatabaseInfo{
		Type:    normalizeDriverName(i.schema.Driver.Name),
		Version: i.schema.Driver.DatabaseVersion,
		Name:    inferDatabaseName(i.cfg, i.schema),
	}

	i.logf("Converting schema for driver=%s tables=%d", dbInfo.Type, len(i.schema.Tables))

	var order []string
	schemas := make(map[string]*typescaffold.DatabaseSchema)

	for _, tbl := range i.schema.Tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if tbl == nil {
			continue
		}

		schemaName, tableName := splitSchemaAndName(tbl.Name, i.schema.Driver)

		if strings.Contains(strings.ToUpper(tbl.Type), "VIEW") {
			i.logf("Skipping view %s", tbl.Name)
			continue
		}

		if !i.cfg.Tables.Includes(tableName) {
			i.logf("Skipping table %s", tbl.Name)
			continue
		}

		key := schemaKey(schemaName, dbInfo)
		schema, ok := schemas[key]
		if !ok {
			schema = &typescaffold.DatabaseSchema{Name: key, DatabaseInfo: dbInfo}
			if schemaName != "" {
				schema.DatabaseInfo.Name = schemaName
			}

			schemas[key] = schema
			order = append(order, key)
		}

		schema.Tables = append(schema.Tables, convertTable(tbl, schemaName, tableName, dialect))
	}

	results := make([]typescaffold.DatabaseSchema, 0, len(order))
	for _, key := range order {
		results = append(results, *schemas[key])
	}

	i.logf("Converted schema JSON -> %d database schema(s)", len(results))

	return results, nil
}

func (i *Importer) hasLoadedSchema() bool {
	return i != nil && i.schema != nil
}

func decodeSchemaJSON(r io.Reader) (*tblsschema.Schema, error) {
	dec := json.NewDecoder(r)

	var schema tblsschema.Schema
	if err := dec.Decode(&schema); err != nil {
		return nil, err
	}

	return &schema, nil
}

func validateSchema(s *tblsschema.Schema) error {
	if s == nil {
		return ErrSchemaPayloadNil
	}

	if s.Driver == nil {
		return ErrDriverMetadataMissing
	}

	if strings.TrimSpace(s.Driver.Name) == "" {
		return ErrDriverNameEmpty
	}

	if len(s.Tables) == 0 {
		return ErrSchemaTablesEmpty
	}

	return nil
}

func (i *Importer) logf(format string, args ...any) {
	if i == nil || i.cfg == nil {
		return
	}

	i.cfg.logf(format, args...)
}

func schemaKey(schemaName string, info typescaffold.DatabaseInfo) string {
	switch {
	case schemaName != "":
		return schemaName
	case info.Name != "":
		return info.Name
	default:
		return "global"
	}
}

func convertTable(tbl *tblsschema.Table, schemaName, tableName string, dialect typescaffold.Dialect) *typescaffold.TableInfo {
	table := &typescaffold.TableInfo{
		Name:        tableName,
		Schema:      schemaName,
		Columns:     make([]*typescaffold.ColumnInfo, 0, len(tbl.Columns)),
		Constraints: convertConstraints(tbl),
		Indexes:     convertIndexes(tbl),
		Comment:     tbl.Comment,
	}

	for _, col := range tbl.Columns {
		if col == nil {
			continue
		}

		storeType := strings.TrimSpace(col.Type)

		table.Columns = append(table.Columns, &typescaffold.ColumnInfo{
			Name:         col.Name,
			StoreType:    storeType,
			Nullable:     col.Nullable,
			DefaultValue: nullStringValue(col.Default),
			Comment:      col.Comment,
			IsPrimaryKey: col.PK,
			IsRowVersion: typescaffold.IsRowVersionStoreType(dialect, storeType),
		})
	}

	table.MarkPrimaryKeys()

	return table
}

func convertConstraints(tbl *tblsschema.Table) []typescaffold.ConstraintInfo {
	constraints := make([]typescaffold.ConstraintInfo, 0, len(tbl.Constraints))

	for _, c := range tbl.Constraints {
		if c == nil {
			continue
		}

		info := typescaffold.ConstraintInfo{
			Name:              c.Name,
			Type:              normalizeConstraintType(c.Type),
			Columns:           append([]string(nil), c.Columns...),
			ReferencedColumns: append([]string(nil), c.ReferencedColumns...),
			Definition:        c.Def,
		}

		if c.ReferencedTable != nil {
			_, info.ReferencedTable = splitSchemaAndName(*c.ReferencedTable, nil)
		}

		constraints = append(constraints, info)
	}

	return constraints
}

func convertIndexes(tbl *tblsschema.Table) []typescaffold.IndexInfo {
	indexes := make([]typescaffold.IndexInfo, 0, len(tbl.Indexes))

	for _, idx := range tbl.Indexes {
		if idx == nil {
			continue
		}

		indexes = append(indexes, typescaffold.IndexInfo{
			Name:     idx.Name,
			Columns:  append([]string(nil), idx.Columns...),
			IsUnique: isUniqueIndex(idx),
		})
	}

	return indexes
}

// normalizeConstraintType maps tbls constraint types, which some drivers
// decorate (e.g. "PRIMARY KEY CLUSTERED"), to the shared constraint names.
func normalizeConstraintType(constraintType string) string {
	upper := strings.ToUpper(strings.TrimSpace(constraintType))

	switch {
	case strings.HasPrefix(upper, typescaffold.ConstraintPrimaryKey):
		return typescaffold.ConstraintPrimaryKey
	case strings.HasPrefix(upper, typescaffold.ConstraintForeignKey):
		return typescaffold.ConstraintForeignKey
	case strings.HasPrefix(upper, typescaffold.ConstraintUnique):
		return typescaffold.ConstraintUnique
	case strings.HasPrefix(upper, typescaffold.ConstraintCheck):
		return typescaffold.ConstraintCheck
	default:
		return upper
	}
}

func normalizeDriverName(driver string) string {
	if dialect, err := typescaffold.ParseDialect(driver); err == nil {
		return string(dialect)
	}

	return strings.ToLower(strings.TrimSpace(driver))
}

func splitSchemaAndName(fullName string, driver *tblsschema.Driver) (string, string) {
	if schemaName, tableName, found := strings.Cut(fullName, "."); found {
		return schemaName, tableName
	}

	if driver != nil && driver.Meta != nil && driver.Meta.CurrentSchema != "" {
		return driver.Meta.CurrentSchema, fullName
	}

	return "", fullName
}

func nullStringValue(v sql.NullString) string {
	if v.Valid {
		return v.String
	}

	return ""
}

func isUniqueIndex(idx *tblsschema.Index) bool {
	def := strings.ToUpper(idx.Def)

	return strings.Contains(def, "UNIQUE") || strings.Contains(def, "PRIMARY KEY")
}

func inferDatabaseName(cfg *Config, schema *tblsschema.Schema) string {
	if cfg != nil && cfg.TblsConfig != nil {
		if dsn := strings.TrimSpace(cfg.TblsConfig.DSN.URL); dsn != "" {
			if name := extractDatabaseNameFromDSN(dsn); name != "" {
				return name
			}
		}

		if cfg.TblsConfig.Name != "" {
			return cfg.TblsConfig.Name
		}
	}

	if schema != nil && schema.Name != "" {
		return schema.Name
	}

	return ""
}

func extractDatabaseNameFromDSN(dsn string) string {
	if dsn == "" {
		return ""
	}

	if strings.HasPrefix(dsn, "sqlite://") {
		trimmed := strings.TrimSuffix(strings.TrimPrefix(dsn, "sqlite://"), "/")

		base := filepath.Base(trimmed)
		if base != "." && base != "" && base != "/" {
			return strings.TrimSuffix(base, filepath.Ext(base))
		}

		return "sqlite"
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}

	// sqlserver://host?database=app
	if name := u.Query().Get("database"); name != "" {
		return name
	}

	return strings.TrimPrefix(u.Path, "/")
}
