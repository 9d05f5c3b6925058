package schemaimport

import (
	"context"

	"github.com/shibukawa/typescaffold"
)

// Runtime holds resolved tbls configuration alongside the converted schemas.
type Runtime struct {
	Config  Config
	Dialect typescaffold.Dialect
	Schemas []typescaffold.DatabaseSchema
}

// LoadRuntime resolves tbls configuration from opts, loads schema JSON and converts it.
// The tbls driver must map to a supported dialect.
func LoadRuntime(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := ResolveConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	importer := NewImporter(cfg)
	if err := importer.LoadSchemaJSON(ctx); err != nil {
		return nil, err
	}

	dialect, err := importer.Dialect()
	if err != nil {
		return nil, err
	}

	schemas, err := importer.Convert(ctx)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg, Dialect: dialect, Schemas: schemas}
	cfg.logf("Runtime prepared: dialect=%s schemas=%d tables=%d", dialect, len(schemas), rt.TableCount())

	return rt, nil
}

// TableCount returns the number of tables across all schemas.
func (r *Runtime) TableCount() int {
	if r == nil {
		return 0
	}

	count := 0
	for _, db := range r.Schemas {
		count += len(db.Tables)
	}

	return count
}

// TablesByName returns a lookup map keyed by table name and schema-qualified name.
func (r *Runtime) TablesByName() map[string]*typescaffold.TableInfo {
	tables := make(map[string]*typescaffold.TableInfo)
	if r == nil {
		return tables
	}

	for _, db := range r.Schemas {
		for _, tbl := range db.Tables {
			if tbl == nil {
				continue
			}

			tables[tbl.Name] = tbl

			if tbl.Schema != "" {
				tables[tbl.Schema+"."+tbl.Name] = tbl
			}
		}
	}

	return tables
}
