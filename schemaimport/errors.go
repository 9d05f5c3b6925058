package schemaimport

import "errors"

// Configuration lookup errors.
var (
	ErrTblsConfigNotFound    = errors.New("schemaimport: no .tbls.yml or tbls.yml found")
	ErrSchemaJSONPathMissing = errors.New("schemaimport: schema JSON path is not configured")
	ErrSchemaJSONNotFound    = errors.New("schemaimport: schema JSON not found; run tbls doc first")
)

// Importer state errors.
var (
	ErrImporterNil       = errors.New("schemaimport: nil importer")
	ErrImporterConfigNil = errors.New("schemaimport: importer has no config")
	// ErrSchemaNotLoaded is returned by Dialect and Convert before LoadSchemaJSON succeeds.
	ErrSchemaNotLoaded = errors.New("schemaimport: schema JSON not loaded")
)

// Payload validation errors, wrapped with the schema JSON path.
var (
	ErrSchemaPayloadNil      = errors.New("schemaimport: empty schema payload")
	ErrDriverMetadataMissing = errors.New("schemaimport: schema has no driver section")
	ErrDriverNameEmpty       = errors.New("schemaimport: schema driver name is blank")
	ErrSchemaTablesEmpty     = errors.New("schemaimport: schema has no tables")
)
