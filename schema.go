package typescaffold

import "strings"

// Constraint types reported by the extractors.
const (
	ConstraintPrimaryKey = "PRIMARY KEY"
	ConstraintForeignKey = "FOREIGN KEY"
	ConstraintUnique     = "UNIQUE"
	ConstraintCheck      = "CHECK"
)

// ColumnInfo is a column definition as reported by the database.
type ColumnInfo struct {
	Name         string `json:"name" yaml:"name"`                 // Column name
	StoreType    string `json:"storeType" yaml:"storeType"`       // Raw provider type, e.g. nvarchar(50)
	Nullable     bool   `json:"nullable" yaml:"nullable"`         // Is nullable
	DefaultValue string `json:"defaultValue" yaml:"defaultValue"` // Default value (optional)
	Comment      string `json:"comment" yaml:"comment"`           // Comment (optional)
	IsPrimaryKey bool   `json:"isPrimaryKey" yaml:"isPrimaryKey"` // Is primary key (optional)
	IsRowVersion bool   `json:"isRowVersion" yaml:"isRowVersion"` // Concurrency token maintained by the database
}

// TableInfo is a table definition. Columns keep their ordinal order.
type TableInfo struct {
	Name        string           `json:"name" yaml:"name"`               // Table name
	Schema      string           `json:"schema" yaml:"schema"`           // Schema name (optional)
	Columns     []*ColumnInfo    `json:"columns" yaml:"columns"`         // Columns in ordinal order
	Constraints []ConstraintInfo `json:"constraints" yaml:"constraints"` // Constraints (optional)
	Indexes     []IndexInfo      `json:"indexes" yaml:"indexes"`         // Indexes (optional)
	Comment     string           `json:"comment" yaml:"comment"`         // Table comment (optional)
}

// DatabaseSchema is a unified database schema definition
type DatabaseSchema struct {
	Name         string       `json:"name" yaml:"name"`                 // Schema/database name
	Tables       []*TableInfo `json:"tables" yaml:"tables"`             // Tables
	DatabaseInfo DatabaseInfo `json:"databaseInfo" yaml:"databaseInfo"` // DB info
}

type ConstraintInfo struct {
	Name              string   `json:"name" yaml:"name"`
	Type              string   `json:"type" yaml:"type"` // PRIMARY KEY, FOREIGN KEY, UNIQUE, CHECK
	Columns           []string `json:"columns" yaml:"columns"`
	ReferencedTable   string   `json:"referencedTable" yaml:"referencedTable"`
	ReferencedColumns []string `json:"referencedColumns" yaml:"referencedColumns"`
	Definition        string   `json:"definition" yaml:"definition"`
}

type IndexInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Columns  []string `json:"columns" yaml:"columns"`
	IsUnique bool     `json:"isUnique" yaml:"isUnique"`
}

type DatabaseInfo struct {
	Type    string `json:"type" yaml:"type"`
	Version string `json:"version" yaml:"version"`
	Name    string `json:"name" yaml:"name"`
	Charset string `json:"charset" yaml:"charset"`
}

// Column looks a column up by name, case-insensitively.
func (t *TableInfo) Column(name string) *ColumnInfo {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return col
		}
	}

	return nil
}

// KeyOrIndexColumns returns the lower-cased names of every column that takes part
// in the primary key, an index, a unique constraint or a foreign key.
func (t *TableInfo) KeyOrIndexColumns() map[string]bool {
	result := make(map[string]bool)

	for _, col := range t.Columns {
		if col.IsPrimaryKey {
			result[strings.ToLower(col.Name)] = true
		}
	}

	for _, idx := range t.Indexes {
		for _, name := range idx.Columns {
			result[strings.ToLower(name)] = true
		}
	}

	for _, c := range t.Constraints {
		if c.Type == ConstraintCheck {
			continue
		}

		for _, name := range c.Columns {
			result[strings.ToLower(name)] = true
		}
	}

	return result
}

// MarkPrimaryKeys flags columns referenced by PRIMARY KEY constraints.
func (t *TableInfo) MarkPrimaryKeys() {
	for _, c := range t.Constraints {
		if c.Type != ConstraintPrimaryKey {
			continue
		}

		for _, name := range c.Columns {
			if col := t.Column(name); col != nil {
				col.IsPrimaryKey = true
			}
		}
	}
}

// IsRowVersionStoreType reports whether the dialect maintains storeType
// automatically as a concurrency token.
func IsRowVersionStoreType(dialect Dialect, storeType string) bool {
	if dialect != DialectSQLServer {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(storeType)) {
	case "rowversion", "timestamp":
		return true
	default:
		return false
	}
}
