package typemapping

import (
	"fmt"
	"strings"

	"github.com/shibukawa/typescaffold"
)

// NewSource creates the mapping source for the specified dialect
func NewSource(dialect typescaffold.Dialect) (Source, error) {
	switch dialect {
	case typescaffold.DialectSQLServer:
		return NewSQLServerSource(), nil
	case typescaffold.DialectPostgres:
		return NewPostgreSQLSource(), nil
	case typescaffold.DialectMySQL:
		return NewMySQLSource(), nil
	case typescaffold.DialectSQLite:
		return NewSQLiteSource(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
}

// storeTypeEntry describes what a base store type name resolves to.
type storeTypeEntry struct {
	valueType ValueType
	unicode   bool
}

// storeTypeTable holds the store type names and default mappings shared by every dialect.
type storeTypeTable struct {
	names    map[string]storeTypeEntry
	defaults map[ValueType]string
}

// resolve parses storeType and finds the entry for its base name.
func (t *storeTypeTable) resolve(storeType string) (StoreType, storeTypeEntry, bool) {
	st, err := ParseStoreType(storeType)
	if err != nil || st.Array {
		return st, storeTypeEntry{}, false
	}

	entry, ok := t.names[st.Base]

	return st, entry, ok
}

// mapping builds the base mapping for a resolved store type.
func (t *storeTypeTable) mapping(st StoreType, entry storeTypeEntry) *TypeMapping {
	m := &TypeMapping{
		ValueType: entry.valueType,
		StoreType: st.Raw,
		IsUnicode: entry.unicode,
	}

	if entry.valueType.Kind() != KindOther && !st.Max {
		m.Size = st.Size
	}

	return m
}

// defaultFor returns the declared default for value types without facets.
func (t *storeTypeTable) defaultFor(valueType ValueType) *TypeMapping {
	storeType, ok := t.defaults[valueType]
	if !ok {
		return nil
	}

	return &TypeMapping{ValueType: valueType, StoreType: storeType}
}

// getMapping implements Source.GetMapping on top of a FindMapping function.
func getMapping(find func(ValueType, MappingHints) *TypeMapping, valueType ValueType) (*TypeMapping, error) {
	if m := find(valueType, MappingHints{}); m != nil {
		return m, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoDefaultMapping, valueType)
}

func unicodeRequested(hints MappingHints) bool {
	return hints.Unicode == nil || *hints.Unicode
}

func sized(name string, size int) string {
	return fmt.Sprintf("%s(%d)", name, size)
}

func hasWord(base string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(base, w) {
			return true
		}
	}

	return false
}
