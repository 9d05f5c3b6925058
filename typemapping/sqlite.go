package typemapping

// SQLiteSource maps SQLite declared types using column affinity rules.
// SQLite ignores lengths, so text and binary mappings never carry a size.
type SQLiteSource struct {
	table storeTypeTable
}

// NewSQLiteSource creates a new SQLite mapping source
func NewSQLiteSource() *SQLiteSource {
	return &SQLiteSource{
		table: storeTypeTable{
			names: map[string]storeTypeEntry{
				"integer": {ValueInt64, false},
				"text":    {ValueString, true},
				"blob":    {ValueBinary, false},
				"real":    {ValueFloat64, false},

				// Names that carry no affinity keyword but are common in the wild
				"boolean":   {ValueBool, false},
				"bool":      {ValueBool, false},
				"date":      {ValueDate, false},
				"time":      {ValueTime, false},
				"datetime":  {ValueDateTime, false},
				"timestamp": {ValueDateTime, false},
				"numeric":   {ValueDecimal, false},
				"decimal":   {ValueDecimal, false},
				"uuid":      {ValueUUID, false},
				"json":      {ValueJSON, false},
			},
			defaults: map[ValueType]string{
				ValueBool:           "INTEGER",
				ValueByte:           "INTEGER",
				ValueInt16:          "INTEGER",
				ValueInt32:          "INTEGER",
				ValueInt64:          "INTEGER",
				ValueDecimal:        "TEXT",
				ValueFloat32:        "REAL",
				ValueFloat64:        "REAL",
				ValueDate:           "TEXT",
				ValueTime:           "TEXT",
				ValueDateTime:       "TEXT",
				ValueDateTimeOffset: "TEXT",
				ValueUUID:           "TEXT",
				ValueJSON:           "TEXT",
			},
		},
	}
}

// FindMappingByStoreType resolves a SQLite declared type.
// A typeless column has BLOB affinity; unrecognized names have NUMERIC affinity.
func (s *SQLiteSource) FindMappingByStoreType(storeType string) *TypeMapping {
	st, err := ParseStoreType(storeType)
	if err != nil || st.Array {
		return nil
	}

	entry, ok := s.table.names[st.Base]
	if !ok {
		entry = affinity(st.Base)
	}

	m := s.table.mapping(st, entry)
	m.Size = nil

	return m
}

// affinity applies SQLite's type affinity rules in their documented order.
func affinity(base string) storeTypeEntry {
	switch {
	case hasWord(base, "int"):
		return storeTypeEntry{ValueInt64, false}
	case hasWord(base, "char", "clob", "text"):
		return storeTypeEntry{ValueString, true}
	case base == "", hasWord(base, "blob"):
		return storeTypeEntry{ValueBinary, false}
	case hasWord(base, "real", "floa", "doub"):
		return storeTypeEntry{ValueFloat64, false}
	default:
		return storeTypeEntry{ValueDecimal, false}
	}
}

// FindMapping returns the store type SQLite uses for a value type under hints
func (s *SQLiteSource) FindMapping(valueType ValueType, hints MappingHints) *TypeMapping {
	switch valueType.Kind() {
	case KindText:
		return &TypeMapping{ValueType: ValueString, StoreType: "TEXT", IsUnicode: true}
	case KindBinary:
		return &TypeMapping{ValueType: ValueBinary, StoreType: "BLOB"}
	default:
		return s.table.defaultFor(valueType)
	}
}

// GetMapping returns the unconstrained default mapping for a value type
func (s *SQLiteSource) GetMapping(valueType ValueType) (*TypeMapping, error) {
	return getMapping(s.FindMapping, valueType)
}
