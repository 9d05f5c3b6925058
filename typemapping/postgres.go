package typemapping

const postgresMaxVarcharSize = 10485760

// PostgreSQLSource maps PostgreSQL store types. Text is always unicode.
type PostgreSQLSource struct {
	table storeTypeTable
}

// NewPostgreSQLSource creates a new PostgreSQL mapping source
func NewPostgreSQLSource() *PostgreSQLSource {
	return &PostgreSQLSource{
		table: storeTypeTable{
			names: map[string]storeTypeEntry{
				// Integer types
				"smallint":    {ValueInt16, false},
				"int2":        {ValueInt16, false},
				"smallserial": {ValueInt16, false},
				"integer":     {ValueInt32, false},
				"int":         {ValueInt32, false},
				"int4":        {ValueInt32, false},
				"serial":      {ValueInt32, false},
				"bigint":      {ValueInt64, false},
				"int8":        {ValueInt64, false},
				"bigserial":   {ValueInt64, false},

				// String types
				"text":              {ValueString, true},
				"character varying": {ValueString, true},
				"varchar":           {ValueString, true},
				"character":         {ValueString, true},
				"char":              {ValueString, true},
				"bpchar":            {ValueString, true},
				"citext":            {ValueString, true},

				// Numeric types
				"numeric":          {ValueDecimal, false},
				"decimal":          {ValueDecimal, false},
				"money":            {ValueDecimal, false},
				"real":             {ValueFloat32, false},
				"float4":           {ValueFloat32, false},
				"double precision": {ValueFloat64, false},
				"float8":           {ValueFloat64, false},

				// Boolean types
				"boolean": {ValueBool, false},
				"bool":    {ValueBool, false},

				// Date/Time types
				"date":                        {ValueDate, false},
				"time":                        {ValueTime, false},
				"time without time zone":      {ValueTime, false},
				"time with time zone":         {ValueTime, false},
				"timetz":                      {ValueTime, false},
				"timestamp":                   {ValueDateTime, false},
				"timestamp without time zone": {ValueDateTime, false},
				"timestamp with time zone":    {ValueDateTimeOffset, false},
				"timestamptz":                 {ValueDateTimeOffset, false},

				// JSON types
				"json":  {ValueJSON, false},
				"jsonb": {ValueJSON, false},

				// Binary types
				"bytea": {ValueBinary, false},

				"uuid": {ValueUUID, false},
			},
			defaults: map[ValueType]string{
				ValueBool:           "boolean",
				ValueByte:           "smallint",
				ValueInt16:          "smallint",
				ValueInt32:          "integer",
				ValueInt64:          "bigint",
				ValueDecimal:        "numeric",
				ValueFloat32:        "real",
				ValueFloat64:        "double precision",
				ValueDate:           "date",
				ValueTime:           "time without time zone",
				ValueDateTime:       "timestamp without time zone",
				ValueDateTimeOffset: "timestamp with time zone",
				ValueUUID:           "uuid",
				ValueJSON:           "jsonb",
			},
		},
	}
}

// FindMappingByStoreType resolves a PostgreSQL store type
func (s *PostgreSQLSource) FindMappingByStoreType(storeType string) *TypeMapping {
	st, entry, ok := s.table.resolve(storeType)
	if !ok {
		return nil
	}

	m := s.table.mapping(st, entry)
	if entry.valueType == ValueBinary {
		// bytea has no length
		m.Size = nil
	}

	return m
}

// FindMapping returns the store type PostgreSQL uses for a value type under hints
func (s *PostgreSQLSource) FindMapping(valueType ValueType, hints MappingHints) *TypeMapping {
	switch valueType.Kind() {
	case KindText:
		if hints.Size != nil && *hints.Size <= postgresMaxVarcharSize {
			return &TypeMapping{
				ValueType: ValueString,
				StoreType: sized("character varying", *hints.Size),
				IsUnicode: true,
				Size:      IntPtr(*hints.Size),
			}
		}

		return &TypeMapping{ValueType: ValueString, StoreType: "text", IsUnicode: true}
	case KindBinary:
		return &TypeMapping{ValueType: ValueBinary, StoreType: "bytea"}
	default:
		return s.table.defaultFor(valueType)
	}
}

// GetMapping returns the unconstrained default mapping for a value type
func (s *PostgreSQLSource) GetMapping(valueType ValueType) (*TypeMapping, error) {
	return getMapping(s.FindMapping, valueType)
}
