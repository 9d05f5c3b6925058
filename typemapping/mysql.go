package typemapping

const (
	mysqlMaxVarcharSize   = 16383
	mysqlMaxVarbinarySize = 65535
	mysqlKeySize          = 255
	mysqlRowVersionLength = 8
)

// MySQLSource maps MySQL and MariaDB store types.
// Character sets are configured per table, so text is reported as unicode.
type MySQLSource struct {
	table storeTypeTable
}

// NewMySQLSource creates a new MySQL mapping source
func NewMySQLSource() *MySQLSource {
	return &MySQLSource{
		table: storeTypeTable{
			names: map[string]storeTypeEntry{
				// Integer types
				"tinyint":   {ValueInt16, false},
				"smallint":  {ValueInt16, false},
				"year":      {ValueInt16, false},
				"mediumint": {ValueInt32, false},
				"int":       {ValueInt32, false},
				"integer":   {ValueInt32, false},
				"bigint":    {ValueInt64, false},
				"bit":       {ValueInt64, false},

				// String types
				"varchar":    {ValueString, true},
				"char":       {ValueString, true},
				"tinytext":   {ValueString, true},
				"text":       {ValueString, true},
				"mediumtext": {ValueString, true},
				"longtext":   {ValueString, true},
				"enum":       {ValueString, true},
				"set":        {ValueString, true},

				// Numeric types
				"decimal": {ValueDecimal, false},
				"numeric": {ValueDecimal, false},
				"float":   {ValueFloat32, false},
				"double":  {ValueFloat64, false},
				"real":    {ValueFloat64, false},

				// Boolean types
				"boolean": {ValueBool, false},
				"bool":    {ValueBool, false},

				// Date/Time types
				"date":      {ValueDate, false},
				"time":      {ValueTime, false},
				"datetime":  {ValueDateTime, false},
				"timestamp": {ValueDateTime, false},

				// JSON types
				"json": {ValueJSON, false},

				// Binary types
				"binary":     {ValueBinary, false},
				"varbinary":  {ValueBinary, false},
				"tinyblob":   {ValueBinary, false},
				"blob":       {ValueBinary, false},
				"mediumblob": {ValueBinary, false},
				"longblob":   {ValueBinary, false},
			},
			defaults: map[ValueType]string{
				ValueBool:           "tinyint(1)",
				ValueByte:           "tinyint unsigned",
				ValueInt16:          "smallint",
				ValueInt32:          "int",
				ValueInt64:          "bigint",
				ValueDecimal:        "decimal(65,30)",
				ValueFloat32:        "float",
				ValueFloat64:        "double",
				ValueDate:           "date",
				ValueTime:           "time(6)",
				ValueDateTime:       "datetime(6)",
				ValueDateTimeOffset: "datetime(6)",
				ValueUUID:           "char(36)",
				ValueJSON:           "json",
			},
		},
	}
}

// FindMappingByStoreType resolves a MySQL store type
func (s *MySQLSource) FindMappingByStoreType(storeType string) *TypeMapping {
	st, entry, ok := s.table.resolve(storeType)
	if !ok {
		return nil
	}

	m := s.table.mapping(st, entry)

	switch {
	case st.Base == "tinyint" && st.Size != nil && *st.Size == 1:
		// Special case for tinyint(1) which is boolean in MySQL
		m.ValueType = ValueBool
	case st.Base == "char" && st.Size != nil && *st.Size == 36:
		m.ValueType = ValueUUID
		m.IsUnicode = false
		m.Size = nil
	case st.Unsigned:
		m.ValueType = widenUnsigned(st.Base, m.ValueType)
	case st.Base == "bit" && st.Size != nil && *st.Size == 1:
		m.ValueType = ValueBool
	}

	return m
}

// widenUnsigned picks a value type that holds the unsigned range of base.
// bigint unsigned exceeds int64 and is carried as a decimal.
func widenUnsigned(base string, v ValueType) ValueType {
	switch {
	case base == "tinyint":
		return ValueByte
	case base == "bigint":
		return ValueDecimal
	case v == ValueInt16:
		return ValueInt32
	case v == ValueInt32:
		return ValueInt64
	default:
		return v
	}
}

// FindMapping returns the store type MySQL uses for a value type under hints
func (s *MySQLSource) FindMapping(valueType ValueType, hints MappingHints) *TypeMapping {
	switch valueType.Kind() {
	case KindText:
		m := &TypeMapping{ValueType: ValueString, IsUnicode: true}

		switch {
		case hints.Size != nil && *hints.Size <= mysqlMaxVarcharSize:
			m.StoreType = sized("varchar", *hints.Size)
			m.Size = IntPtr(*hints.Size)
		case hints.Size == nil && hints.KeyOrIndex:
			m.StoreType = sized("varchar", mysqlKeySize)
			m.Size = IntPtr(mysqlKeySize)
		default:
			m.StoreType = "longtext"
		}

		return m
	case KindBinary:
		m := &TypeMapping{ValueType: ValueBinary}

		switch {
		case hints.RowVersion:
			m.StoreType = sized("binary", mysqlRowVersionLength)
			m.Size = IntPtr(mysqlRowVersionLength)
		case hints.Size != nil && *hints.Size <= mysqlMaxVarbinarySize:
			m.StoreType = sized("varbinary", *hints.Size)
			m.Size = IntPtr(*hints.Size)
		case hints.Size == nil && hints.KeyOrIndex:
			m.StoreType = sized("varbinary", mysqlKeySize)
			m.Size = IntPtr(mysqlKeySize)
		default:
			m.StoreType = "longblob"
		}

		return m
	default:
		return s.table.defaultFor(valueType)
	}
}

// GetMapping returns the unconstrained default mapping for a value type
func (s *MySQLSource) GetMapping(valueType ValueType) (*TypeMapping, error) {
	return getMapping(s.FindMapping, valueType)
}
