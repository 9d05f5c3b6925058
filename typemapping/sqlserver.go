package typemapping

const (
	sqlServerMaxUnicodeSize   = 4000
	sqlServerMaxAnsiSize      = 8000
	sqlServerMaxBinarySize    = 8000
	sqlServerUnicodeKeySize   = 450
	sqlServerAnsiKeySize      = 900
	sqlServerBinaryKeySize    = 900
	sqlServerRowVersionLength = 8
)

// SQLServerSource maps Microsoft SQL Server store types
type SQLServerSource struct {
	table storeTypeTable
}

// NewSQLServerSource creates a new SQL Server mapping source
func NewSQLServerSource() *SQLServerSource {
	return &SQLServerSource{
		table: storeTypeTable{
			names: map[string]storeTypeEntry{
				// Text types
				"nvarchar":                   {ValueString, true},
				"national character varying": {ValueString, true},
				"national char varying":      {ValueString, true},
				"nchar":                      {ValueString, true},
				"national character":         {ValueString, true},
				"national char":              {ValueString, true},
				"ntext":                      {ValueString, true},
				"xml":                        {ValueString, true},
				"varchar":                    {ValueString, false},
				"char varying":               {ValueString, false},
				"character varying":          {ValueString, false},
				"char":                       {ValueString, false},
				"character":                  {ValueString, false},
				"text":                       {ValueString, false},

				// Binary types
				"varbinary":      {ValueBinary, false},
				"binary varying": {ValueBinary, false},
				"binary":         {ValueBinary, false},
				"image":          {ValueBinary, false},
				"rowversion":     {ValueBinary, false},
				"timestamp":      {ValueBinary, false},

				// Numeric types
				"bit":        {ValueBool, false},
				"tinyint":    {ValueByte, false},
				"smallint":   {ValueInt16, false},
				"int":        {ValueInt32, false},
				"integer":    {ValueInt32, false},
				"bigint":     {ValueInt64, false},
				"decimal":    {ValueDecimal, false},
				"dec":        {ValueDecimal, false},
				"numeric":    {ValueDecimal, false},
				"money":      {ValueDecimal, false},
				"smallmoney": {ValueDecimal, false},
				"real":       {ValueFloat32, false},
				"float":      {ValueFloat64, false},

				// Date/Time types
				"date":           {ValueDate, false},
				"time":           {ValueTime, false},
				"datetime":       {ValueDateTime, false},
				"datetime2":      {ValueDateTime, false},
				"smalldatetime":  {ValueDateTime, false},
				"datetimeoffset": {ValueDateTimeOffset, false},

				"uniqueidentifier": {ValueUUID, false},
			},
			defaults: map[ValueType]string{
				ValueBool:           "bit",
				ValueByte:           "tinyint",
				ValueInt16:          "smallint",
				ValueInt32:          "int",
				ValueInt64:          "bigint",
				ValueDecimal:        "decimal(18,2)",
				ValueFloat32:        "real",
				ValueFloat64:        "float",
				ValueDate:           "date",
				ValueTime:           "time",
				ValueDateTime:       "datetime2",
				ValueDateTimeOffset: "datetimeoffset",
				ValueUUID:           "uniqueidentifier",
			},
		},
	}
}

// FindMappingByStoreType resolves a SQL Server store type
func (s *SQLServerSource) FindMappingByStoreType(storeType string) *TypeMapping {
	st, entry, ok := s.table.resolve(storeType)
	if !ok {
		return nil
	}

	m := s.table.mapping(st, entry)

	switch st.Base {
	case "rowversion", "timestamp":
		m.Size = IntPtr(sqlServerRowVersionLength)
	case "float":
		// float(1) through float(24) is stored as real
		if st.Size != nil && *st.Size <= 24 {
			m.ValueType = ValueFloat32
		}
	}

	return m
}

// FindMapping returns the store type SQL Server uses for a value type under hints
func (s *SQLServerSource) FindMapping(valueType ValueType, hints MappingHints) *TypeMapping {
	switch valueType.Kind() {
	case KindText:
		return s.findStringMapping(hints)
	case KindBinary:
		return s.findBinaryMapping(hints)
	default:
		return s.table.defaultFor(valueType)
	}
}

// GetMapping returns the unconstrained default mapping for a value type
func (s *SQLServerSource) GetMapping(valueType ValueType) (*TypeMapping, error) {
	return getMapping(s.FindMapping, valueType)
}

func (s *SQLServerSource) findStringMapping(hints MappingHints) *TypeMapping {
	unicode := unicodeRequested(hints)

	name, maxSize, keySize := "varchar", sqlServerMaxAnsiSize, sqlServerAnsiKeySize
	if unicode {
		name, maxSize, keySize = "nvarchar", sqlServerMaxUnicodeSize, sqlServerUnicodeKeySize
	}

	m := &TypeMapping{ValueType: ValueString, IsUnicode: unicode}

	switch {
	case hints.Size != nil && *hints.Size <= maxSize:
		m.StoreType = sized(name, *hints.Size)
		m.Size = IntPtr(*hints.Size)
	case hints.Size == nil && hints.KeyOrIndex:
		m.StoreType = sized(name, keySize)
		m.Size = IntPtr(keySize)
	default:
		m.StoreType = name + "(max)"
	}

	return m
}

func (s *SQLServerSource) findBinaryMapping(hints MappingHints) *TypeMapping {
	m := &TypeMapping{ValueType: ValueBinary}

	switch {
	case hints.RowVersion:
		m.StoreType = "rowversion"
		m.Size = IntPtr(sqlServerRowVersionLength)
	case hints.Size != nil && *hints.Size <= sqlServerMaxBinarySize:
		m.StoreType = sized("varbinary", *hints.Size)
		m.Size = IntPtr(*hints.Size)
	case hints.Size == nil && hints.KeyOrIndex:
		m.StoreType = sized("varbinary", sqlServerBinaryKeySize)
		m.Size = IntPtr(sqlServerBinaryKeySize)
	default:
		m.StoreType = "varbinary(max)"
	}

	return m
}
