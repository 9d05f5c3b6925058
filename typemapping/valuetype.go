package typemapping

import (
	"fmt"
	"strings"
)

// ValueType is the in-memory type a column is materialized into.
type ValueType int

const (
	ValueUnknown ValueType = iota
	ValueString
	ValueBinary
	ValueBool
	ValueByte
	ValueInt16
	ValueInt32
	ValueInt64
	ValueDecimal
	ValueFloat32
	ValueFloat64
	ValueDate
	ValueTime
	ValueDateTime
	ValueDateTimeOffset
	ValueUUID
	ValueJSON
)

// Kind groups value types by the facets they carry.
type Kind int

const (
	// KindOther types have no optional facets.
	KindOther Kind = iota
	// KindText types carry unicode and max length facets.
	KindText
	// KindBinary types carry a max length facet.
	KindBinary
)

var valueTypeNames = map[ValueType]string{
	ValueUnknown:        "unknown",
	ValueString:         "string",
	ValueBinary:         "binary",
	ValueBool:           "bool",
	ValueByte:           "byte",
	ValueInt16:          "int16",
	ValueInt32:          "int32",
	ValueInt64:          "int64",
	ValueDecimal:        "decimal",
	ValueFloat32:        "float32",
	ValueFloat64:        "float64",
	ValueDate:           "date",
	ValueTime:           "time",
	ValueDateTime:       "datetime",
	ValueDateTimeOffset: "datetimeoffset",
	ValueUUID:           "uuid",
	ValueJSON:           "json",
}

var goTypes = map[ValueType]string{
	ValueString:         "string",
	ValueBinary:         "[]byte",
	ValueBool:           "bool",
	ValueByte:           "uint8",
	ValueInt16:          "int16",
	ValueInt32:          "int32",
	ValueInt64:          "int64",
	ValueDecimal:        "string",
	ValueFloat32:        "float32",
	ValueFloat64:        "float64",
	ValueDate:           "time.Time",
	ValueTime:           "time.Time",
	ValueDateTime:       "time.Time",
	ValueDateTimeOffset: "time.Time",
	ValueUUID:           "string",
	ValueJSON:           "json.RawMessage",
}

func (v ValueType) String() string {
	if name, ok := valueTypeNames[v]; ok {
		return name
	}

	return fmt.Sprintf("ValueType(%d)", int(v))
}

// Kind returns the facet group of the value type.
func (v ValueType) Kind() Kind {
	switch v {
	case ValueString:
		return KindText
	case ValueBinary:
		return KindBinary
	default:
		return KindOther
	}
}

// GoType returns the Go type generated code uses for the value type.
func (v ValueType) GoType() string {
	return goTypes[v]
}

// ParseValueType is the inverse of ValueType.String.
func ParseValueType(name string) (ValueType, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for v, n := range valueTypeNames {
		if n == lower && v != ValueUnknown {
			return v, nil
		}
	}

	return ValueUnknown, fmt.Errorf("%w: %q", ErrUnknownValueType, name)
}
