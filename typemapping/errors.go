package typemapping

import "errors"

var (
	// ErrNoDefaultMapping indicates the source declares no default store type for a value type.
	ErrNoDefaultMapping = errors.New("typemapping: no default mapping for value type")
	// ErrUnknownValueType indicates a value type name could not be parsed.
	ErrUnknownValueType = errors.New("typemapping: unknown value type")
	// ErrMalformedStoreType indicates a store type string could not be parsed.
	ErrMalformedStoreType = errors.New("typemapping: malformed store type")
	// ErrUnsupportedDialect indicates no mapping source exists for the dialect.
	ErrUnsupportedDialect = errors.New("typemapping: unsupported dialect")
)
