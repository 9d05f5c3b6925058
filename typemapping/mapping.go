package typemapping

// TypeMapping associates a store type with a value type and its facets.
// Values returned by a Source must not be modified.
type TypeMapping struct {
	ValueType ValueType
	StoreType string
	IsUnicode bool
	Size      *int
}

// MappingHints narrows FindMapping to a column context and explicit facets.
type MappingHints struct {
	KeyOrIndex bool
	RowVersion bool
	// Unicode requests a unicode (true) or ANSI (false) text store type; nil means the default.
	Unicode *bool
	// Size requests an explicit length; nil lets the source choose its natural size.
	Size *int
}

// Source looks up type mappings for one database dialect.
// Implementations must be safe for concurrent reads.
type Source interface {
	// FindMappingByStoreType resolves a provider store type, returning nil when it is not mapped.
	FindMappingByStoreType(storeType string) *TypeMapping
	// FindMapping returns the mapping the source would choose for a value type under hints.
	FindMapping(valueType ValueType, hints MappingHints) *TypeMapping
	// GetMapping returns the unconstrained default mapping, or ErrNoDefaultMapping.
	GetMapping(valueType ValueType) (*TypeMapping, error)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

// SameSize compares two optional sizes.
func SameSize(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
