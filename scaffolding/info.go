package scaffolding

import "github.com/shibukawa/typescaffold/typemapping"

// TypeScaffoldingInfo describes how a column's store type relates to the
// default mapping of its value type.
//
// ScaffoldUnicode and ScaffoldMaxLength are only set when the store type was
// inferred and the facet differs from what the source would pick without it.
type TypeScaffoldingInfo struct {
	ValueType         typemapping.ValueType
	IsInferred        bool
	ScaffoldUnicode   *bool
	ScaffoldMaxLength *int
}

// NeedsStoreTypeAnnotation reports whether generated code must spell out the store type.
func (i TypeScaffoldingInfo) NeedsStoreTypeAnnotation() bool {
	return !i.IsInferred
}
