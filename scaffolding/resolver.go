package scaffolding

import (
	"strings"

	"github.com/shibukawa/typescaffold/typemapping"
)

// Resolver decides whether a column's store type is the one a type mapping
// source would pick by default, and which facets must be kept when it is.
//
// A Resolver holds no state besides its source and may be shared between goroutines.
type Resolver struct {
	source typemapping.Source
}

// NewResolver creates a resolver backed by source.
func NewResolver(source typemapping.Source) (*Resolver, error) {
	if source == nil {
		return nil, ErrNilTypeMappingSource
	}

	return &Resolver{source: source}, nil
}

// Classify resolves storeType and compares it against the source's defaults.
//
// It returns nil without error when the source cannot map storeType. Errors
// from the source's default lookup are returned unchanged.
func (r *Resolver) Classify(storeType string, isKeyOrIndex, isRowVersion bool) (*TypeScaffoldingInfo, error) {
	if r == nil || r.source == nil {
		return nil, ErrNilTypeMappingSource
	}

	mapping := r.source.FindMappingByStoreType(storeType)
	if mapping == nil {
		return nil, nil
	}

	info := &TypeScaffoldingInfo{ValueType: mapping.ValueType}

	switch mapping.ValueType.Kind() {
	case typemapping.KindBinary:
		r.classifyBinary(info, mapping, storeType, isKeyOrIndex, isRowVersion)
	case typemapping.KindText:
		r.classifyText(info, mapping, storeType, isKeyOrIndex, isRowVersion)
	default:
		defaultMapping, err := r.source.GetMapping(mapping.ValueType)
		if err != nil {
			return nil, err
		}

		info.IsInferred = sameStoreType(defaultMapping, storeType)
	}

	return info, nil
}

func (r *Resolver) classifyBinary(info *TypeScaffoldingInfo, mapping *typemapping.TypeMapping, storeType string, isKeyOrIndex, isRowVersion bool) {
	hints := typemapping.MappingHints{
		KeyOrIndex: isKeyOrIndex,
		RowVersion: isRowVersion,
		Size:       mapping.Size,
	}

	byteArrayMapping := r.source.FindMapping(typemapping.ValueBinary, hints)
	if !sameStoreType(byteArrayMapping, storeType) {
		return
	}

	info.IsInferred = true

	hints.Size = nil
	if sized := r.source.FindMapping(typemapping.ValueBinary, hints); sized != nil && !typemapping.SameSize(sized.Size, byteArrayMapping.Size) {
		info.ScaffoldMaxLength = copySize(byteArrayMapping.Size)
	}
}

func (r *Resolver) classifyText(info *TypeScaffoldingInfo, mapping *typemapping.TypeMapping, storeType string, isKeyOrIndex, isRowVersion bool) {
	hints := typemapping.MappingHints{
		KeyOrIndex: isKeyOrIndex,
		RowVersion: isRowVersion,
		Unicode:    typemapping.BoolPtr(mapping.IsUnicode),
		Size:       mapping.Size,
	}

	stringMapping := r.source.FindMapping(typemapping.ValueString, hints)
	if !sameStoreType(stringMapping, storeType) {
		return
	}

	info.IsInferred = true

	hints.Unicode = typemapping.BoolPtr(true)
	hints.Size = stringMapping.Size
	if unicodeMapping := r.source.FindMapping(typemapping.ValueString, hints); unicodeMapping != nil && unicodeMapping.IsUnicode != stringMapping.IsUnicode {
		info.ScaffoldUnicode = typemapping.BoolPtr(stringMapping.IsUnicode)
	}

	hints.Unicode = typemapping.BoolPtr(stringMapping.IsUnicode)
	hints.Size = nil
	if sized := r.source.FindMapping(typemapping.ValueString, hints); sized != nil && !typemapping.SameSize(sized.Size, stringMapping.Size) {
		info.ScaffoldMaxLength = copySize(stringMapping.Size)
	}
}

// sameStoreType compares store type spellings ordinally, ignoring case.
// A nil mapping never matches.
func sameStoreType(m *typemapping.TypeMapping, storeType string) bool {
	return m != nil && strings.EqualFold(m.StoreType, storeType)
}

func copySize(size *int) *int {
	if size == nil {
		return nil
	}

	return typemapping.IntPtr(*size)
}
