package scaffolding

import "errors"

var (
	// ErrNilTypeMappingSource indicates the resolver has no type mapping source to consult.
	ErrNilTypeMappingSource = errors.New("scaffolding: type mapping source is nil")
	// ErrNilModel indicates the writer was given no model.
	ErrNilModel = errors.New("scaffolding: model is nil")
	// ErrOutputPathMissing indicates the writer has no output directory configured.
	ErrOutputPathMissing = errors.New("scaffolding: output path is not configured")
	// ErrDirectoryCreateFailed indicates an output directory could not be created.
	ErrDirectoryCreateFailed = errors.New("scaffolding: failed to create directory")
	// ErrFileWriteFailed indicates a model file could not be written.
	ErrFileWriteFailed = errors.New("scaffolding: failed to write file")
)
