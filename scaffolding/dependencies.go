package scaffolding

import "github.com/shibukawa/typescaffold/typemapping"

// Logger receives printf-style diagnostic messages.
type Logger func(format string, args ...any)

// Dependencies carries the services the model builder relies on.
// Values are never modified in place; the With methods return copies.
type Dependencies struct {
	TypeMappingSource typemapping.Source
	FieldNamer        FieldNamer
	Logger            Logger
}

// NewDependencies creates dependencies around source with the default field
// namer and a logger that discards everything.
func NewDependencies(source typemapping.Source) Dependencies {
	return Dependencies{
		TypeMappingSource: source,
		FieldNamer:        DefaultFieldNamer(),
		Logger:            discardLogger,
	}
}

// WithTypeMappingSource returns a copy using source.
func (d Dependencies) WithTypeMappingSource(source typemapping.Source) Dependencies {
	d.TypeMappingSource = source
	return d
}

// WithFieldNamer returns a copy using namer.
func (d Dependencies) WithFieldNamer(namer FieldNamer) Dependencies {
	d.FieldNamer = namer
	return d
}

// WithLogger returns a copy using logger.
func (d Dependencies) WithLogger(logger Logger) Dependencies {
	d.Logger = logger
	return d
}

// withDefaults fills unset collaborators. The type mapping source has no default.
func (d Dependencies) withDefaults() Dependencies {
	if d.FieldNamer == nil {
		d.FieldNamer = DefaultFieldNamer()
	}

	if d.Logger == nil {
		d.Logger = discardLogger
	}

	return d
}

func discardLogger(string, ...any) {}
