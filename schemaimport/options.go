package schemaimport

// Options describes the inputs required to construct a Config instance.
type Options struct {
	// WorkingDir is the base directory used to resolve relative paths.
	WorkingDir string
	// TblsConfigPath is the path to .tbls.yml / tbls.yml resolved from CLI or defaults.
	TblsConfigPath string
	// SchemaJSONPath is the path to the tbls-generated schema.json file.
	// When set, a missing tbls config is not an error.
	SchemaJSONPath string
	// Include patterns applied to table names after loading tbls JSON.
	Include []string
	// Exclude patterns applied to table names after loading tbls JSON.
	Exclude []string
	// Verbose toggles detailed logging.
	Verbose bool
	// Logger, when non-nil, is used for verbose logging.
	Logger func(format string, args ...any)
}
