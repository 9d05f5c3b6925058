package typescaffold

import "errors"

// Common errors used throughout the typescaffold package
var (
	// ErrDialectMustBeSpecified indicates a dialect is required but missing.
	ErrDialectMustBeSpecified = errors.New("dialect must be specified (postgres, mysql, sqlite, sqlserver)")
	// ErrUnsupportedDialect indicates the dialect name is not recognised.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	// ErrEnvironmentNotFound indicates the named database environment is not configured.
	ErrEnvironmentNotFound = errors.New("database environment not found")
)
