package pull

import "errors"

// Connection errors
var (
	ErrConnectionFailed    = errors.New("failed to connect to database")
	ErrInvalidDatabaseURL  = errors.New("invalid database URL")
	ErrUnsupportedDatabase = errors.New("unsupported database type")
	ErrPermissionDenied    = errors.New("permission denied")
)

// Schema extraction errors
var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrTableNotFound  = errors.New("table not found")
)

// Configuration errors
var (
	ErrEmptyDatabaseURL         = errors.New("database URL cannot be empty")
	ErrEmptyDatabaseType        = errors.New("database type cannot be empty")
	ErrInvalidConnectionInfo    = errors.New("invalid connection info")
	ErrDialectMismatch          = errors.New("database URL does not match the configured dialect")
	ErrConflictingSchemaFilters = errors.New("conflicting schema filters: same schema in both include and exclude lists")
	ErrConflictingTableFilters  = errors.New("conflicting table filters: same table in both include and exclude lists")
)

// Query execution errors
var (
	ErrQueryExecutionFailed = errors.New("query execution failed")
	ErrResultScanFailed     = errors.New("result scan failed")
)
