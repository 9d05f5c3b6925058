package main

import "errors"

// Sentinel errors
var (
	ErrMissingDBOrEnv        = errors.New("either --db or --env must be specified")
	ErrEmptyConnectionString = errors.New("database connection string is empty")
	ErrNoStoreTypes          = errors.New("at least one store type is required")
	ErrInvalidOutputFormat   = errors.New("invalid output format")
)
