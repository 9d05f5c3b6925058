package pull

import (
	"context"
	"fmt"
	"time"

	"github.com/shibukawa/typescaffold"
)

// PullConfig contains configuration for the pull operation
type PullConfig struct {
	DatabaseURL string
	// Dialect, when set, must match the database URL scheme
	Dialect typescaffold.Dialect
	Extract ExtractConfig
	// Logger, when non-nil, receives progress messages
	Logger func(format string, args ...any)
}

// PullResult contains the result of a pull operation
type PullResult struct {
	Schemas      []typescaffold.DatabaseSchema
	ExtractedAt  time.Time
	DatabaseInfo typescaffold.DatabaseInfo
}

// TableCount returns the number of tables across all schemas
func (r *PullResult) TableCount() int {
	count := 0
	for _, schema := range r.Schemas {
		count += len(schema.Tables)
	}

	return count
}

// PullOperation represents a complete pull operation
type PullOperation struct {
	Config    PullConfig
	connector *DatabaseConnector
}

// NewPullOperation creates a new pull operation
func NewPullOperation(config PullConfig) *PullOperation {
	return &PullOperation{
		Config:    config,
		connector: NewDatabaseConnector(),
	}
}

// ValidateConfig validates the pull configuration
func (p *PullOperation) ValidateConfig() error {
	if p.Config.DatabaseURL == "" {
		return ErrEmptyDatabaseURL
	}

	if err := p.connector.ValidateConnectionString(p.Config.DatabaseURL); err != nil {
		return err
	}

	if p.Config.Dialect != "" {
		dialect, _ := p.connector.ParseDatabaseURL(p.Config.DatabaseURL)
		if dialect != p.Config.Dialect {
			return fmt.Errorf("%w: url is %s, configured %s", ErrDialectMismatch, dialect, p.Config.Dialect)
		}
	}

	return ValidateExtractConfig(p.Config.Extract)
}

// Execute connects, verifies the connection and extracts the schemas
func (p *PullOperation) Execute(ctx context.Context) (*PullResult, error) {
	if err := p.ValidateConfig(); err != nil {
		return nil, err
	}

	db, dialect, err := p.connector.Connect(p.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer p.connector.Close(db)

	if err := p.connector.Ping(ctx, db); err != nil {
		return nil, err
	}

	p.logf("Connected to %s database", dialect)

	extractor, err := NewExtractor(dialect)
	if err != nil {
		return nil, err
	}

	schemas, err := extractor.ExtractSchemas(ctx, db, p.Config.Extract)
	if err != nil {
		return nil, err
	}

	result := p.CreateResult(schemas)
	p.logf("Extracted %d schema(s) with %d table(s)", len(result.Schemas), result.TableCount())

	return result, nil
}

// CreateResult creates a pull result from schemas
func (p *PullOperation) CreateResult(schemas []typescaffold.DatabaseSchema) *PullResult {
	var dbInfo typescaffold.DatabaseInfo
	if len(schemas) > 0 {
		dbInfo = schemas[0].DatabaseInfo
	}

	return &PullResult{
		Schemas:      schemas,
		ExtractedAt:  time.Now(),
		DatabaseInfo: dbInfo,
	}
}

func (p *PullOperation) logf(format string, args ...any) {
	if p.Config.Logger == nil {
		return
	}

	p.Config.Logger(format, args...)
}

// ExecutePull is a convenience function that performs a complete pull operation
func ExecutePull(ctx context.Context, config PullConfig) (*PullResult, error) {
	return NewPullOperation(config).Execute(ctx)
}
