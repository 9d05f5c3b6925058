package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/shibukawa/typescaffold"
	"github.com/shibukawa/typescaffold/pull"
)

// PullCmd represents the pull command
type PullCmd struct {
	// Database connection options
	DB  string `help:"Database connection URL (postgres://, mysql://, sqlite://, sqlserver://)"`
	Env string `help:"Environment name from configuration"`

	// Filtering options
	IncludeSchemas []string `help:"Schema patterns to include (can be specified multiple times)"`
	ExcludeSchemas []string `help:"Schema patterns to exclude (can be specified multiple times)"`
	IncludeTables  []string `help:"Table patterns to include (can be specified multiple times)"`
	ExcludeTables  []string `help:"Table patterns to exclude (can be specified multiple times)"`

	OutputOptions `embed:""`
}

func (p *PullCmd) Run(ctx *Context) error {
	config, err := typescaffold.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbURL, dialect, err := p.resolveDatabaseConnection(config)
	if err != nil {
		return fmt.Errorf("failed to resolve database connection: %w", err)
	}

	if ctx.Verbose {
		color.Blue("Pulling %s schema", dialect)
	}

	background := context.Background()

	result, err := pull.ExecutePull(background, p.createPullConfig(ctx, config, dbURL, dialect))
	if err != nil {
		return fmt.Errorf("failed to pull schema: %w", err)
	}

	if !ctx.Quiet {
		color.Green("✓ Extracted %d schema(s) with %d table(s)", len(result.Schemas), result.TableCount())
	}

	model, err := buildModel(background, ctx, config, dialect, result.Schemas)
	if err != nil {
		return err
	}

	return writeModel(ctx, config, model, p.OutputOptions)
}

// resolveDatabaseConnection determines the database URL and dialect.
// The command line URL wins over a configured environment.
func (p *PullCmd) resolveDatabaseConnection(config *typescaffold.Config) (string, typescaffold.Dialect, error) {
	connector := pull.NewDatabaseConnector()

	switch {
	case p.DB != "":
		dialect, err := connector.ParseDatabaseURL(p.DB)
		if err != nil {
			return "", "", err
		}

		return p.DB, dialect, nil
	case p.Env != "":
		env, err := config.Environment(p.Env)
		if err != nil {
			return "", "", err
		}

		if env.Connection == "" {
			return "", "", ErrEmptyConnectionString
		}

		if env.Driver != "" {
			dialect, err := typescaffold.ParseDialect(env.Driver)
			if err != nil {
				return "", "", err
			}

			return env.Connection, dialect, nil
		}

		dialect, err := connector.ParseDatabaseURL(env.Connection)
		if err != nil {
			return "", "", err
		}

		return env.Connection, dialect, nil
	default:
		return "", "", ErrMissingDBOrEnv
	}
}

// createPullConfig creates a pull configuration from command line options.
// A configured environment schema narrows extraction when no schema filter is given.
func (p *PullCmd) createPullConfig(ctx *Context, config *typescaffold.Config, dbURL string, dialect typescaffold.Dialect) pull.PullConfig {
	includeSchemas := p.IncludeSchemas
	if len(includeSchemas) == 0 && p.DB == "" && p.Env != "" {
		if env, err := config.Environment(p.Env); err == nil && env.Schema != "" {
			includeSchemas = []string{env.Schema}
		}
	}

	return pull.PullConfig{
		DatabaseURL: dbURL,
		Dialect:     dialect,
		Extract: pull.ExtractConfig{
			IncludeSchemas: includeSchemas,
			ExcludeSchemas: p.ExcludeSchemas,
			IncludeTables:  p.IncludeTables,
			ExcludeTables:  p.ExcludeTables,
		},
		Logger: verboseLogger(ctx, "pull: "),
	}
}
