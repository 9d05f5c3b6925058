package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/shibukawa/typescaffold"
	"github.com/shibukawa/typescaffold/schemaimport"
)

// ImportCmd represents the import command
type ImportCmd struct {
	TblsConfig string   `help:"Path to the tbls configuration file; defaults to import.tbls_config or .tbls.yml discovery" type:"path"`
	SchemaJSON string   `help:"Path to the tbls schema.json; defaults to import.schema_json or the tbls docPath" type:"path"`
	Include    []string `help:"Table patterns to include (can be specified multiple times)"`
	Exclude    []string `help:"Table patterns to exclude (can be specified multiple times)"`

	OutputOptions `embed:""`
}

func (c *ImportCmd) Run(ctx *Context) error {
	config, err := typescaffold.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	background := context.Background()

	runtime, err := schemaimport.LoadRuntime(background, c.importOptions(ctx, config))
	if err != nil {
		return fmt.Errorf("failed to import tbls schema: %w", err)
	}

	if !ctx.Quiet {
		color.Green("✓ Imported %d table(s) from %s", runtime.TableCount(), runtime.Config.SchemaJSONPath)
	}

	model, err := buildModel(background, ctx, config, runtime.Dialect, runtime.Schemas)
	if err != nil {
		return err
	}

	return writeModel(ctx, config, model, c.OutputOptions)
}

// importOptions merges command line flags with the import section of the configuration.
// Paths from the configuration file are relative to its directory.
func (c *ImportCmd) importOptions(ctx *Context, config *typescaffold.Config) schemaimport.Options {
	opts := schemaimport.Options{
		WorkingDir:     resolveConfigBaseDir(ctx.Config),
		TblsConfigPath: c.TblsConfig,
		SchemaJSONPath: c.SchemaJSON,
		Include:        c.Include,
		Exclude:        c.Exclude,
		Verbose:        ctx.Verbose,
		Logger:         verboseLogger(ctx, "import: "),
	}

	if opts.TblsConfigPath == "" {
		opts.TblsConfigPath = resolveConfigRelative(ctx.Config, config.Import.TblsConfig)
	}

	if opts.SchemaJSONPath == "" {
		opts.SchemaJSONPath = resolveConfigRelative(ctx.Config, config.Import.SchemaJSON)
	}

	return opts
}
