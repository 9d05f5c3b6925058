package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/shibukawa/typescaffold"
	"github.com/shibukawa/typescaffold/scaffolding"
	"github.com/shibukawa/typescaffold/typemapping"
)

// OutputOptions are shared by the commands that write a scaffold model.
type OutputOptions struct {
	Output     string `short:"o" help:"Output directory; defaults to scaffold.output" type:"path"`
	SingleFile bool   `help:"Write the whole model to a single model.yaml"`
	Stdout     bool   `help:"Print the model to standard output instead of writing files"`
}

// buildModel classifies every column of schemas with the dialect's mapping source.
func buildModel(ctx context.Context, appCtx *Context, config *typescaffold.Config, dialect typescaffold.Dialect, schemas []typescaffold.DatabaseSchema) (*scaffolding.Model, error) {
	source, err := typemapping.NewSource(dialect)
	if err != nil {
		return nil, err
	}

	deps := scaffolding.NewDependencies(source).WithLogger(verboseLogger(appCtx, "scaffold: "))

	builder, err := scaffolding.NewModelBuilder(deps, scaffolding.BuildOptions{
		RowVersionColumns: config.Scaffold.RowVersionColumns,
		Tables:            config.Scaffold.TablePatterns,
	})
	if err != nil {
		return nil, err
	}

	model, err := builder.Build(ctx, schemas)
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}

	if model.Dialect == "" {
		model.Dialect = string(dialect)
	}

	return model, nil
}

// writeModel writes model according to the command line and configuration settings.
func writeModel(appCtx *Context, config *typescaffold.Config, model *scaffolding.Model, opts OutputOptions) error {
	writer := scaffolding.NewWriter(config.Scaffold.IsSchemaAware(), opts.SingleFile || config.Scaffold.SingleFile)

	if opts.Stdout {
		return writer.Encode(os.Stdout, model)
	}

	output := opts.Output
	if output == "" {
		output = resolveConfigRelative(appCtx.Config, config.Scaffold.Output)
	}

	files, err := writer.Write(model, output)
	if err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}

	if !appCtx.Quiet {
		displayModel(model, output, files, appCtx.Verbose)
	}

	return nil
}

func displayModel(model *scaffolding.Model, output string, files []string, verbose bool) {
	color.Green("✓ Scaffolded %d entities", len(model.Entities))
	color.Green("  Output: %s", output)

	if verbose {
		for _, file := range files {
			color.Cyan("  %s", file)
		}
	}

	for _, warning := range model.Warnings {
		color.Yellow("  Warning: %s", warning)
	}
}

// verboseLogger returns a colored logger when verbose output is on, otherwise nil.
func verboseLogger(appCtx *Context, prefix string) func(format string, args ...any) {
	if !appCtx.Verbose {
		return nil
	}

	return func(format string, args ...any) {
		color.Cyan(prefix+format, args...)
	}
}

func resolveConfigBaseDir(configPath string) string {
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "."
		}

		return cwd
	}

	if !filepath.IsAbs(configPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return "."
		}

		return filepath.Dir(filepath.Join(cwd, configPath))
	}

	return filepath.Dir(configPath)
}

// resolveConfigRelative resolves a path taken from the configuration file against its directory.
func resolveConfigRelative(configPath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(resolveConfigBaseDir(configPath), path)
}
