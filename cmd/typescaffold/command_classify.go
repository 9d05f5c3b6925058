package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/typescaffold"
	"github.com/shibukawa/typescaffold/scaffolding"
	"github.com/shibukawa/typescaffold/typemapping"
)

// ClassifyCmd represents the classify command
type ClassifyCmd struct {
	Dialect    string   `help:"Database dialect (postgres, mysql, sqlite, sqlserver); defaults to the configured dialect"`
	Key        bool     `help:"Classify as a key or indexed column"`
	RowVersion bool     `help:"Classify as a row version column"`
	Format     string   `help:"Output format (text, json, csv, yaml)" enum:"text,json,csv,yaml" default:"text"`
	StoreTypes []string `arg:"" name:"store-type" help:"Store types to classify, e.g. nvarchar(50)"`
}

// classification is the outcome for one store type. Info is nil when the type is unmapped.
type classification struct {
	StoreType string
	Info      *scaffolding.TypeScaffoldingInfo
}

func (c *ClassifyCmd) Run(ctx *Context) error {
	config, err := typescaffold.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dialect, err := c.resolveDialect(config)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Classifying %d store type(s) for %s", len(c.StoreTypes), dialect)
	}

	results, err := c.classify(dialect)
	if err != nil {
		return err
	}

	if format := OutputFormat(c.Format); format != FormatText && format != "" {
		return formatClassifications(os.Stdout, format, results)
	}

	if !ctx.Quiet {
		for _, r := range results {
			printClassification(r)
		}
	}

	return nil
}

func (c *ClassifyCmd) resolveDialect(config *typescaffold.Config) (typescaffold.Dialect, error) {
	name := c.Dialect
	if name == "" {
		name = config.Dialect
	}

	return typescaffold.ParseDialect(name)
}

func (c *ClassifyCmd) classify(dialect typescaffold.Dialect) ([]classification, error) {
	if len(c.StoreTypes) == 0 {
		return nil, ErrNoStoreTypes
	}

	source, err := typemapping.NewSource(dialect)
	if err != nil {
		return nil, err
	}

	resolver, err := scaffolding.NewResolver(source)
	if err != nil {
		return nil, err
	}

	results := make([]classification, 0, len(c.StoreTypes))

	for _, storeType := range c.StoreTypes {
		info, err := resolver.Classify(storeType, c.Key, c.RowVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to classify %q: %w", storeType, err)
		}

		results = append(results, classification{StoreType: storeType, Info: info})
	}

	return results, nil
}

func printClassification(r classification) {
	if r.Info == nil {
		color.Yellow("%s: unmapped", r.StoreType)
		return
	}

	color.Green("%s: %s", r.StoreType, describeInfo(r.Info))
}

func describeInfo(info *scaffolding.TypeScaffoldingInfo) string {
	parts := []string{info.ValueType.String()}

	if info.IsInferred {
		parts = append(parts, "inferred")
	} else {
		parts = append(parts, "explicit store type")
	}

	if info.ScaffoldUnicode != nil {
		parts = append(parts, fmt.Sprintf("unicode=%t", *info.ScaffoldUnicode))
	}

	if info.ScaffoldMaxLength != nil {
		parts = append(parts, fmt.Sprintf("max_length=%d", *info.ScaffoldMaxLength))
	}

	return strings.Join(parts, ", ")
}
