package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Version is the CLI version reported by the version command.
const Version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path" default:"typescaffold.yaml"`
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress output" short:"q"`
	Classify ClassifyCmd `cmd:"" help:"Classify store types against a dialect's default mappings"`
	Pull     PullCmd     `cmd:"" help:"Scaffold a model from a live database"`
	Import   ImportCmd   `cmd:"" help:"Scaffold a model from a tbls schema.json"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("typescaffold " + Version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("typescaffold"),
		kong.Description("Database-first scaffolding of column store types"),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
