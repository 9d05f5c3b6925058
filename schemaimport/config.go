package schemaimport

import (
	"fmt"

	tblsconfig "github.com/k1LoW/tbls/config"
	"github.com/shibukawa/typescaffold"
)

// Config contains the fully resolved settings for running the schema import pipeline.
type Config struct {
	WorkingDir     string
	TblsConfigPath string
	DocPath        string
	SchemaJSONPath string
	Tables         typescaffold.TablePatterns
	Verbose        bool

	logger func(format string, args ...any)

	// TblsConfig is nil when the schema JSON path was given without a tbls config.
	TblsConfig *tblsconfig.Config
}

// NewConfig creates a Config from Options, copying slices.
func NewConfig(opts Options) Config {
	return Config{
		WorkingDir:     opts.WorkingDir,
		TblsConfigPath: opts.TblsConfigPath,
		SchemaJSONPath: opts.SchemaJSONPath,
		Tables: typescaffold.TablePatterns{
			Include: append([]string(nil), opts.Include...),
			Exclude: append([]string(nil), opts.Exclude...),
		},
		Verbose: opts.Verbose,
		logger:  opts.Logger,
	}
}

// DSN returns the resolved database connection string from the tbls configuration.
func (c Config) DSN() string {
	if c.TblsConfig == nil {
		return ""
	}

	return c.TblsConfig.DSN.URL
}

func (c Config) logf(format string, args ...any) {
	if !c.Verbose || c.logger == nil {
		return
	}

	c.logger("%s", fmt.Sprintf(format, args...))
}
