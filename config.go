package typescaffold

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Config represents the typescaffold configuration
type Config struct {
	Dialect   string              `yaml:"dialect"`
	Databases map[string]Database `yaml:"databases"`
	Scaffold  ScaffoldConfig      `yaml:"scaffold"`
	Import    ImportConfig        `yaml:"import"`
}

// Database represents database connection configuration
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
	Schema     string `yaml:"schema"`
	Database   string `yaml:"database"`
}

// ScaffoldConfig represents scaffold model generation settings
type ScaffoldConfig struct {
	Output            string        `yaml:"output"`
	SchemaAware       *bool         `yaml:"schema_aware"` // Pointer to distinguish between unset and false
	SingleFile        bool          `yaml:"single_file"`
	RowVersionColumns []string      `yaml:"row_version_columns"`
	TablePatterns     TablePatterns `yaml:"table_patterns"`
}

// IsSchemaAware returns true unless schema_aware: false is set
func (s *ScaffoldConfig) IsSchemaAware() bool {
	return s.SchemaAware == nil || *s.SchemaAware
}

// TablePatterns represents table inclusion/exclusion patterns
type TablePatterns struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// ImportConfig represents tbls schema.json import settings
type ImportConfig struct {
	TblsConfig string `yaml:"tbls_config"`
	SchemaJSON string `yaml:"schema_json"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration, validates it and applies defaults.
// Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Dialect != "" {
		if _, err := ParseDialect(config.Dialect); err != nil {
			return fmt.Errorf("%w: invalid dialect '%s': must be one of postgres, mysql, sqlite, sqlserver", ErrConfigValidation, config.Dialect)
		}
	}

	for name, db := range config.Databases {
		if db.Connection == "" {
			return fmt.Errorf("%w: databases.%s: connection is required", ErrConfigValidation, name)
		}

		if db.Driver != "" {
			if _, err := ParseDialect(db.Driver); err != nil {
				return fmt.Errorf("%w: databases.%s: unsupported driver '%s'", ErrConfigValidation, name, db.Driver)
			}
		}
	}

	for _, column := range config.Scaffold.RowVersionColumns {
		if column == "" {
			return fmt.Errorf("%w: scaffold.row_version_columns must not contain empty names", ErrConfigValidation)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Dialect == "" {
		config.Dialect = string(DialectPostgres)
	}

	if config.Databases == nil {
		config.Databases = make(map[string]Database)
	}

	if config.Scaffold.Output == "" {
		config.Scaffold.Output = "./scaffold"
	}

	if len(config.Scaffold.TablePatterns.Include) == 0 {
		config.Scaffold.TablePatterns.Include = []string{"*"}
	}

	if len(config.Scaffold.TablePatterns.Exclude) == 0 {
		config.Scaffold.TablePatterns.Exclude = []string{"pg_*", "information_schema*", "sys_*", "sqlite_*"}
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// ExpandEnvVars expands environment variables in the format ${VAR} or $VAR
func ExpandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in connection and path settings
func expandConfigEnvVars(config *Config) {
	for name, db := range config.Databases {
		db.Connection = ExpandEnvVars(db.Connection)
		db.Driver = ExpandEnvVars(db.Driver)
		db.Schema = ExpandEnvVars(db.Schema)
		db.Database = ExpandEnvVars(db.Database)
		config.Databases[name] = db
	}

	config.Scaffold.Output = ExpandEnvVars(config.Scaffold.Output)
	config.Import.TblsConfig = ExpandEnvVars(config.Import.TblsConfig)
	config.Import.SchemaJSON = ExpandEnvVars(config.Import.SchemaJSON)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Environment returns the database settings registered under name.
func (c *Config) Environment(name string) (Database, error) {
	db, ok := c.Databases[name]
	if !ok {
		return Database{}, fmt.Errorf("%w: '%s'", ErrEnvironmentNotFound, name)
	}

	return db, nil
}
