package schemaimport

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tblsconfig "github.com/k1LoW/tbls/config"
)

// ResolveConfig locates the tbls config and the schema.json it documents.
//
// An explicit schema JSON path wins over the tbls docPath and makes the tbls
// config optional. Table patterns from opts take precedence; without them the
// tbls include/exclude lists apply.
func ResolveConfig(ctx context.Context, opts Options) (Config, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}

	cfg := NewConfig(opts)

	root, err := filepath.Abs(cmp.Or(cfg.WorkingDir, "."))
	if err != nil {
		return Config{}, fmt.Errorf("schemaimport: resolve working directory: %w", err)
	}

	cfg.WorkingDir = root

	configPath, err := findTblsConfig(root, cfg.TblsConfigPath)

	switch {
	case errors.Is(err, ErrTblsConfigNotFound) && cfg.SchemaJSONPath != "":
		cfg.SchemaJSONPath = absPath(root, cfg.SchemaJSONPath)
		cfg.DocPath = filepath.Dir(cfg.SchemaJSONPath)
		cfg.logf("No tbls config in %s; reading %s directly", root, cfg.SchemaJSONPath)

		return cfg, nil
	case err != nil:
		return Config{}, err
	}

	tblsCfg, err := loadTblsConfig(configPath)
	if err != nil {
		return Config{}, err
	}

	cfg.TblsConfigPath = configPath
	cfg.TblsConfig = tblsCfg

	if cfg.SchemaJSONPath != "" {
		cfg.SchemaJSONPath = absPath(root, cfg.SchemaJSONPath)
		cfg.DocPath = filepath.Dir(cfg.SchemaJSONPath)
	} else {
		cfg.DocPath = tblsDocPath(tblsCfg, configPath)
		cfg.SchemaJSONPath = filepath.Join(cfg.DocPath, tblsconfig.SchemaFileName)
	}

	if cfg.Tables.IsEmpty() {
		cfg.Tables.Include = unqualifiedPatterns(tblsCfg.Include)
		cfg.Tables.Exclude = unqualifiedPatterns(tblsCfg.Exclude)
	}

	cfg.logf("tbls config %s -> schema JSON %s", configPath, cfg.SchemaJSONPath)

	if !cfg.Tables.IsEmpty() {
		cfg.logf("Table patterns include=%v exclude=%v", cfg.Tables.Include, cfg.Tables.Exclude)
	}

	return cfg, nil
}

// findTblsConfig returns the explicit path when given, otherwise the first
// of tbls' default config file names present in root.
func findTblsConfig(root, explicitPath string) (string, error) {
	if explicitPath != "" {
		path := absPath(root, explicitPath)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("schemaimport: tbls config %q: %w", path, err)
		}

		return path, nil
	}

	for _, name := range tblsconfig.DefaultConfigFilePaths {
		path := filepath.Join(root, name)

		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return "", fmt.Errorf("schemaimport: stat %q: %w", path, err)
		case info.IsDir():
			continue
		}

		return filepath.Clean(path), nil
	}

	return "", fmt.Errorf("%w in %q", ErrTblsConfigNotFound, root)
}

func loadTblsConfig(path string) (*tblsconfig.Config, error) {
	tblsCfg, err := tblsconfig.New()
	if err != nil {
		return nil, fmt.Errorf("schemaimport: initialise tbls config: %w", err)
	}

	if err := tblsCfg.Load(path); err != nil {
		return nil, fmt.Errorf("schemaimport: load tbls config %q: %w", path, err)
	}

	return tblsCfg, nil
}

// tblsDocPath resolves docPath relative to the directory holding the tbls config.
func tblsDocPath(tblsCfg *tblsconfig.Config, configPath string) string {
	docPath := strings.TrimSpace(tblsCfg.DocPath)
	if docPath == "" {
		docPath = tblsconfig.DefaultDocPath
	}

	return absPath(filepath.Dir(configPath), docPath)
}

// unqualifiedPatterns drops the schema part of tbls patterns such as
// "public.migrations" or "*.audit_*", since tables are matched by bare name.
func unqualifiedPatterns(patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}

	result := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if i := strings.LastIndex(p, "."); i >= 0 {
			p = p[i+1:]
		}

		if p != "" {
			result = append(result, p)
		}
	}

	return result
}

func absPath(base, path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}

	return filepath.Clean(path)
}
