package config

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/funlit/internal/logging"
)

// FileName is the optional project configuration file.
const FileName = "funlit.yaml"

// DefaultComponentsDir is where `funlit new` writes components when
// components.dir is unset.
const DefaultComponentsDir = "components"

// Config represents the optional funlit.yaml configuration.
type Config struct {
	Components ComponentsConfig `yaml:"components"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	Log        LogConfig        `yaml:"log"`
}

// ComponentsConfig controls where scaffolded components go.
type ComponentsConfig struct {
	Dir     string `yaml:"dir,omitempty"`
	Package string `yaml:"package,omitempty"`
}

// RuntimeConfig contains registry settings.
type RuntimeConfig struct {
	SkipDetachedRenders bool `yaml:"skip_detached_renders,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root                string
	ModulePath          string
	ComponentsDir       string // absolute
	Package             string
	ImportPath          string
	SkipDetachedRenders bool
	LogLevel            slog.Level
}

// LoadOptional reads funlit.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// LogLevel parses log.level. Unset is info.
func (c *Config) LogLevel() (slog.Level, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return level, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Resolve loads funlit.yaml (if present) and resolves defaults against the
// module rooted at dir.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	rel := strings.TrimSpace(cfg.Components.Dir)
	if rel == "" {
		rel = DefaultComponentsDir
	}
	rel = filepath.Clean(rel)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("components.dir must be inside the module (got %q)", cfg.Components.Dir)
	}

	pkg := strings.TrimSpace(cfg.Components.Package)
	if pkg == "" {
		pkg = defaultPackage(rel)
	}
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}

	importPath := modulePath
	if rel != "." {
		importPath = path.Join(modulePath, filepath.ToSlash(rel))
	}
	if err := module.CheckImportPath(importPath); err != nil {
		return nil, fmt.Errorf("components.dir: %w", err)
	}

	return &Resolved{
		Root:                dir,
		ModulePath:          modulePath,
		ComponentsDir:       filepath.Join(dir, rel),
		Package:             pkg,
		ImportPath:          importPath,
		SkipDetachedRenders: cfg.Runtime.SkipDetachedRenders,
		LogLevel:            level,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

// defaultPackage derives a package name from the last path element of dir,
// dropping characters Go identifiers cannot hold.
func defaultPackage(dir string) string {
	base := strings.ToLower(filepath.Base(dir))
	var out []rune
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r)
		case r >= '0' && r <= '9' && len(out) > 0:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "components"
	}
	return string(out)
}

func validatePackage(pkg string) error {
	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("components.package %q is not a valid Go identifier", pkg)
	}
	if pkg == "main" {
		return fmt.Errorf("components.package cannot be main")
	}
	return nil
}
