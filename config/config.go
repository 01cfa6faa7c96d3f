// Package config loads the ICSS project file (.icss.yml).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the project file looked up in the working directory.
const DefaultFile = ".icss.yml"

// EnvVar names the environment variable that overrides DefaultFile.
const EnvVar = "ICSS_CONFIG"

// ColorMode selects when diagnostics are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the color mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config holds compiler settings.
type Config struct {
	// Path is the file the settings were read from, empty for defaults.
	Path string
	// Indent is the number of spaces before each rendered declaration.
	Indent int
	// Strict makes every diagnostic block output. When false, duplicate
	// properties found during evaluation are only warnings.
	Strict bool
	Color  ColorMode
}

// Default returns the settings used when no project file exists.
func Default() *Config {
	return &Config{Indent: 2, Strict: true, Color: ColorAuto}
}

type configFile struct {
	Indent *int    `yaml:"indent"`
	Strict *bool   `yaml:"strict"`
	Color  *string `yaml:"color"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config: %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load parses the config file at path. Settings the file leaves out keep
// their Default values; an empty file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return decode(file, path)
}

func decode(r io.Reader, path string) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := Default()
	cfg.Path = path
	if raw.Indent != nil {
		cfg.Indent = *raw.Indent
	}
	if raw.Strict != nil {
		cfg.Strict = *raw.Strict
	}
	if raw.Color != nil {
		cfg.Color = ColorMode(*raw.Color)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}
	if c.Indent < 1 || c.Indent > 16 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("indent must be between 1 and 16, got %d", c.Indent))
	}
	if !c.Color.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("color must be one of auto, always, never, got %q", c.Color))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Resolve finds and loads the config. An explicit path wins, then the
// ICSS_CONFIG environment variable, then DefaultFile in dir. Explicit and
// environment paths must exist; a missing DefaultFile yields Default().
func Resolve(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}
	path := filepath.Join(dir, DefaultFile)
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
