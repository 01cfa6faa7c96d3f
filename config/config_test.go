package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2, cfg.Indent)
	assert.True(t, cfg.Strict)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Empty(t, cfg.Path)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "site.yml", "indent: 4\nstrict: false\ncolor: never\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{Path: path, Indent: 4, Strict: false, Color: ColorNever}, cfg)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "site.yml", "color: always\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent)
	assert.True(t, cfg.Strict)
	assert.Equal(t, ColorAlways, cfg.Color)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad color", "color: rainbow\n", `color must be one of auto, always, never, got "rainbow"`},
		{"negative indent", "indent: -1\n", "indent must be between 1 and 16"},
		{"unknown key", "tabs: true\n", "field tabs not found"},
		{"wrong type", "strict: maybe\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".yml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidationErrorCollectsIssues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yml", "indent: 99\ncolor: sometimes\n")
	_, err := Load(path)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 2)
}

func TestResolve(t *testing.T) {
	t.Run("missing default file", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		cfg, err := Resolve("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("default file in dir", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		dir := t.TempDir()
		path := writeFile(t, dir, DefaultFile, "indent: 8\n")
		cfg, err := Resolve("", dir)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Indent)
		assert.Equal(t, path, cfg.Path)
	})

	t.Run("environment overrides default file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, DefaultFile, "indent: 8\n")
		env := writeFile(t, t.TempDir(), "env.yml", "indent: 3\n")
		t.Setenv(EnvVar, env)
		cfg, err := Resolve("", dir)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Indent)
	})

	t.Run("explicit overrides environment", func(t *testing.T) {
		t.Setenv(EnvVar, writeFile(t, t.TempDir(), "env.yml", "indent: 3\n"))
		explicit := writeFile(t, t.TempDir(), "cli.yml", "indent: 5\n")
		cfg, err := Resolve(explicit, t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Indent)
	})

	t.Run("explicit must exist", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "nope.yml"), t.TempDir())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("broken default file is reported", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		dir := t.TempDir()
		writeFile(t, dir, DefaultFile, "color: 42x\n")
		_, err := Resolve("", dir)
		assert.Error(t, err)
	})
}
