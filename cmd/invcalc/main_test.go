package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleConfig = "../../test/testdata/example_config.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProject_FlagsToConsole(t *testing.T) {
	out, err := execute(t, "project", "--monthly", "25000", "--years", "20", "--start", "2025-01-01")
	require.NoError(t, err)
	for _, want := range []string{"Conservative", "Moderate", "Aggressive"} {
		assert.Contains(t, out, want)
	}
}

func TestProject_ConfigToFiles(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "project", "--config", exampleConfig, "--format", "all", "--output-dir", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, 3, strings.Count(out, "Wrote"))
}

func TestProject_JSONAlias(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "project", "--config", exampleConfig, "-f", "JSON", "-o", dir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestProject_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad extra", []string{"project", "--extra", "2026-01-01"}, "DATE=AMOUNT"},
		{"bad start", []string{"project", "--start", "soon"}, "--start"},
		{"bad fee model", []string{"project", "--fee-model", "flat"}, "fee model"},
		{"nothing invested", []string{"project", "--monthly", "0"}, "must be positive"},
		{"unknown format", []string{"project", "--format", "pdf"}, "unsupported output format"},
		{"missing file", []string{"project", "--config", "does-not-exist.yaml"}, "failed to read file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "--config", exampleConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "2 scheduled, 4 rejected")
	assert.Contains(t, out, "invalid_date")
	assert.Contains(t, out, "after_term")
}

func TestValidate_RequiresConfig(t *testing.T) {
	_, err := execute(t, "validate")
	assert.Error(t, err)
}

func TestExample_RoundTrips(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "plan"+ext)
			out, err := execute(t, "example", file)
			require.NoError(t, err)
			assert.Contains(t, out, file)

			out, err = execute(t, "validate", "--config", file)
			require.NoError(t, err)
			assert.Contains(t, out, "2 scheduled, 0 rejected")
		})
	}
}

func TestRebates(t *testing.T) {
	out, err := execute(t, "rebates")
	require.NoError(t, err)
	assert.Contains(t, out, "Account age")
	assert.Contains(t, out, "8.00%")
}
