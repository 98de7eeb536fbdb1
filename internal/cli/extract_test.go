package cli

// Test Plan for Extract Command:
// - Writes the document to stdout by default, progress and logs to stderr
// - --filter is repeatable and restricts the recorded types
// - -o and --format write a YAML document to a file
// - Invalid flag values fail validation before any analysis
// - An unwritable destination fails and prints nothing to stdout
// - --non-strict keeps going past syntax errors
// - --config loads an explicit config file; flags override it
// - The version command prints build information
// - formatNumber adds thousands separators

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/classmeta/internal/config"
	"github.com/mvp-joe/classmeta/internal/output"
)

const shapesSource = `namespace geo {
struct Point {
    int x;
    int y;
};
struct Size {
    double w;
};
}
`

// runExtractCmd runs a fresh extract command and returns stdout and stderr.
func runExtractCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newExtractCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeShapes(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shapes.hpp"), []byte(shapesSource), 0o644))
	return dir
}

func TestExtract_Stdout(t *testing.T) {
	t.Parallel()

	dir := writeShapes(t)
	stdout, stderr, err := runExtractCmd(t, dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, `"name": "geo::Point"`)
	assert.Contains(t, stdout, `"variable": "geo::Size::w"`)
	assert.NotContains(t, stdout, "Analysis complete")
	assert.Contains(t, stderr, "Analysis complete")
}

func TestExtract_Filter(t *testing.T) {
	t.Parallel()

	dir := writeShapes(t)
	stdout, _, err := runExtractCmd(t, dir, "--quiet", "--filter", "Size", "--filter", "Missing")
	require.NoError(t, err)

	assert.Contains(t, stdout, `"name": "geo::Size"`)
	assert.NotContains(t, stdout, "geo::Point")
}

func TestExtract_YAMLFile(t *testing.T) {
	t.Parallel()

	dir := writeShapes(t)
	out := filepath.Join(t.TempDir(), "types.yaml")

	stdout, _, err := runExtractCmd(t, dir, "-q", "-o", out, "--format", "yaml", "--indent", "2")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- name: ")
	assert.Contains(t, string(data), "\n  fields:\n")
	assert.Contains(t, string(data), "geo::Point")
}

func TestExtract_InvalidFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "zero indent", args: []string{"--indent", "0"}, want: config.ErrInvalidIndent},
		{name: "negative workers", args: []string{"--workers", "-1"}, want: config.ErrInvalidWorkers},
		{name: "unknown format", args: []string{"--format", "xml"}, want: config.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := writeShapes(t)
			stdout, _, err := runExtractCmd(t, append([]string{dir, "-q"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, stdout)
		})
	}
}

func TestExtract_UnwritableDestination(t *testing.T) {
	t.Parallel()

	dir := writeShapes(t)
	out := filepath.Join(t.TempDir(), "missing", "types.json")

	stdout, _, err := runExtractCmd(t, dir, "-q", "-o", out)
	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrDestination)
	assert.Empty(t, stdout)
}

func TestExtract_NonStrict(t *testing.T) {
	t.Parallel()

	dir := writeShapes(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.hpp"), []byte("struct Broken { int x;\n"), 0o644))

	_, _, err := runExtractCmd(t, dir, "-q")
	require.Error(t, err)

	stdout, _, err := runExtractCmd(t, dir, "-q", "--non-strict")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"name": "geo::Point"`)
}

func TestExtract_ConfigFile(t *testing.T) {
	// Mutates the package-level --config value, so not parallel.
	dir := writeShapes(t)
	cfgPath := filepath.Join(t.TempDir(), "classmeta.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("filter:\n  patterns:\n    - Point\noutput:\n  indent: 2\n"), 0o644))

	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = "" })

	stdout, _, err := runExtractCmd(t, dir, "-q")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\n  {\n    \"name\": \"geo::Point\"")
	assert.NotContains(t, stdout, "geo::Size")

	stdout, _, err = runExtractCmd(t, dir, "-q", "--filter", "Size")
	require.NoError(t, err)
	assert.Contains(t, stdout, "geo::Size")
	assert.NotContains(t, stdout, "geo::Point")

	cfgFile = filepath.Join(t.TempDir(), "missing.yml")
	_, _, err = runExtractCmd(t, dir, "-q")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	versionCmd.SetOut(&stdout)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, stdout.String(), "Classmeta "+Version)
	assert.Contains(t, stdout.String(), "Git commit: ")
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in))
	}
}
