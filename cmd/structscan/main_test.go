package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/config"
	"structscan/internal/export"
)

const shapesHeader = "testdata/shapes.hpp"

func run(t *testing.T, args ...string) error {
	t.Helper()
	return execRootCmd(append([]string{"structscan"}, args...), "test")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestParseCmd_JSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shapes.json")
	require.NoError(t, run(t, "parse", "--format", "json", "-o", out, shapesHeader))

	want := `{
  "Point": {
    "x": "double",
    "y": "double"
  },
  "Shape": {
    "name": "std::string",
    "points": "std::vector<Point>",
    "tags": "std::map<std::string, int>",
    "anchor": "std::optional<Point>",
    "style": "Style",
    "units_": "Units"
  },
  "Style": {
    "filled": "bool",
    "color": "unsigned int"
  }
}
`
	assert.Equal(t, want, readFile(t, out))
}

func TestParseCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "structscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("options:\n  format: yaml\n  recordKeywords: [struct]\n"), 0o644))

	out := filepath.Join(dir, "shapes.yaml")
	require.NoError(t, run(t, "parse", "-c", cfgPath, "-o", out, shapesHeader))

	got := readFile(t, out)
	assert.Contains(t, got, "Point:\n  x: double\n  y: double\n")
	// Only struct is a record keyword, so Shape is not extracted.
	assert.NotContains(t, got, "Shape:")
}

func TestParseCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.hpp")
	require.NoError(t, os.WriteFile(broken, []byte("struct Broken {\n  int x;\n"), 0o644))

	// Diagnostics only fail in strict mode.
	require.NoError(t, run(t, "parse", "-o", filepath.Join(dir, "out.txt"), broken))
	assert.Equal(t, "Broken\n  x: int\n", readFile(t, filepath.Join(dir, "out.txt")))

	assert.Error(t, run(t, "parse", "--strict", "-o", filepath.Join(dir, "strict.txt"), broken))

	err := run(t, "parse", "--format", "xml", shapesHeader)
	assert.ErrorIs(t, err, config.ErrUnknownFormat)

	assert.Error(t, run(t, "parse", filepath.Join(dir, "missing.hpp")))
	assert.Error(t, run(t, "parse"))
}

func TestGenerateCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shapes.ts")
	require.NoError(t, run(t, "generate", "-X", "Sha*", "-o", out, shapesHeader))

	got := readFile(t, out)
	assert.Contains(t, got, "export interface Point {\n  x: number;\n  y: number;\n}")
	assert.Contains(t, got, "export interface Style {\n  filled: boolean;\n  color: number;\n}")
	assert.NotContains(t, got, "export interface Shape")

	require.NoError(t, run(t, "generate", "--no-nested", "-T", "Shape,Style", "-o", out, shapesHeader))
	got = readFile(t, out)
	assert.Contains(t, got, "  tags: Record<string, number>;")
	assert.Contains(t, got, "  anchor?: Point | null;")
	assert.NotContains(t, got, "export interface Style")
	assert.NotContains(t, got, "export interface Point")

	assert.Error(t, run(t, "generate", "-b", "cobol", shapesHeader))
}

func TestGenerateCmd_Example(t *testing.T) {
	out := filepath.Join(t.TempDir(), "models.ts")
	require.NoError(t, run(t, "generate", "-c", "../../examples/structscan.yaml", "-o", out, "../../examples/models.hpp"))

	got := readFile(t, out)
	for _, line := range []string{
		"export interface User {",
		"  id: string;",
		"  age: number;",
		`  role: "admin" | "customer";`,
		"  metadata: Record<string, string>;",
		"  tags: string[];",
		"  timestamps: Timestamps;",
		"  email_: string;",
		"  zipCode?: string | null;",
		"  items: OrderItem[];",
		"  shipping?: Address | null;",
		"export interface Product {",
		"  category: string;",
		"  inStock: boolean;",
	} {
		assert.Contains(t, got, line)
	}
	assert.NotContains(t, got, "export interface Timestamps")
}

func TestExportCmd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "shapes.db")
	require.NoError(t, run(t, "export", "--db", db, shapesHeader))

	reg, err := export.LoadSQLite(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"Point", "Shape", "Style"}, reg.Names())

	style, ok := reg.Lookup("Style")
	require.True(t, ok)
	assert.Equal(t, "Shape", style.Parent)
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"A", []string{"A"}},
		{"A, B ,C", []string{"A", "B", "C"}},
		{" , A,,", []string{"A"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCommaSeparated(tt.in), tt.in)
	}
}
