package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	outputFormat, collapse, fromJSON, include = "json", false, false, nil
	tableFF, tableGM = 4, 1

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFmtCommand(t *testing.T) {
	out, err := run(t, "(;C[x]FF[4](;B[aa]))", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "(;FF[4]C[x];B[aa])\n", out)

	out, err = run(t, "(;FF[4]C[x];B[aa]C[y])", "fmt", "--include", "FF,B")
	require.NoError(t, err)
	assert.Equal(t, "(;FF[4];B[aa])\n", out)

	out, err = run(t, `[{"nodes":[{"FF":4},{"W":"pd"}]}]`, "fmt", "--from-json")
	require.NoError(t, err)
	assert.Equal(t, "(;FF[4];W[pd])\n", out)
}

func TestParseCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sgf")
	require.NoError(t, os.WriteFile(path, []byte("(;FF[4](;B[aa]))"), 0o600))

	out, err := run(t, "", "parse", "--collapse", path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"nodes":[{"FF":4},{"B":"aa"}],"children":null}]`, out)

	out, err = run(t, "(;FF[4]GN[demo])", "parse", "-o", "yaml")
	require.NoError(t, err)
	var doc []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc, 1)
	assert.Contains(t, out, "GN: demo")
}

func TestInfoCommand(t *testing.T) {
	out, err := run(t, "(;FF[4]PB[Shusaku];B[qd];W[dc])", "info", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "moves: 2")
	assert.Contains(t, out, "PB: Shusaku")
}

func TestTablesCommand(t *testing.T) {
	out, err := run(t, "", "tables", "KM", "AB", "ZZ")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"identifier":"KM","type":"Real","known":true},
		{"identifier":"AB","type":"list of Point (compressed)","known":true},
		{"identifier":"ZZ","type":"Unknown","known":false}
	]`, out)

	out, err = run(t, "", "tables", "--ff", "3", "CoPyright")
	require.NoError(t, err)
	assert.Contains(t, out, `"identifier": "CP"`)

	out, err = run(t, "", "tables", "-o", "yaml")
	require.NoError(t, err)
	var entries []tableEntry
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "AB", entries[0].Identifier)
	for _, e := range entries {
		assert.True(t, e.Known, e.Identifier)
	}

	_, err = run(t, "", "tables", "--ff", "5")
	assert.Error(t, err)

	_, err = run(t, "", "tables", "--ff", "1", "ABC")
	assert.ErrorContains(t, err, "not an identifier")
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "(;FF[5])", "fmt")
	assert.Error(t, err)

	_, err = run(t, "(;FF[4])", "parse", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
