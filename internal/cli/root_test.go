package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"name":"demo","tags":["a","b"],"meta":{"id":1}}`

// run executes the CLI with args and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0")
	defer SetVersion("dev")

	assert.Equal(t, "1.0.0", NewRootCommand().Version)
}

func TestFormat_FromStdin(t *testing.T) {
	out, err := run(t, `{"b":1,"a":2}`, "format")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}\n", out)
}

func TestFormat_Indent(t *testing.T) {
	path := writeFile(t, "in.json", `[1]`)
	out, err := run(t, "", "format", "--indent", "4", path)
	require.NoError(t, err)
	assert.Equal(t, "[\n    1\n]\n", out)
}

func TestMinifyAndSort(t *testing.T) {
	out, err := run(t, "{\n  \"b\": 1,\n  \"a\": 2\n}", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"b\":1,\"a\":2}\n", out)

	out, err = run(t, `{"b":1,"a":2}`, "sort")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}\n", out)
}

func TestInvalidInput(t *testing.T) {
	_, err := run(t, `{"a":`, "format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")

	_, err = run(t, "  ", "minify")
	assert.ErrorIs(t, err, errEmptyInput)
}

func TestConvert(t *testing.T) {
	out, err := run(t, `{"name":"demo","n":1}`, "convert", "--to", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: demo\nn: 1\n", out)

	_, err = run(t, `{}`, "convert", "--to", "xml")
	assert.Error(t, err)
}

func TestConvert_ReadsYAMLFiles(t *testing.T) {
	path := writeFile(t, "in.yaml", "a: 1\n")
	out, err := run(t, "", "convert", "--to", "json", path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}

func TestPaths(t *testing.T) {
	out, err := run(t, sample, "paths")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`["name"]`,
		`["tags"]`,
		`["tags"][0]`,
		`["tags"][1]`,
		`["meta"]`,
		`["meta"]["id"]`,
	}, strings.Split(strings.TrimSpace(out), "\n"))
}

func TestPaths_CSV(t *testing.T) {
	out, err := run(t, sample, "paths", "--csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Path,Name,Kind,Depth,Value", lines[0])
	assert.Len(t, lines, 8, "header, root and six nodes")
}

func TestTree(t *testing.T) {
	out, err := run(t, sample, "tree", "--depth", "0")
	require.NoError(t, err)
	assert.Equal(t, "▾ {\n  name: \"demo\",\n  ▸ tags: [ 2 items ],\n  ▸ meta: { id: 1 }\n}\n", out)
}

func TestPreview(t *testing.T) {
	out, err := run(t, sample, "preview", "--path", `["meta"]`)
	require.NoError(t, err)
	assert.Equal(t, "{ id: 1 }\n", out)

	_, err = run(t, sample, "preview", "--path", `["missing"]`)
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	out, err := run(t, `{"id":1}`, "schema", "--name", "Item")
	require.NoError(t, err)
	assert.Contains(t, out, "export interface Item {")
	assert.Contains(t, out, "id: number;")
}
