package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	config string
	dir    string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`
database: %s
settings_store: yaml
settings_file: %s
buffer_size: 8
`, filepath.Join(dir, "data", "values.db"), filepath.Join(dir, "data", "settings.yaml"))
	require.NoError(t, os.WriteFile(config, []byte(body), 0644))
	return &cli{t: t, config: config, dir: dir}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	out := &bytes.Buffer{}
	cmd, closeRoot := newRootCmd(out)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--config", c.config}, args...))

	err := cmd.ExecuteContext(context.Background())
	if cerr := closeRoot(); cerr != nil && err == nil {
		err = cerr
	}
	return out.String(), err
}

func TestImportExportRoundTrip(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	c := newCLI(t)
	src := filepath.Join(c.dir, "in", "notes.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.WriteFile(src, []byte("hello\nworld"), 0644))

	out, err := c.run("import", "notes", src)
	require.NoError(t, err, out)
	assert.Contains(t, out, "import")
	assert.Contains(t, out, "done")

	// relative names resolve against the folder remembered by the import
	out, err = c.run("export", "notes", "out.txt")
	require.NoError(t, err, out)

	data, err := os.ReadFile(filepath.Join(c.dir, "in", "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", string(data))

	out, err = c.run("folder", "get")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(c.dir, "in"))

	out, err = c.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "notes")
	assert.Contains(t, out, "text")
}

func TestExportDefaultsToValueName(t *testing.T) {
	c := newCLI(t)
	src := filepath.Join(c.dir, "logo.png")
	require.NoError(t, os.WriteFile(src, []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}, 0644))

	_, err := c.run("import", "logo.png", src)
	require.NoError(t, err)

	outDir := filepath.Join(c.dir, "exports")
	require.NoError(t, os.Mkdir(outDir, 0755))
	_, err = c.run("folder", "choose", outDir)
	require.NoError(t, err)

	_, err = c.run("export", "logo.png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}, data)
}

func TestExportFailures(t *testing.T) {
	c := newCLI(t)
	src := filepath.Join(c.dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0644))
	_, err := c.run("import", "a", src)
	require.NoError(t, err)

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{name: "unknown_value", args: []string{"export", "missing", "x.txt"}, errContains: "value not found"},
		{name: "missing_parent", args: []string{"export", "a", filepath.Join(c.dir, "nope", "x.txt")}, errContains: "parent directory does not exist"},
		{name: "no_name", args: []string{"export"}, errContains: "NAME is required"},
		{name: "bad_github_spec", args: []string{"export", "--github", "walteh"}, errContains: "invalid github source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("import", "a", filepath.Join(c.dir, "ghost.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestImportDeviceLeavesNoValue(t *testing.T) {
	if _, err := os.Stat(os.DevNull); err != nil {
		t.Skip("no null device")
	}
	c := newCLI(t)
	_, err := c.run("import", "fresh", os.DevNull)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")

	out, err := c.run("list")
	require.NoError(t, err)
	assert.NotContains(t, out, "fresh")
}

func TestFolderSet(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("folder", "set", "/srv/shared")
	require.NoError(t, err)

	out, err := c.run("folder", "get")
	require.NoError(t, err)
	assert.Equal(t, "/srv/shared\n", out)
}

func TestVersion(t *testing.T) {
	out, err := newCLI(t).run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "contentxfer version info")
}
