package chooser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/contentxfer/pkg/folder"
	"github.com/walteh/contentxfer/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

func setup(t *testing.T, filters ...string) (*Chooser, *folder.Memory, string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, folder.Key, dir))
	mem := folder.Load(ctx, store)

	c, err := New(mem, filters)
	require.NoError(t, err)
	return c, mem, dir
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	c, mem, dir := setup(t)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("a"), 0644))

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "relative", input: "sub/a.txt", want: filepath.Join(sub, "a.txt")},
		{name: "absolute", input: filepath.Join(sub, "a.txt"), want: filepath.Join(sub, "a.txt")},
		{name: "missing", input: "nope.txt", wantErr: ErrNotFound},
		{name: "directory", input: "sub", wantErr: ErrIsDirectory},
		{name: "empty", input: "  ", wantErr: ErrNoName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Open(ctx, tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, sub, mem.Get(), "folder should be remembered")
			mem.Set(ctx, dir)
		})
	}
}

func TestOpenFilters(t *testing.T) {
	ctx := context.Background()
	c, mem, dir := setup(t, "*.md", "docs/**/*.txt")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "deep"), 0755))
	for _, f := range []string{"readme.md", "image.png", "docs/deep/n.txt", "n.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}

	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{name: "base_name_glob", input: "readme.md", ok: true},
		{name: "rejected_extension", input: "image.png", ok: false},
		{name: "path_glob", input: "docs/deep/n.txt", ok: true},
		{name: "path_glob_outside", input: "n.txt", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem.Set(ctx, dir)
			_, err := c.Open(ctx, tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrFiltered), "got %v", err)
			}
		})
	}
}

func TestOpenRejectsDevices(t *testing.T) {
	if _, err := os.Stat(os.DevNull); err != nil {
		t.Skip("no null device")
	}
	c, _, _ := setup(t)

	_, err := c.Open(context.Background(), os.DevNull)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegular), "got %v", err)
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(nil, []string{"[unclosed"})
	require.Error(t, err)
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	c, mem, dir := setup(t)

	got, err := c.Save(ctx, "out.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.txt"), got)
	assert.Equal(t, dir, mem.Get())

	_, err = c.Save(ctx, "missing/out.txt")
	assert.True(t, errors.Is(err, ErrNoParent), "got %v", err)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "d"), 0755))
	_, err = c.Save(ctx, "d")
	assert.True(t, errors.Is(err, ErrIsDirectory), "got %v", err)
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	c, mem, dir := setup(t)

	got, err := c.Directory(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, dir, got, "empty current starts from memory")

	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0755))
	got, err = c.Directory(ctx, "out")
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.Equal(t, out, mem.Get())

	require.NoError(t, os.WriteFile(filepath.Join(out, "f"), nil, 0644))
	_, err = c.Directory(ctx, "f")
	assert.True(t, errors.Is(err, ErrNotDirectory), "got %v", err)

	_, err = c.Directory(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}
