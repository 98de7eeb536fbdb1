package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for output destinations:
// - "" and "-" write to the given stdout stream and never close it
// - A file destination only appears once Close commits the document
// - Close replaces an existing file; Discard leaves it untouched
// - No staging files are left behind
// - Unopenable destinations fail with ErrDestination and write nothing to stdout
// - A symlinked destination updates the link target and stays a symlink
// - A dangling symlink creates its target
// - Replacing a file keeps its permission bits
// - A writable file in a read-only directory is written in place

func TestOpen_Stdout(t *testing.T) {
	t.Parallel()

	for _, dest := range []string{"", Stdout} {
		var stdout bytes.Buffer
		d, err := Open(dest, &stdout)
		require.NoError(t, err)

		_, err = d.Write([]byte("[\n]\n"))
		require.NoError(t, err)
		require.NoError(t, d.Close())

		assert.Equal(t, "[\n]\n", stdout.String())
		assert.Equal(t, "stdout", d.Name())
	}
}

func TestOpen_FileCommit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")

	d, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, d.Name())

	_, err = d.Write([]byte("[\n]\n"))
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist, "document must not appear before Close")

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n]\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen_DiscardKeepsPrevious(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	d, err := Open(path, nil)
	require.NoError(t, err)
	_, err = d.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, d.Discard())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen_Unwritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer

	_, err := Open(filepath.Join(dir, "missing", "meta.json"), &stdout)
	assert.ErrorIs(t, err, ErrDestination)

	_, err = Open(dir, &stdout)
	assert.ErrorIs(t, err, ErrDestination)

	assert.Empty(t, stdout.String())
}

func writeDocument(t *testing.T, path, doc string) {
	t.Helper()
	d, err := Open(path, nil)
	require.NoError(t, err)
	_, err = d.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, d.Close())
}

func TestOpen_Symlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target.json")
	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	writeDocument(t, link, "[\n]\n")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[\n]\n", string(data))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode()&os.ModeSymlink, "link must stay a symlink")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpen_DanglingSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target.json")
	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.Symlink(target, link))

	writeDocument(t, link, "[\n]\n")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[\n]\n", string(data))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode()&os.ModeSymlink)
}

func TestOpen_KeepsPermissions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	writeDocument(t, path, "[\n]\n")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	readOnly := filepath.Join(dir, "locked.json")
	require.NoError(t, os.WriteFile(readOnly, []byte("old"), 0o444))

	writeDocument(t, readOnly, "[\n]\n")

	info, err = os.Stat(readOnly)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
	data, err := os.ReadFile(readOnly)
	require.NoError(t, err)
	assert.Equal(t, "[\n]\n", string(data))
}

func TestOpen_ReadOnlyDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	writeDocument(t, path, "[\n]\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n]\n", string(data))
}
