package tool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "photo", DisplayName("photo.jpg"))
	assert.Equal(t, "archive.tar", DisplayName("archive.tar.gz"))
	assert.Equal(t, "README", DisplayName("README"))
	assert.Equal(t, ".bashrc", DisplayName(".bashrc"))
	assert.Equal(t, "photo", DisplayName("/some/dir/photo.jpg"))
}

func TestCollectFilesWalksFolders(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	hidden := filepath.Join(dir, ".cache")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.MkdirAll(hidden, 0o755))

	write := func(path string) {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	write(filepath.Join(dir, "a.jpg"))
	write(filepath.Join(dir, ".hidden.jpg"))
	write(filepath.Join(sub, "b.jpg"))
	write(filepath.Join(hidden, "c.jpg"))
	loose := filepath.Join(t.TempDir(), "loose.pdf")
	write(loose)

	files, err := CollectFiles([]string{dir, loose})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(sub, "b.jpg"),
		loose,
	}, files)
}

func TestCollectFilesMissingPath(t *testing.T) {
	_, err := CollectFiles([]string{"/definitely/not/here"})
	assert.Error(t, err)
}

func TestStatFileRejectsDirectories(t *testing.T) {
	_, _, _, err := StatFile(t.TempDir())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	name, size, info, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, "f.txt", name)
	assert.EqualValues(t, 5, size)
	assert.NotNil(t, info)
}
