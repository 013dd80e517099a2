package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, root, name string, content []byte) {
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
}

func TestLoadProjectDir(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", []byte("package main\n"))
	writeProjectFile(t, root, "src/app.go", []byte("package src\n"))
	writeProjectFile(t, root, "node_modules/lib/index.js", []byte("module.exports = {}\n"))
	writeProjectFile(t, root, ".git/HEAD", []byte("ref: refs/heads/main\n"))
	writeProjectFile(t, root, "logo.png", []byte{0x89, 0x50, 0x4e, 0xff})

	files, err := LoadProjectDir(root)
	require.NoError(t, err)

	assert.Equal(t, "package main\n", files["main.go"])
	assert.Equal(t, "package src\n", files["src/app.go"])

	// Ignored directory trees are never walked and binaries are skipped.
	for path := range files {
		assert.NotContains(t, path, "node_modules")
		assert.NotContains(t, path, ".git")
	}
	_, hasBinary := files["logo.png"]
	assert.False(t, hasBinary)
}

func TestLoadProjectDir_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "small.txt", []byte("ok"))
	writeProjectFile(t, root, "huge.txt", bytes.Repeat([]byte("x"), maxLoadedFileSize+1))

	files, err := LoadProjectDir(root)
	require.NoError(t, err)

	assert.Contains(t, files, "small.txt")
	assert.NotContains(t, files, "huge.txt")
}

func TestLoadProjectDir_MissingRoot(t *testing.T) {
	_, err := LoadProjectDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
