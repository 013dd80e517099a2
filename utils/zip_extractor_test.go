package utils

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArchive(t *testing.T, entries map[string][]byte) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractArchive(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"main.go":        []byte("package main\n"),
		"docs/readme.md": []byte("# readme\n"),
		"assets/logo":    {0x89, 0x50, 0x4e, 0xff}, // binary, skipped
		"nested/dir/":    nil,                      // directory entry, dropped
	})

	files, err := ExtractArchive(data)
	require.NoError(t, err)

	assert.Equal(t, "package main\n", files["main.go"])
	assert.Equal(t, "# readme\n", files["docs/readme.md"])
	_, hasBinary := files["assets/logo"]
	assert.False(t, hasBinary)
	assert.Len(t, files, 2)
}

func TestExtractArchive_RejectsGarbage(t *testing.T) {
	_, err := ExtractArchive([]byte("definitely not a zip"))
	assert.Error(t, err)
}

func TestExtractArchive_SanitizesEntryPaths(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"../escape.txt": []byte("escaped"),
	})

	files, err := ExtractArchive(data)
	require.NoError(t, err)
	assert.Equal(t, "escaped", files["escape.txt"])
}

func TestSanitizeArchivePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"main.go", "main.go"},
		{"src/app.go", "src/app.go"},
		{"/abs/path.go", "abs/path.go"},
		{"./relative.go", "relative.go"},
		{"a/./b.go", "a/b.go"},
		{"a/../b.go", "b.go"},
		{"../../evil.sh", "evil.sh"},
		{`C:\windows\style.txt`, "windows/style.txt"},
		{"a//b.go", "a/b.go"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeArchivePath(tt.in), "input %q", tt.in)
	}
}
