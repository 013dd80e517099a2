package utils

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"snapmirror/snapshot_cache/models"
)

// ExtractArchive unpacks an exported archive payload into a project snapshot.
// Directory entries are dropped and binary entries are skipped with a log
// line; snapshots are maps of text content only.
func ExtractArchive(data []byte) (models.ProjectSnapshot, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	files := make(models.ProjectSnapshot, len(reader.File))
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := SanitizeArchivePath(entry.Name)

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry %s: %w", entry.Name, err)
		}

		if !utf8.Valid(content) {
			logrus.WithField("entry", name).Debug("skipping binary archive entry")
			continue
		}
		files[name] = string(content)
	}
	return files, nil
}

// SanitizeArchivePath normalizes archive entry paths: forward slashes, no
// drive prefix, no leading '/', and no '.' or '..' segments escaping the
// root.
func SanitizeArchivePath(p string) string {
	// Archives produced on Windows can carry backslash separators whatever the
	// host OS is, so this cannot rely on filepath.ToSlash.
	s := strings.ReplaceAll(p, "\\", "/")
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")
	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, part)
	}
	return strings.Join(stack, "/")
}
