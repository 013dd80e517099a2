package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"snapmirror/snapshot_cache/models"
	"snapmirror/sync_preparer"
)

// maxLoadedFileSize caps the files picked up by a directory walk. Larger
// files are almost always generated artifacts and would bloat the snapshot.
const maxLoadedFileSize = 100 * 1024

// LoadProjectDir walks rootDir and builds a project snapshot from its text
// files. The default ignore rules are applied during the walk so dependency
// and build trees are never read at all; the full ignore-file semantics run
// later in the preparer.
func LoadProjectDir(rootDir string) (models.ProjectSnapshot, error) {
	rules := sync_preparer.DefaultIgnoreRuleSet()
	files := make(models.ProjectSnapshot)

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relativePath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")
		if relativePath == "." {
			return nil
		}

		if d.IsDir() {
			if rules.Match(relativePath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to get file info: %s, error: %w", relativePath, err)
		}
		if info.Size() > maxLoadedFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %s, error: %w", relativePath, err)
		}
		if !utf8.Valid(content) {
			logrus.WithField("file", relativePath).Debug("skipping binary file")
			return nil
		}

		files[relativePath] = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
