package sync_preparer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapmirror/snapshot_cache/models"
)

func TestFilterByIgnoreRules_CustomIgnoreFile(t *testing.T) {
	files := models.ProjectSnapshot{
		".gitignore":                "node_modules/\n*.log\nbuild/",
		"README.md":                 "# Project",
		"src/index.js":              "...",
		"node_modules/package.json": "{}",
		"debug.log":                 "x",
		"build/output.js":           "y",
	}

	result := FilterByIgnoreRules(files)

	assert.Contains(t, result, "README.md")
	assert.Contains(t, result, "src/index.js")
	assert.NotContains(t, result, "node_modules/package.json")
	assert.NotContains(t, result, "debug.log")
	assert.NotContains(t, result, "build/output.js")
}

func TestFilterByIgnoreRules_DefaultsWhenNoIgnoreFile(t *testing.T) {
	files := models.ProjectSnapshot{
		"src/main.go":              "package main",
		"node_modules/lib/util.js": "x",
		"dist/bundle.js":           "y",
		"error.log":                "z",
	}

	result := FilterByIgnoreRules(files)

	assert.Contains(t, result, "src/main.go")
	assert.NotContains(t, result, "node_modules/lib/util.js")
	assert.NotContains(t, result, "dist/bundle.js")
	assert.NotContains(t, result, "error.log")
}

func TestFilterByIgnoreRules_SkipsDirectoryMarkersAndBlankFiles(t *testing.T) {
	files := models.ProjectSnapshot{
		"src/":         "",
		"empty.txt":    "",
		"spaces.txt":   "   \n\t\n",
		"real/file.md": "content",
	}

	result := FilterByIgnoreRules(files)

	require.Len(t, result, 1)
	assert.Contains(t, result, "real/file.md")
}

func TestFilterByIgnoreRules_StripsProjectRootPrefix(t *testing.T) {
	files := models.ProjectSnapshot{
		"project/.gitignore":   "*.log",
		"project/src/index.ts": "export {}",
		"project/debug.log":    "x",
	}

	result := FilterByIgnoreRules(files)

	assert.Contains(t, result, "src/index.ts")
	assert.NotContains(t, result, "project/src/index.ts")
	assert.NotContains(t, result, "debug.log")
	assert.NotContains(t, result, "project/debug.log")
}

// A custom ignore file replaces the defaults entirely; the two rule sets are
// never merged.
func TestFilterByIgnoreRules_CustomRulesDoNotIncludeDefaults(t *testing.T) {
	files := models.ProjectSnapshot{
		".gitignore":        "*.tmp",
		"node_modules/x.js": "kept because custom rules are active",
		"scratch.tmp":       "dropped",
	}

	result := FilterByIgnoreRules(files)

	assert.Contains(t, result, "node_modules/x.js")
	assert.NotContains(t, result, "scratch.tmp")
}

func TestIgnoreRuleSet_Match(t *testing.T) {
	rules := NewIgnoreRuleSet("node_modules/\n*.log\nbuild/\n# comment\n\ndocs/**/*.draft\n")

	tests := []struct {
		path    string
		ignored bool
	}{
		{"node_modules/package.json", true},
		{"src/node_modules/inner.js", true},
		{"debug.log", true},
		{"nested/deep/trace.log", true},
		{"build/output.js", true},
		{"builder/main.go", false},
		{"docs/a/b/notes.draft", true},
		{"docs/notes.final", false},
		{"README.md", false},
		{"src/index.js", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ignored, rules.Match(tt.path), "path %s", tt.path)
	}
}

func TestFilterByIgnoreRules_EmptyIgnoreFileMeansNoCustomRules(t *testing.T) {
	files := models.ProjectSnapshot{
		".gitignore": "# only comments\n\n",
		"keep.txt":   "x",
		"other.log":  "y",
	}

	result := FilterByIgnoreRules(files)

	// Empty custom rule set: nothing is excluded beyond blanks and markers.
	assert.Contains(t, result, "keep.txt")
	assert.Contains(t, result, "other.log")
}
