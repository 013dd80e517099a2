package sync_preparer

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"snapmirror/snapshot_cache/models"
)

// ignoreFileName is the conventional ignore file looked up in a snapshot.
const ignoreFileName = ".gitignore"

// projectRootPrefix is the recognized subdirectory the host application nests
// project files under. It is stripped before rules are tested and before
// paths are stored in the filtered result.
const projectRootPrefix = "project/"

// defaultIgnorePatterns covers common dependency, build, editor, and OS
// artifacts. It is used only when the snapshot carries no ignore file; custom
// and default rules are never merged.
var defaultIgnorePatterns = []string{
	"node_modules/",
	".git/",
	".svn/",
	"dist/",
	"build/",
	"out/",
	"coverage/",
	".cache/",
	".idea/",
	".vscode/",
	".DS_Store",
	"Thumbs.db",
	"*.log",
	"*.tmp",
	"*.bak",
	"npm-debug.log*",
	"yarn-debug.log*",
	"yarn-error.log*",
	".env",
	".env.local",
}

// IgnoreRuleSet is a compiled pattern matcher. Exactly one rule set is active
// per filtering call: either the project's own ignore file or the defaults.
type IgnoreRuleSet struct {
	patterns []string
	custom   bool
}

// NewIgnoreRuleSet compiles a rule set from raw ignore-file content.
func NewIgnoreRuleSet(content string) *IgnoreRuleSet {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return &IgnoreRuleSet{patterns: patterns, custom: true}
}

// DefaultIgnoreRuleSet returns the built-in pattern list.
func DefaultIgnoreRuleSet() *IgnoreRuleSet {
	return &IgnoreRuleSet{patterns: defaultIgnorePatterns}
}

// Match reports whether path should be excluded from the prepared snapshot.
func (r *IgnoreRuleSet) Match(path string) bool {
	clean := filepath.ToSlash(path)
	segments := strings.Split(clean, "/")

	for _, pattern := range r.patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		p := strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if p == "" {
			continue
		}

		if strings.Contains(p, "/") {
			patSegments := strings.Split(strings.TrimPrefix(p, "/"), "/")
			if matchSegments(patSegments, segments) {
				return true
			}
			if len(segments) > len(patSegments) && matchSegments(patSegments, segments[:len(patSegments)]) {
				return true
			}
			continue
		}

		if dirOnly {
			// Directory pattern: any parent segment may match.
			for _, seg := range segments[:len(segments)-1] {
				if ok, _ := filepath.Match(p, seg); ok {
					return true
				}
			}
			continue
		}

		// Bare pattern: matches any path segment, as Git does.
		for _, seg := range segments {
			if ok, _ := filepath.Match(p, seg); ok {
				return true
			}
		}
	}
	return false
}

// matchSegments matches pattern segments against path segments, handling **
// like Git.
func matchSegments(pats, parts []string) bool {
	for len(pats) > 0 {
		p := pats[0]
		pats = pats[1:]

		if p == "**" {
			if len(pats) == 0 {
				return true
			}
			for i := 0; i <= len(parts); i++ {
				if matchSegments(pats, parts[i:]) {
					return true
				}
			}
			return false
		}

		if len(parts) == 0 {
			return false
		}
		ok, err := filepath.Match(p, parts[0])
		if err != nil || !ok {
			return false
		}
		parts = parts[1:]
	}
	return len(parts) == 0
}

// FilterByIgnoreRules removes ignored, directory-marker, and blank entries
// from a snapshot and strips the recognized project-root prefix from the
// remaining paths. Filtering is a best-effort optimization: on any internal
// failure the original map is returned unchanged.
func FilterByIgnoreRules(files models.ProjectSnapshot) (result models.ProjectSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Warn("ignore filtering failed, returning unfiltered snapshot")
			result = files
		}
	}()

	rules := ruleSetFor(files)

	result = make(models.ProjectSnapshot, len(files))
	for path, content := range files {
		if strings.HasSuffix(path, "/") {
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		clean := stripProjectPrefix(path)
		if rules.Match(clean) {
			continue
		}
		result[clean] = content
	}
	return result
}

// ruleSetFor picks the active rule set: the snapshot's own ignore file when
// present at the root or under the project prefix, the defaults otherwise.
func ruleSetFor(files models.ProjectSnapshot) *IgnoreRuleSet {
	if content, ok := files[ignoreFileName]; ok {
		return NewIgnoreRuleSet(content)
	}
	if content, ok := files[projectRootPrefix+ignoreFileName]; ok {
		return NewIgnoreRuleSet(content)
	}
	return DefaultIgnoreRuleSet()
}

func stripProjectPrefix(path string) string {
	return strings.TrimPrefix(path, projectRootPrefix)
}
