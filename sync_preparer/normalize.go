package sync_preparer

import "strings"

// NormalizeForComparison canonicalizes text so that logically identical files
// compare equal: all line-ending styles become "\n", trailing horizontal
// whitespace is stripped per line, and a run of trailing newlines at the end
// of the string collapses to exactly one. An empty string stays empty.
//
// The function is idempotent: normalizing normalized content is a no-op.
func NormalizeForComparison(content string) string {
	if content == "" {
		return ""
	}

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	normalized = strings.Join(lines, "\n")

	trimmed := strings.TrimRight(normalized, "\n")
	if trimmed == "" {
		return ""
	}
	if len(trimmed) < len(normalized) {
		return trimmed + "\n"
	}
	return trimmed
}
