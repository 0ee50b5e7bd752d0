package paths

import (
	"path/filepath"
	"strings"
)

// MatchesGlob matches a repo-relative, forward-slash path against one
// include/exclude glob pattern (spec §6's symbol/file glob lists),
// following the teacher's CODEOWNERS-style ownership matcher: exact
// match, directory-prefix match, a `**` double-star segment, and a
// plain filepath.Match fallback tried against both the full path and
// its basename.
func MatchesGlob(pattern, path string) bool {
	if pattern == "*" || pattern == "**" {
		return true
	}

	pattern = strings.TrimPrefix(pattern, "/")
	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(pattern, "/") {
		dirPattern := strings.TrimSuffix(pattern, "/")
		return strings.HasPrefix(path, dirPattern+"/") || path == dirPattern
	}

	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		if len(parts) == 2 {
			prefix := strings.TrimSuffix(parts[0], "/")
			suffix := strings.TrimPrefix(parts[1], "/")

			if prefix != "" && !strings.HasPrefix(path, prefix) {
				return false
			}
			if suffix != "" {
				remainder := path
				if prefix != "" {
					remainder = strings.TrimPrefix(path, prefix)
					remainder = strings.TrimPrefix(remainder, "/")
				}
				matched, _ := filepath.Match(suffix, filepath.Base(remainder))
				if !matched && !strings.HasSuffix(remainder, suffix) {
					return false
				}
			}
			return true
		}
	}

	if path == pattern {
		return true
	}
	if strings.HasPrefix(path, pattern+"/") {
		return true
	}
	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// MatchesAny reports whether path matches any pattern in patterns. An
// empty pattern list never matches (callers treat that as "no filter"
// separately).
func MatchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if MatchesGlob(p, path) {
			return true
		}
	}
	return false
}
