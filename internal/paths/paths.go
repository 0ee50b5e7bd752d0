// Package paths canonicalizes filesystem paths into the repo-relative,
// forward-slash form the include/exclude glob matcher and diagnostics
// compare against (spec §6, "symbol/file glob patterns").
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// CanonicalizePath converts an absolute path to a repo-relative
// canonical path: symlinks resolved, made relative to repoRoot, and
// rendered with forward slashes regardless of platform.
func CanonicalizePath(absolutePath string, repoRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	repoRootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			repoRootResolved = repoRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(repoRootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// IsWithinRepo reports whether path resolves under repoRoot.
func IsWithinRepo(path string, repoRoot string) bool {
	canonical, err := CanonicalizePath(path, repoRoot)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(canonical, "..")
}

// NormalizePath converts backslashes to forward slashes for a path
// that is already relative.
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRepoPath joins repoRoot with a forward-slash canonical path,
// converting it to the host's path separator.
func JoinRepoPath(repoRoot string, canonicalPath string) string {
	normalized := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalized, "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}

// FindRepoRoot returns the current working directory; the driver
// treats its invocation directory as the project root unless a path
// is given explicitly.
func FindRepoRoot() (string, error) {
	return os.Getwd()
}
