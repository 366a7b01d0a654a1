// Package ignore provides gitignore-based file filtering using go-git.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher filters scan candidates with layered ignore files:
// 1. .gitignore and related git ignore files (foundation)
// 2. .docguardignore at the document root (repo overrides)
// 3. ~/.docguard/.docguardignore (user overrides)
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher builds a matcher rooted at the governed document tree.
// All IsIgnored queries take paths relative to that root.
func NewMatcher(root string) (*Matcher, error) {
	fs := osfs.New(root)

	var patterns []gitignore.Pattern

	// Always-ignored infrastructure directories.
	for _, p := range []string{".git/**", "node_modules/**", ".docguard/**"} {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}

	if overrides, err := readIgnoreFile(filepath.Join(root, ".docguardignore")); err == nil {
		for _, p := range overrides {
			patterns = append(patterns, gitignore.ParsePattern(p, nil))
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, ".docguard", ".docguardignore")
		if userPatterns, err := readIgnoreFile(userPath); err == nil {
			for _, p := range userPatterns {
				patterns = append(patterns, gitignore.ParsePattern(p, nil))
			}
		}
	}

	return &Matcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// readIgnoreFile reads patterns from an allowlisted ignore file.
func readIgnoreFile(path string) ([]string, error) {
	cleaned := filepath.Clean(path)
	if !strings.HasSuffix(cleaned, string(os.PathSeparator)+".docguardignore") {
		return nil, fmt.Errorf("disallowed ignore file path: %s", cleaned)
	}
	content, err := os.ReadFile(cleaned) // #nosec G304 -- path cleaned and allowlisted
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored reports whether a root-relative file path should be skipped.
func (m *Matcher) IsIgnored(rel string) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, false)
}

// IsIgnoredDir reports whether a root-relative directory should be
// skipped entirely during traversal.
func (m *Matcher) IsIgnoredDir(rel string) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, true)
}

func splitPath(rel string) []string {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return nil
	}
	parts := strings.Split(rel, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}
