/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package links

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Link is one hyperlink occurrence inside a document.
type Link struct {
	Line   int    // 1-based line number
	Text   string // link text (or reference label)
	Target string // raw target, possibly with an anchor fragment
}

var (
	// [text](target) and [text](target "title")
	inlineLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	// [label]: target
	refDefRe = regexp.MustCompile(`^\s*\[([^\]]+)\]:\s+(\S+)`)
)

// Extract returns every inline link and reference definition in content,
// skipping fenced code blocks and inline code spans.
func Extract(content string) []Link {
	var out []Link
	inFence := false
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := refDefRe.FindStringSubmatch(line); m != nil {
			out = append(out, Link{Line: i + 1, Text: m[1], Target: m[2]})
			continue
		}
		stripped := stripInlineCode(line)
		for _, m := range inlineLinkRe.FindAllStringSubmatch(stripped, -1) {
			out = append(out, Link{Line: i + 1, Text: m[1], Target: m[2]})
		}
	}
	return out
}

// stripInlineCode blanks out `code spans` so link syntax inside them is
// not picked up. Byte offsets are preserved, so match positions on the
// stripped line map straight back onto the original.
func stripInlineCode(line string) string {
	var b strings.Builder
	inCode := false
	for _, r := range line {
		switch {
		case r == '`':
			inCode = !inCode
			b.WriteByte(' ')
		case inCode:
			for n := utf8.RuneLen(r); n > 0; n-- {
				b.WriteByte(' ')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsExternal reports whether a target is an absolute URL (or mail link).
// External link health is out of scope; callers report these "unchecked".
func IsExternal(target string) bool {
	return strings.Contains(target, "://") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "tel:")
}

// SplitFragment splits "path#anchor" into its parts.
func SplitFragment(target string) (string, string) {
	if idx := strings.IndexByte(target, '#'); idx >= 0 {
		return target[:idx], target[idx+1:]
	}
	return target, ""
}

// HeadingSlug converts a heading to its GitHub-style anchor: lowercased,
// punctuation dropped, spaces become hyphens.
func HeadingSlug(heading string) string {
	heading = strings.TrimSpace(strings.TrimLeft(heading, "#"))
	heading = strings.ToLower(heading)
	var b strings.Builder
	for _, r := range heading {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// HeadingSlugs returns the anchor set for a document's content.
func HeadingSlugs(content string) map[string]bool {
	out := map[string]bool{}
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.HasPrefix(trimmed, "#") {
			continue
		}
		out[HeadingSlug(trimmed)] = true
	}
	return out
}
