/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package links

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/docguard/pkg/logger"
	"github.com/fulmenhq/docguard/pkg/safeio"
)

// Change is one link retarget performed (or previewed) by the rewriter.
type Change struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

// Rewrite retargets links whose destination matches a redirect entry's
// From path. Genuinely broken links are left untouched; they need a
// human, not a guess. With apply=false nothing is written.
//
// The operation is idempotent: rewritten links point at canonical paths,
// and the single-hop invariant guarantees a canonical path never appears
// as a redirect source.
func (v *Validator) Rewrite(apply bool) ([]Change, error) {
	var changes []Change
	for _, source := range v.snap.Paths() {
		rec := v.snap.Lookup(source)
		if rec == nil || rec.Orphan || rec.IsRedirect {
			continue
		}
		full := filepath.Join(v.root, filepath.FromSlash(source))
		content, err := safeio.ReadFileContained(v.root, full)
		if err != nil {
			continue
		}

		updated, docChanges := v.rewriteContent(source, string(content))
		if len(docChanges) == 0 {
			continue
		}
		changes = append(changes, docChanges...)
		if apply {
			if err := safeio.WriteFilePreservePerms(full, []byte(updated)); err != nil {
				return changes, fmt.Errorf("rewrite links in %s: %w", source, err)
			}
			logger.Info("rewrote links", logger.String("path", source), logger.Int("links", len(docChanges)))
		}
	}
	return changes, nil
}

// rewriteContent walks the document line by line, mirroring Extract's
// fence and code-span handling so the two stay in agreement about what is
// a link. Matching runs on the code-stripped line; offsets map back onto
// the original because stripInlineCode preserves byte positions.
func (v *Validator) rewriteContent(source, content string) (string, []Change) {
	var changes []Change
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := refDefRe.FindStringSubmatch(line); m != nil {
			if newTarget, ok := v.retarget(source, m[2]); ok {
				lines[i] = strings.Replace(line, m[2], newTarget, 1)
				changes = append(changes, Change{Source: source, Line: i + 1, Old: m[2], New: newTarget})
			}
			continue
		}
		stripped := stripInlineCode(line)
		var rebuilt strings.Builder
		last := 0
		for _, loc := range inlineLinkRe.FindAllStringSubmatchIndex(stripped, -1) {
			target := line[loc[4]:loc[5]]
			newTarget, ok := v.retarget(source, target)
			if !ok {
				continue
			}
			rebuilt.WriteString(line[last:loc[4]])
			rebuilt.WriteString(newTarget)
			last = loc[5]
			changes = append(changes, Change{Source: source, Line: i + 1, Old: target, New: newTarget})
		}
		if last > 0 {
			rebuilt.WriteString(line[last:])
			lines[i] = rebuilt.String()
		}
	}
	return strings.Join(lines, "\n"), changes
}

// retarget maps one raw link target to its canonical replacement when,
// and only when, its resolved path is a redirect source.
func (v *Validator) retarget(source, target string) (string, bool) {
	if IsExternal(target) {
		return "", false
	}
	rawPath, anchor := SplitFragment(target)
	if rawPath == "" {
		return "", false
	}
	resolved, ok := v.Resolve(source, rawPath)
	if !ok {
		return "", false
	}
	to, redirected := v.redirects[resolved]
	if !redirected {
		return "", false
	}
	rel, err := filepath.Rel(path.Dir(source), to)
	if err != nil {
		return "", false
	}
	newTarget := filepath.ToSlash(rel)
	if anchor != "" {
		newTarget += "#" + anchor
	}
	return newTarget, true
}
