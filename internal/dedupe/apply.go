/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package dedupe

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/fulmenhq/docguard/pkg/logger"
	"github.com/fulmenhq/docguard/pkg/safeio"
)

// Apply rewrites every archived duplicate into a redirect stub pointing
// at its canonical replacement. Content is replaced, not deleted, so the
// old path keeps resolving for readers and link checkers.
// Returns the stub paths written, sorted as in the plan.
func (p *Plan) Apply(root string) ([]string, error) {
	var written []string
	for _, entry := range p.Redirects {
		stub := redirectStub(entry)
		full := filepath.Join(root, filepath.FromSlash(entry.From))
		if err := safeio.WriteFilePreservePerms(full, []byte(stub)); err != nil {
			return written, fmt.Errorf("write redirect stub %s: %w", entry.From, err)
		}
		written = append(written, entry.From)
		logger.Info("archived duplicate", logger.String("from", entry.From), logger.String("to", entry.To))
	}
	return written, nil
}

// redirectStub renders the replacement document: a header block marking
// the redirect plus a one-line pointer readers can follow. The owner
// carries over so stubs keep passing mandatory-key checks.
func redirectStub(entry RedirectEntry) string {
	rel := relativeTarget(entry.From, entry.To)
	ownerLine := ""
	if entry.Owner != "" {
		ownerLine = "owner: " + entry.Owner + "\n"
	}
	return fmt.Sprintf(`---
%sstatus: archived
redirect: true
moved_to: %s
---

# Moved

This document has moved to [%s](%s).
`, ownerLine, entry.To, entry.To, rel)
}

// relativeTarget computes the link target from the stub's directory to
// the canonical document, in slash form.
func relativeTarget(from, to string) string {
	rel, err := filepath.Rel(path.Dir(from), to)
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}
