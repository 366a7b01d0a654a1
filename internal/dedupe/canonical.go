/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package dedupe

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/pkg/config"
)

// selector implements canonical selection. It is a pure function of the
// group's records, the taxonomy configuration, and the referenced-by
// index built once per run, so re-running on the same manifest always
// picks the same canonical.
type selector struct {
	cfg        config.DedupeConfig
	referenced map[string]bool
}

// selectCanonical applies the priority rules in order; the first rule
// that matches at least one member wins, with lexicographic path order
// breaking ties inside the matching set.
//
//  1. Path matches the canonical taxonomy pattern for its declared type.
//  2. Referenced by a designated top-level index document.
//  3. Strictly richer header than every peer.
//  4. Most recent updated_at.
func (s *selector) selectCanonical(members []*manifest.DocumentRecord) string {
	sorted := make([]*manifest.DocumentRecord, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	if winner := firstWhere(sorted, s.matchesTaxonomy); winner != "" {
		return winner
	}
	if winner := firstWhere(sorted, func(r *manifest.DocumentRecord) bool {
		return s.referenced[r.Path]
	}); winner != "" {
		return winner
	}
	if winner := strictlyRichest(sorted); winner != "" {
		return winner
	}
	if winner := newest(sorted); winner != "" {
		return winner
	}
	return sorted[0].Path
}

// matchesTaxonomy checks the member's path against the pattern for its
// declared type. Documents without a declared type are checked against
// every taxonomy pattern, so a well-placed headerless document still
// outranks a stray copy at the tree root.
func (s *selector) matchesTaxonomy(r *manifest.DocumentRecord) bool {
	if typ := r.DeclaredType(); typ != "" {
		pattern, ok := s.cfg.Taxonomy[typ]
		if !ok {
			return false
		}
		ok, err := doublestar.Match(pattern, r.Path)
		return err == nil && ok
	}
	for _, pattern := range s.cfg.Taxonomy {
		if ok, err := doublestar.Match(pattern, r.Path); err == nil && ok {
			return true
		}
	}
	return false
}

func firstWhere(sorted []*manifest.DocumentRecord, pred func(*manifest.DocumentRecord) bool) string {
	for _, r := range sorted {
		if pred(r) {
			return r.Path
		}
	}
	return ""
}

// strictlyRichest returns the member whose header has strictly more
// non-empty recognized keys than every peer, or "" on a tie.
func strictlyRichest(sorted []*manifest.DocumentRecord) string {
	best, bestScore, tied := "", -1, false
	for _, r := range sorted {
		score := r.Header.RichnessScore()
		switch {
		case score > bestScore:
			best, bestScore, tied = r.Path, score, false
		case score == bestScore:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return best
}

// newest returns the member with the latest updated_at; earliest path
// wins a timestamp tie because the input is pre-sorted.
func newest(sorted []*manifest.DocumentRecord) string {
	best := sorted[0]
	for _, r := range sorted[1:] {
		if r.UpdatedAt.After(best.UpdatedAt) {
			best = r
		}
	}
	return best.Path
}
