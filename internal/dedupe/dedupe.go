/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package dedupe

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/pkg/config"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// GroupKind distinguishes how a duplicate group was detected.
type GroupKind string

const (
	KindExact GroupKind = "exact"
	KindNear  GroupKind = "near"
)

// Redirect reasons, one per group kind.
const (
	ReasonExactDuplicate = "exact_duplicate"
	ReasonNearDuplicate  = "near_duplicate"
)

// Group is a set of paths that should collapse to one canonical document.
type Group struct {
	Kind      GroupKind `json:"kind" yaml:"kind"`
	Canonical string    `json:"canonical" yaml:"canonical"`
	// Duplicates are the non-canonical members, sorted by path.
	Duplicates []string `json:"duplicates" yaml:"duplicates"`
	// Fingerprint is set for exact groups only.
	Fingerprint string `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// RedirectEntry maps an archived path to its live canonical replacement.
// The invariant after Plan construction: To never appears as a From in
// any other entry (single hop). Owner is carried from the archived
// document (falling back to the canonical's) so the stub written on
// apply still satisfies mandatory header keys.
type RedirectEntry struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Reason string `json:"reason" yaml:"reason"`
	Owner  string `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// Plan is the reviewable dedup artifact: groups, flattened redirects, and
// the archive list, all derived from one manifest snapshot.
type Plan struct {
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Groups      []Group         `json:"groups" yaml:"groups"`
	Redirects   []RedirectEntry `json:"redirects" yaml:"redirects"`
	Archive     []string        `json:"archive" yaml:"archive"`
}

// RedirectMap returns from->to for quick lookups by the link rewriter.
func (p *Plan) RedirectMap() map[string]string {
	m := make(map[string]string, len(p.Redirects))
	for _, r := range p.Redirects {
		m[r.From] = r.To
	}
	return m
}

// BuildPlan derives duplicate groups and the redirect plan from a
// snapshot. referenced is the set of paths linked from the designated
// index documents; it feeds canonical selection rule 2.
func BuildPlan(snap *manifest.Snapshot, cfg config.DedupeConfig, referenced map[string]bool) (*Plan, error) {
	docs := snap.Documents

	exactGroups, grouped := exactGroupIndices(docs)
	nearGroups := nearGroupIndices(docs, grouped, cfg.NearThreshold)

	plan := &Plan{GeneratedAt: time.Now().UTC()}
	sel := &selector{cfg: cfg, referenced: referenced}

	for _, g := range exactGroups {
		group, err := buildGroup(snap, sel, g, KindExact)
		if err != nil {
			return nil, err
		}
		plan.Groups = append(plan.Groups, *group)
	}
	for _, g := range nearGroups {
		group, err := buildGroup(snap, sel, g, KindNear)
		if err != nil {
			return nil, err
		}
		plan.Groups = append(plan.Groups, *group)
	}

	sort.Slice(plan.Groups, func(i, j int) bool {
		return plan.Groups[i].Canonical < plan.Groups[j].Canonical
	})

	for _, group := range plan.Groups {
		reason := ReasonExactDuplicate
		if group.Kind == KindNear {
			reason = ReasonNearDuplicate
		}
		for _, dup := range group.Duplicates {
			plan.Redirects = append(plan.Redirects, RedirectEntry{
				From:   dup,
				To:     group.Canonical,
				Reason: reason,
				Owner:  stubOwner(snap, dup, group.Canonical),
			})
			plan.Archive = append(plan.Archive, dup)
		}
	}
	sort.Slice(plan.Redirects, func(i, j int) bool { return plan.Redirects[i].From < plan.Redirects[j].From })
	sort.Strings(plan.Archive)

	if err := collapseChains(plan); err != nil {
		return nil, err
	}

	logger.Debug("dedup plan built",
		logger.Int("groups", len(plan.Groups)),
		logger.Int("redirects", len(plan.Redirects)))
	return plan, nil
}

// stubOwner picks the owner a redirect stub should declare: the archived
// document's own owner when it has one, else the canonical's.
func stubOwner(snap *manifest.Snapshot, dup, canonical string) string {
	for _, p := range []string{dup, canonical} {
		if rec := snap.Lookup(p); rec != nil && rec.HasHeader() && rec.Header.Owner != "" {
			return rec.Header.Owner
		}
	}
	return ""
}

// exactGroupIndices partitions documents by fingerprint. Orphans carry no
// fingerprint and never group. Returned groups are sorted for determinism.
func exactGroupIndices(docs []manifest.DocumentRecord) ([][]int, map[int]bool) {
	byFP := map[string][]int{}
	for i := range docs {
		if docs[i].Fingerprint == "" {
			continue
		}
		byFP[docs[i].Fingerprint] = append(byFP[docs[i].Fingerprint], i)
	}

	grouped := map[int]bool{}
	var groups [][]int
	for _, members := range byFP {
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)
		groups = append(groups, members)
		for _, i := range members {
			grouped[i] = true
		}
	}
	sort.Slice(groups, func(i, j int) bool { return docs[groups[i][0]].Path < docs[groups[j][0]].Path })
	return groups, grouped
}

// nearGroupIndices clusters the remaining documents by title similarity
// using union-find, so membership does not depend on comparison order.
func nearGroupIndices(docs []manifest.DocumentRecord, grouped map[int]bool, threshold float64) [][]int {
	var candidates []int
	for i := range docs {
		if grouped[i] || docs[i].Orphan || docs[i].Title == "" {
			continue
		}
		candidates = append(candidates, i)
	}

	ds := newDisjointSet(len(candidates))
	tokens := make([]map[string]bool, len(candidates))
	for ci, di := range candidates {
		tokens[ci] = titleTokens(docs[di].Title)
	}
	for a := 0; a < len(candidates); a++ {
		for b := a + 1; b < len(candidates); b++ {
			if tokenOverlap(tokens[a], tokens[b]) >= threshold {
				ds.union(a, b)
			}
		}
	}

	var groups [][]int
	for _, members := range ds.groups() {
		g := make([]int, len(members))
		for i, ci := range members {
			g[i] = candidates[ci]
		}
		sort.Ints(g)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return docs[groups[i][0]].Path < docs[groups[j][0]].Path })
	return groups
}

// titleTokens lowercases and splits a title on non-alphanumeric runes.
func titleTokens(title string) map[string]bool {
	out := map[string]bool{}
	for _, tok := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		out[tok] = true
	}
	return out
}

// tokenOverlap is the Jaccard ratio of two token sets.
func tokenOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if b[tok] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func buildGroup(snap *manifest.Snapshot, sel *selector, indices []int, kind GroupKind) (*Group, error) {
	members := make([]*manifest.DocumentRecord, len(indices))
	for i, idx := range indices {
		members[i] = &snap.Documents[idx]
	}
	canonical := sel.selectCanonical(members)

	// A redirect stub can never be the canonical target: resolve
	// transitively to the first live ancestor, failing on cycles.
	resolved, err := resolveLive(snap, canonical)
	if err != nil {
		return nil, err
	}

	g := &Group{Kind: kind, Canonical: resolved}
	if kind == KindExact {
		g.Fingerprint = members[0].Fingerprint
	}
	for _, m := range members {
		if m.Path != resolved {
			g.Duplicates = append(g.Duplicates, m.Path)
		}
	}
	sort.Strings(g.Duplicates)
	return g, nil
}

// resolveLive follows moved_to pointers until it reaches a non-redirect
// document. A cycle or a dangling target is a configuration error.
func resolveLive(snap *manifest.Snapshot, path string) (string, error) {
	seen := map[string]bool{}
	current := path
	for {
		rec := snap.Lookup(current)
		if rec == nil {
			return "", fmt.Errorf("redirect target %q is not in the manifest (reached from %q)", current, path)
		}
		if !rec.IsRedirect {
			return current, nil
		}
		if seen[current] {
			return "", fmt.Errorf("redirect cycle detected at %q", current)
		}
		seen[current] = true
		if rec.MovedTo == "" {
			return "", fmt.Errorf("redirect %q has no moved_to target", current)
		}
		current = rec.MovedTo
	}
}

// collapseChains rewrites every redirect to a single hop and enforces the
// no-chain invariant: a To must never appear as another entry's From.
// Group canonicals are retargeted the same way, so the saved artifact
// never names a canonical the redirect list has already moved past.
func collapseChains(plan *Plan) error {
	byFrom := map[string]string{}
	for _, r := range plan.Redirects {
		byFrom[r.From] = r.To
	}
	for i := range plan.Redirects {
		seen := map[string]bool{plan.Redirects[i].From: true}
		to := plan.Redirects[i].To
		for {
			next, ok := byFrom[to]
			if !ok {
				break
			}
			if seen[to] {
				return fmt.Errorf("redirect cycle detected while collapsing chain at %q", to)
			}
			seen[to] = true
			to = next
		}
		plan.Redirects[i].To = to
	}

	final := make(map[string]string, len(plan.Redirects))
	for _, r := range plan.Redirects {
		final[r.From] = r.To
	}
	for i := range plan.Groups {
		if to, ok := final[plan.Groups[i].Canonical]; ok {
			plan.Groups[i].Canonical = to
		}
	}
	sort.Slice(plan.Groups, func(i, j int) bool {
		return plan.Groups[i].Canonical < plan.Groups[j].Canonical
	})
	return nil
}
