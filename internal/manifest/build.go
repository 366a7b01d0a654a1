/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package manifest

import (
	"fmt"
	"sort"
	"time"
)

// Build folds scanner records into one immutable snapshot.
// Records are re-sorted by path so the output ordering is canonical even
// when the scan ran in parallel. A path collision is the one fatal
// condition here: two records claiming the same relative path means the
// scan itself is corrupt, and no downstream stage can trust the data.
func Build(root string, records []DocumentRecord) (*Snapshot, error) {
	docs := make([]DocumentRecord, len(records))
	copy(docs, records)
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	for i := 1; i < len(docs); i++ {
		if docs[i].Path == docs[i-1].Path {
			return nil, fmt.Errorf("path collision in scan output: %q appears more than once", docs[i].Path)
		}
	}

	return &Snapshot{
		GeneratedAt: time.Now().UTC(),
		Root:        root,
		Documents:   docs,
		Counts:      aggregate(docs),
	}, nil
}

func aggregate(docs []DocumentRecord) AggregateCounts {
	counts := AggregateCounts{
		Total:    len(docs),
		ByStatus: map[string]int{},
		ByType:   map[string]int{},
		ByModule: map[string]int{},
	}

	byFingerprint := map[string]int{}
	for i := range docs {
		d := &docs[i]
		switch d.HeaderState {
		case HeaderMissing:
			counts.MissingHeaders++
		case HeaderMalformed:
			counts.MalformedHeaders++
		case HeaderPresent:
			if d.Header.Status != "" {
				counts.ByStatus[d.Header.Status]++
			}
			if d.Header.Type != "" {
				counts.ByType[d.Header.Type]++
			}
			if d.Header.Module != "" {
				counts.ByModule[d.Header.Module]++
			}
		}
		if d.Orphan {
			counts.Orphans++
		}
		if d.IsRedirect {
			counts.Redirects++
		}
		if d.Fingerprint != "" {
			byFingerprint[d.Fingerprint]++
		}
	}

	for _, n := range byFingerprint {
		if n > 1 {
			counts.ExactDuplicateGroups++
		}
	}
	return counts
}
