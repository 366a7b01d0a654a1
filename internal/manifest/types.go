/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package manifest

import (
	"time"
)

// HeaderState distinguishes the three header outcomes a scan can produce.
// Downstream code must branch on the state instead of poking at nil fields.
type HeaderState string

const (
	HeaderPresent   HeaderState = "present"
	HeaderMissing   HeaderState = "missing"
	HeaderMalformed HeaderState = "malformed"
)

// Header holds the recognized keys of a document's structured header block.
// Unrecognized keys are dropped at parse time.
type Header struct {
	Status   string `json:"status,omitempty" yaml:"status" toml:"status"`
	Type     string `json:"type,omitempty" yaml:"type" toml:"type"`
	Owner    string `json:"owner,omitempty" yaml:"owner" toml:"owner"`
	Module   string `json:"module,omitempty" yaml:"module" toml:"module"`
	Redirect bool   `json:"redirect,omitempty" yaml:"redirect" toml:"redirect"`
	MovedTo  string `json:"moved_to,omitempty" yaml:"moved_to" toml:"moved_to"`
}

// RichnessScore counts the non-empty recognized keys. Used as a canonical
// selection criterion during deduplication.
func (h *Header) RichnessScore() int {
	if h == nil {
		return 0
	}
	score := 0
	for _, v := range []string{h.Status, h.Type, h.Owner, h.Module, h.MovedTo} {
		if v != "" {
			score++
		}
	}
	if h.Redirect {
		score++
	}
	return score
}

// DocumentRecord is the normalized per-document output of a scan.
// Path is the relative, slash-separated location and is unique per snapshot.
type DocumentRecord struct {
	Path        string      `json:"path"`
	Title       string      `json:"title"`
	HeaderState HeaderState `json:"header_state"`
	Header      *Header     `json:"header,omitempty"`
	// Fingerprint is a SHA-256 over whitespace-normalized content.
	// Empty for orphans (unreadable or non-UTF8 files).
	Fingerprint string    `json:"fingerprint,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsRedirect  bool      `json:"is_redirect"`
	MovedTo     string    `json:"moved_to,omitempty"`
	// Orphan marks files that could not be read or decoded; they stay in
	// the inventory so the tree is never silently under-reported.
	Orphan bool `json:"orphan,omitempty"`
}

// HasHeader reports whether a well-formed header block was parsed.
func (r *DocumentRecord) HasHeader() bool {
	return r.HeaderState == HeaderPresent && r.Header != nil
}

// DeclaredType returns the header type, or "" when no header is present.
func (r *DocumentRecord) DeclaredType() string {
	if r.HasHeader() {
		return r.Header.Type
	}
	return ""
}

// AggregateCounts are the precomputed groupings carried by a snapshot.
type AggregateCounts struct {
	Total            int            `json:"total"`
	ByStatus         map[string]int `json:"by_status"`
	ByType           map[string]int `json:"by_type"`
	ByModule         map[string]int `json:"by_module"`
	MissingHeaders   int            `json:"missing_headers"`
	MalformedHeaders int            `json:"malformed_headers"`
	Orphans          int            `json:"orphans"`
	Redirects        int            `json:"redirects"`
	// ExactDuplicateGroups counts fingerprints shared by 2+ documents.
	ExactDuplicateGroups int `json:"exact_duplicate_groups"`
}

// Snapshot is the immutable aggregate produced by each inventory run.
// It is regenerated wholesale; consumers always read the latest file.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Root        string           `json:"root"`
	Documents   []DocumentRecord `json:"documents"`
	Counts      AggregateCounts  `json:"counts"`
}

// Lookup returns the record for a path, or nil when absent.
func (s *Snapshot) Lookup(path string) *DocumentRecord {
	for i := range s.Documents {
		if s.Documents[i].Path == path {
			return &s.Documents[i]
		}
	}
	return nil
}

// Paths returns all document paths in snapshot (sorted) order.
func (s *Snapshot) Paths() []string {
	out := make([]string, len(s.Documents))
	for i := range s.Documents {
		out[i] = s.Documents[i].Path
	}
	return out
}
