/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fulmenhq/docguard/pkg/safeio"
)

// DefaultPath is where the latest snapshot lives relative to the root.
const DefaultPath = ".docguard/manifest.json"

// Save serializes the snapshot to path. The write is atomic so a reader
// never observes a half-written manifest (single-writer-per-run policy).
func (s *Snapshot) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := safeio.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a snapshot file. Schema violations are
// reported the same way as unreadable files: the caller must abort, per
// the error taxonomy for downstream stages.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path comes from config/flags, not untrusted input
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate manifest %s: %w", path, err)
	}
	if !result.Valid() {
		first := ""
		if errs := result.Errors(); len(errs) > 0 {
			first = errs[0].String()
		}
		return nil, fmt.Errorf("manifest %s does not match schema: %s", path, first)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &snap, nil
}
