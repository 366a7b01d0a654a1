/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scaffold

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LedgerEntry records one scaffolding invocation that created files.
// The ledger is append-only history: entries are never rewritten, which
// is what makes rollback auditable.
type LedgerEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	UnitID       string    `json:"unit_id"`
	FilesCreated []string  `json:"files_created"`
}

// appendLedger adds one JSON line to the ledger, creating it on first
// use. Sequential appends from a single invocation only; concurrent
// invocations against the same unit must be serialized by the caller.
func appendLedger(path string, entry LedgerEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G302 G304 -- ledger path comes from config
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ReadLedger returns all entries in append order. A missing ledger is an
// empty history, not an error.
func ReadLedger(path string) ([]LedgerEntry, error) {
	f, err := os.Open(path) // #nosec G304 -- ledger path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []LedgerEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry LedgerEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("decode ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}
