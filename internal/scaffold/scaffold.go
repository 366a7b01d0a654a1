/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aymerick/raymond"

	"github.com/fulmenhq/docguard/pkg/config"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// Scaffolder populates missing standard files in unit directories and
// records every write in the append-only ledger.
type Scaffolder struct {
	root       string
	ledgerPath string
	templates  map[string]*raymond.Template
	now        func() time.Time
}

// New builds a scaffolder for the given document root.
func New(root string, cfg config.ScaffoldConfig) (*Scaffolder, error) {
	templates, err := loadTemplates(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	ledger := cfg.LedgerPath
	if !filepath.IsAbs(ledger) {
		ledger = filepath.Join(root, filepath.FromSlash(ledger))
	}
	return &Scaffolder{
		root:       root,
		ledgerPath: ledger,
		templates:  templates,
		now:        time.Now,
	}, nil
}

// Preview lists the files an apply would create for the unit, sorted.
// It touches neither the filesystem nor the ledger.
func (s *Scaffolder) Preview(unit string) ([]string, error) {
	unitDir, err := s.unitDir(unit)
	if err != nil {
		return nil, err
	}
	var missing []string
	for name := range s.templates {
		if _, err := os.Stat(filepath.Join(unitDir, name)); os.IsNotExist(err) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

// Apply creates exactly the files Preview would list and appends one
// ledger entry describing them. Existing files are never overwritten,
// and a run that creates nothing appends nothing: replaying against an
// already-populated unit is a no-op.
func (s *Scaffolder) Apply(unit string) ([]string, error) {
	missing, err := s.Preview(unit)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		logger.Info("unit already fully scaffolded", logger.String("unit", unit))
		return nil, nil
	}

	unitDir, err := s.unitDir(unit)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(unitDir, 0o750); err != nil {
		return nil, fmt.Errorf("create unit directory: %w", err)
	}

	vars := map[string]interface{}{
		"unit": unit,
		"date": s.now().UTC().Format("2006-01-02"),
	}

	var created []string
	for _, name := range missing {
		content, err := s.templates[name].Exec(vars)
		if err != nil {
			return created, fmt.Errorf("render template %s: %w", name, err)
		}
		target := filepath.Join(unitDir, name)
		// O_EXCL guards the never-overwrite contract even if the file
		// appeared between Preview and this write.
		f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) // #nosec G302 G304 -- unit paths validated by unitDir
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return created, fmt.Errorf("create %s: %w", target, err)
		}
		if _, err := f.WriteString(content); err != nil {
			_ = f.Close()
			return created, fmt.Errorf("write %s: %w", target, err)
		}
		if err := f.Close(); err != nil {
			return created, fmt.Errorf("close %s: %w", target, err)
		}
		created = append(created, name)
		logger.Info("scaffolded file", logger.String("unit", unit), logger.String("file", name))
	}

	if len(created) == 0 {
		return nil, nil
	}
	entry := LedgerEntry{
		Timestamp:    s.now().UTC(),
		UnitID:       unit,
		FilesCreated: created,
	}
	if err := appendLedger(s.ledgerPath, entry); err != nil {
		return created, err
	}
	return created, nil
}

// unitDir resolves and contains the unit directory under the root.
func (s *Scaffolder) unitDir(unit string) (string, error) {
	if unit == "" {
		return "", fmt.Errorf("unit id must not be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(unit))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("unit %q escapes the document root", unit)
	}
	return filepath.Join(s.root, clean), nil
}
