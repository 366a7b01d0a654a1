/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scanner

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/pkg/ignore"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// DefaultWorkers bounds scan parallelism (and peak open file descriptors)
// unless the configuration says otherwise.
const DefaultWorkers = 4

// Options controls document discovery.
type Options struct {
	Include  []string // doublestar patterns, relative to root
	Exclude  []string
	Workers  int
	NoIgnore bool // disable .gitignore/.docguardignore layering
}

// DefaultOptions returns the scan defaults: markdown files, small
// worker pool, ignore files honored.
func DefaultOptions() Options {
	return Options{
		Include: []string{"**/*.md"},
		Workers: DefaultWorkers,
	}
}

// Scan walks root and produces one DocumentRecord per qualifying file,
// sorted by path. Per-file failures (unreadable, non-UTF8) degrade to
// orphan records; only a missing or unreadable root is an error.
func Scan(ctx context.Context, root string, opts Options) ([]manifest.DocumentRecord, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	var matcher *ignore.Matcher
	if !opts.NoIgnore {
		if m, err := ignore.NewMatcher(root); err != nil {
			logger.Warn("ignore matcher unavailable, scanning everything", logger.Err(err))
		} else {
			matcher = m
		}
	}

	paths, err := discover(root, opts, matcher)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var mu sync.Mutex
	records := make([]manifest.DocumentRecord, 0, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := scanOne(root, rel)
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// discover lists qualifying relative paths under root in walk order.
func discover(root string, opts Options, matcher *ignore.Matcher) ([]string, error) {
	include := opts.Include
	if len(include) == 0 {
		include = DefaultOptions().Include
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: log and keep going. A single bad
			// directory must never block inventory generation.
			logger.Warn("skipping unreadable path", logger.String("path", path), logger.Err(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") {
				return fs.SkipDir
			}
			if matcher != nil && matcher.IsIgnoredDir(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if matcher != nil && matcher.IsIgnored(rel) {
			return nil
		}
		if !matchAny(include, rel) || matchAny(opts.Exclude, rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// scanOne builds the record for a single document. It never fails: read
// and decode problems produce an orphan record instead.
func scanOne(root, rel string) manifest.DocumentRecord {
	rec := manifest.DocumentRecord{
		Path:        rel,
		HeaderState: manifest.HeaderMissing,
	}

	full := filepath.Join(root, filepath.FromSlash(rel))
	if st, err := os.Stat(full); err == nil {
		rec.UpdatedAt = st.ModTime().UTC()
	}

	content, err := os.ReadFile(full) // #nosec G304 -- rel comes from our own walk of root
	if err != nil {
		logger.Warn("orphaning unreadable document", logger.String("path", rel), logger.Err(err))
		rec.Orphan = true
		rec.Title = titleFromPath(rel)
		return rec
	}
	if !utf8.Valid(content) {
		logger.Warn("orphaning non-UTF8 document", logger.String("path", rel))
		rec.Orphan = true
		rec.Title = titleFromPath(rel)
		return rec
	}

	state, hdr, body := parseHeader(content)
	rec.HeaderState = state
	rec.Header = hdr
	if state == manifest.HeaderMalformed {
		logger.Debug("malformed header block", logger.String("path", rel))
	}
	if hdr != nil && hdr.Redirect {
		rec.IsRedirect = true
		rec.MovedTo = hdr.MovedTo
	}

	rec.Fingerprint = Fingerprint(content)
	rec.Title = firstHeading(body)
	if rec.Title == "" {
		rec.Title = titleFromPath(rel)
	}
	return rec
}

// Fingerprint hashes whitespace-normalized content so that formatting-only
// differences (indentation, line endings) still group as exact duplicates.
func Fingerprint(content []byte) string {
	normalized := strings.Join(strings.Fields(string(content)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)
}

// titleFromPath derives a display title from the filename:
// "deployment_guide.md" becomes "Deployment Guide".
func titleFromPath(rel string) string {
	base := filepath.Base(rel)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return cases.Title(language.English).String(strings.ToLower(base))
}
