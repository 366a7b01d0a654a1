/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scanner

import (
	"bytes"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/docguard/internal/manifest"
)

// Header blocks sit at the very top of a document, delimited either by
// "---" lines (YAML) or "+++" lines (TOML). A parse failure downgrades to
// MalformedHeader; it never aborts the scan.

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

// splitHeaderBlock returns the raw header block (without delimiters), the
// delimiter that opened it, and the remaining body. When the document has
// no header block, raw is nil and body is the full content.
func splitHeaderBlock(content []byte) (raw []byte, delim string, body []byte) {
	trimmed := bytes.TrimLeft(content, "\uFEFF") // tolerate a UTF-8 BOM
	for _, d := range []string{yamlDelimiter, tomlDelimiter} {
		open := []byte(d + "\n")
		if !bytes.HasPrefix(trimmed, open) {
			continue
		}
		rest := trimmed[len(open):]
		if bytes.HasPrefix(rest, []byte(d)) {
			// Close delimiter right after the opener: an empty header.
			return rest[:0], d, bytes.TrimPrefix(rest[len(d):], []byte("\n"))
		}
		closeIdx := bytes.Index(rest, []byte("\n"+d))
		if closeIdx < 0 {
			// Opening delimiter with no close: malformed, not absent.
			return trimmed, d, nil
		}
		raw = rest[:closeIdx]
		body = rest[closeIdx+len(d)+1:]
		body = bytes.TrimPrefix(body, []byte("\n"))
		return raw, d, body
	}
	return nil, "", trimmed
}

// parseHeader interprets the top of a document. Unrecognized keys in the
// block are ignored; only a block that fails to parse at all is malformed.
func parseHeader(content []byte) (manifest.HeaderState, *manifest.Header, []byte) {
	raw, delim, body := splitHeaderBlock(content)
	if raw == nil && delim == "" {
		return manifest.HeaderMissing, nil, body
	}
	if body == nil && raw != nil && delim != "" {
		// Unterminated block.
		return manifest.HeaderMalformed, nil, raw
	}

	var hdr manifest.Header
	var err error
	switch delim {
	case tomlDelimiter:
		err = toml.Unmarshal(raw, &hdr)
	default:
		err = yaml.Unmarshal(raw, &hdr)
	}
	if err != nil {
		return manifest.HeaderMalformed, nil, body
	}
	return manifest.HeaderPresent, &hdr, body
}

// firstHeading returns the text of the first ATX heading in body, or "".
func firstHeading(body []byte) string {
	inFence := false
	for _, line := range strings.Split(string(body), "\n") {
		trimmedLine := strings.TrimSpace(line)
		if strings.HasPrefix(trimmedLine, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmedLine, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmedLine, "#"))
		}
	}
	return ""
}
