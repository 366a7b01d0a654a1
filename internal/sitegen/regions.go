/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package sitegen

import (
	"fmt"
	"strings"
)

// Index documents are refreshed by merge, never overwrite: only content
// between matching begin/end markers is replaced, everything outside is
// preserved verbatim. A file without markers gets a region appended.

func beginMarker(name string) string { return fmt.Sprintf("<!-- docguard:begin %s -->", name) }
func endMarker(name string) string   { return fmt.Sprintf("<!-- docguard:end %s -->", name) }

// MergeRegion replaces the named delimited region in content with
// generated, or appends a new region when no markers exist.
func MergeRegion(content, name, generated string) string {
	begin := beginMarker(name)
	end := endMarker(name)
	region := begin + "\n" + strings.TrimRight(generated, "\n") + "\n" + end

	startIdx := strings.Index(content, begin)
	if startIdx < 0 {
		// No markers: append a fresh region at the end of the file.
		out := strings.TrimRight(content, "\n")
		if out != "" {
			out += "\n\n"
		}
		return out + region + "\n"
	}

	endIdx := strings.Index(content[startIdx:], end)
	if endIdx < 0 {
		// Begin without end: treat the rest of the file as the region.
		return content[:startIdx] + region + "\n"
	}
	endIdx = startIdx + endIdx + len(end)
	return content[:startIdx] + region + content[endIdx:]
}
