/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scanner

import (
	"testing"

	"github.com/fulmenhq/docguard/internal/manifest"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantState manifest.HeaderState
		wantOwner string
		wantType  string
	}{
		{
			name:      "yaml_header",
			content:   "---\nstatus: active\ntype: guide\nowner: platform\n---\n\n# Title\n",
			wantState: manifest.HeaderPresent,
			wantOwner: "platform",
			wantType:  "guide",
		},
		{
			name:      "toml_header",
			content:   "+++\nstatus = \"active\"\ntype = \"runbook\"\nowner = \"sre\"\n+++\n\n# Title\n",
			wantState: manifest.HeaderPresent,
			wantOwner: "sre",
			wantType:  "runbook",
		},
		{
			name:      "no_header",
			content:   "# Just a heading\n\nBody text.\n",
			wantState: manifest.HeaderMissing,
		},
		{
			name:      "unterminated_block_is_malformed",
			content:   "---\nstatus: active\nowner: platform\n\n# Title\n",
			wantState: manifest.HeaderMalformed,
		},
		{
			name:      "unparseable_yaml_is_malformed",
			content:   "---\nstatus: [unclosed\n---\n\n# Title\n",
			wantState: manifest.HeaderMalformed,
		},
		{
			name:      "unknown_keys_ignored",
			content:   "---\nowner: docs\nfrobnicate: yes\n---\n\n# Title\n",
			wantState: manifest.HeaderPresent,
			wantOwner: "docs",
		},
		{
			name:      "empty_block_is_present",
			content:   "---\n---\n\n# Title\n",
			wantState: manifest.HeaderPresent,
		},
		{
			name:      "bom_tolerated",
			content:   "\uFEFF---\nowner: docs\n---\n\n# Title\n",
			wantState: manifest.HeaderPresent,
			wantOwner: "docs",
		},
		{
			name:      "dashes_later_in_body_not_a_header",
			content:   "# Title\n\n---\n\nA horizontal rule, not a header.\n",
			wantState: manifest.HeaderMissing,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state, hdr, _ := parseHeader([]byte(tc.content))
			if state != tc.wantState {
				t.Fatalf("state = %q, want %q", state, tc.wantState)
			}
			if tc.wantState != manifest.HeaderPresent {
				if hdr != nil {
					t.Fatalf("expected nil header for state %q", state)
				}
				return
			}
			if hdr.Owner != tc.wantOwner {
				t.Errorf("owner = %q, want %q", hdr.Owner, tc.wantOwner)
			}
			if tc.wantType != "" && hdr.Type != tc.wantType {
				t.Errorf("type = %q, want %q", hdr.Type, tc.wantType)
			}
		})
	}
}

func TestParseHeaderRedirect(t *testing.T) {
	content := "---\nstatus: archived\nredirect: true\nmoved_to: guides/new-home.md\n---\n\n# Moved\n"
	state, hdr, _ := parseHeader([]byte(content))
	if state != manifest.HeaderPresent {
		t.Fatalf("state = %q, want present", state)
	}
	if !hdr.Redirect || hdr.MovedTo != "guides/new-home.md" {
		t.Fatalf("redirect not parsed: %+v", hdr)
	}
}

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain", "# Deployment Guide\n\nBody.\n", "Deployment Guide"},
		{"later_line", "Intro text.\n\n## Setup\n", "Setup"},
		{"skips_fenced_code", "```\n# not a heading\n```\n# Real Heading\n", "Real Heading"},
		{"none", "No headings here.\n", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := firstHeading([]byte(tc.body)); got != tc.want {
				t.Fatalf("firstHeading = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFingerprintNormalizesWhitespace(t *testing.T) {
	a := Fingerprint([]byte("# Title\n\nSome   body text.\n"))
	b := Fingerprint([]byte("# Title\r\n\r\n  Some body\ttext.\r\n"))
	if a != b {
		t.Fatalf("whitespace-only variants should share a fingerprint")
	}
	c := Fingerprint([]byte("# Title\n\nDifferent body text.\n"))
	if a == c {
		t.Fatalf("different content must not collide")
	}
}

func TestTitleFromPath(t *testing.T) {
	if got := titleFromPath("guides/deployment_guide.md"); got != "Deployment Guide" {
		t.Fatalf("titleFromPath = %q", got)
	}
	if got := titleFromPath("api/http-reference.md"); got != "Http Reference" {
		t.Fatalf("titleFromPath = %q", got)
	}
}
