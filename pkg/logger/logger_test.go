package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", TraceLevel},
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"WARN", WarnLevel},
		{"Error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if TraceLevel.String() != "TRACE" || ErrorLevel.String() != "ERROR" {
		t.Fatalf("unexpected level strings: %s %s", TraceLevel, ErrorLevel)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: WarnLevel, Component: "docguard"}); err != nil {
		t.Fatal(err)
	}
	SetOutput(&buf)

	Info("should be filtered")
	Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Fatalf("info message leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn message missing: %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: InfoLevel, JSON: true, Component: "docguard"}); err != nil {
		t.Fatal(err)
	}
	SetOutput(&buf)

	Info("structured message", String("path", "guides/setup.md"), Int("count", 3))

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Message != "structured message" || entry.Component != "docguard" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Fields["path"] != "guides/setup.md" {
		t.Fatalf("missing field: %+v", entry.Fields)
	}
}

func TestDryRunPrefix(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: InfoLevel, DryRun: true, Component: "docguard"}); err != nil {
		t.Fatal(err)
	}
	SetOutput(&buf)

	Info("would write manifest")
	if !strings.Contains(buf.String(), "[DRY-RUN]") {
		t.Fatalf("dry-run marker missing: %q", buf.String())
	}
}
