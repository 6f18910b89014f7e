package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Warn("registry seeded with %d systems", 3)
	out := buf.String()
	if !strings.Contains(out, "registry seeded with 3 systems") {
		t.Errorf("missing message in %q", out)
	}
	if !strings.Contains(out, "fhirmodel") {
		t.Errorf("missing component in %q", out)
	}
}

func TestSetLevelAndDisable(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected debug output after SetLevel, got %q", buf.String())
	}

	buf.Reset()
	l.Disable()
	l.Error("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
	if l.Level() != LevelNone {
		t.Errorf("Level() = %v, want none", l.Level())
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, LevelInfo)
	l.SetPrefix("fhirlint")
	l.Info("validated %s", "patient.json")

	out := buf.String()
	for _, want := range []string{`"level":"info"`, `"component":"fhirlint"`, `"message":"validated patient.json"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"trace", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"none", LevelNone, false},
		{"disabled", LevelNone, false},
		{"loud", LevelNone, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
