package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"

	"github.com/gofhir/model/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.Level() != logger.LevelWarn {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Strict || cfg.Constraints {
		t.Error("strict and constraints should default to false")
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.Output != OutputText {
		t.Errorf("Output = %q", cfg.Output)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FHIRLINT_STRICT", "true")
	t.Setenv("FHIRLINT_WORKERS", "3")
	t.Setenv("FHIRLINT_OUTPUT", "JSON")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Strict || cfg.Workers != 3 || cfg.Output != OutputJSON {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_FlagsOverrideEnvAndFile(t *testing.T) {
	t.Setenv("FHIRLINT_LOG_LEVEL", "error")
	file := filepath.Join(t.TempDir(), "fhirlint.yaml")
	if err := os.WriteFile(file, []byte("workers: 2\nconstraints: true\nlog_level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "warn", "")
	flags.Int("workers", 1, "")
	flags.Bool("constraints", false, "")
	if err := flags.Parse([]string{"--log-level=debug"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(file, flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Level() != logger.LevelDebug {
		t.Errorf("LogLevel = %q, want the flag value", cfg.LogLevel)
	}
	if cfg.Workers != 2 || !cfg.Constraints {
		t.Errorf("unset flags must not override the file: %+v", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"log level", "FHIRLINT_LOG_LEVEL", "chatty"},
		{"workers", "FHIRLINT_WORKERS", "0"},
		{"output", "FHIRLINT_OUTPUT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load("", nil); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for a missing config file")
	}
}
