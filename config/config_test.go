package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("HOOK_TOKEN", "s3cret")

	yaml := `
timeout: 45s
parallel: 8
languages:
  python:
    command: python3.12
    ext: .py
  ruby:
    command: ""
documents:
  - match: "tutorial/*.md"
    sequential: true
  - match: "*.md"
    independent: true
report:
  path: out/report.json
adapter:
  type: webhook
  url: https://hooks.example.com/fenceline
  headers:
    Authorization: "Bearer ${HOOK_TOKEN}"
  timeout: 5s
`
	path := filepath.Join(t.TempDir(), "fenceline.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Timeout.Duration != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout.Duration)
	}
	if cfg.Parallel != 8 {
		t.Errorf("parallel = %d", cfg.Parallel)
	}
	if cfg.Languages["python"].Command != "python3.12" {
		t.Errorf("python toolchain = %+v", cfg.Languages["python"])
	}
	if cfg.Adapter.Headers["Authorization"] != "Bearer s3cret" {
		t.Errorf("env expansion failed: %q", cfg.Adapter.Headers["Authorization"])
	}
	if cfg.Adapter.Timeout.Duration != 5*time.Second {
		t.Errorf("adapter timeout = %v", cfg.Adapter.Timeout.Duration)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_AbsentGivesEmpty(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load optional: %v", err)
	}
	if cfg.EffectiveTimeout() != DefaultTimeout {
		t.Errorf("timeout = %v, want default", cfg.EffectiveTimeout())
	}
	if cfg.EffectiveParallel() != DefaultParallel {
		t.Errorf("parallel = %d, want default", cfg.EffectiveParallel())
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("timeout: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestDuration_InvalidString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("timeout: soon\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestRuleFor_FirstMatchWins(t *testing.T) {
	cfg := &Config{Documents: []DocumentRule{
		{Match: "tutorial/*.md", Sequential: true},
		{Match: "*.md", Independent: true},
	}}

	if rule := cfg.RuleFor("tutorial/setup.md"); !rule.Sequential {
		t.Errorf("tutorial rule = %+v, want sequential", rule)
	}
	// Base-name fallback: "*.md" matches the base of a nested path.
	if rule := cfg.RuleFor("guides/other.md"); !rule.Independent {
		t.Errorf("fallback rule = %+v, want independent", rule)
	}
	if rule := cfg.RuleFor("README.txt"); rule.Sequential || rule.Independent {
		t.Errorf("non-matching path got rule %+v", rule)
	}
}

func TestResolveToolchains_OverridesAndRemovals(t *testing.T) {
	cfg := &Config{Languages: map[string]Toolchain{
		"python": {Command: "nonexistent-python-binary-xyz", Ext: ".py"},
		"ruby":   {Command: ""},
	}}

	resolved := cfg.ResolveToolchains()

	// Removed entirely: neither available nor missing.
	if resolved.Has("ruby") || resolved.IsMissing("ruby") {
		t.Error("ruby should be removed, not resolved")
	}
	// Overridden to a command that is not on PATH.
	if resolved.Has("python") {
		t.Error("python override should not resolve")
	}
	if !resolved.IsMissing("python") {
		t.Error("python should be reported missing")
	}
	// sh ships with every POSIX environment this test runs on.
	if !resolved.Has("sh") {
		t.Error("sh default should resolve")
	}
}
