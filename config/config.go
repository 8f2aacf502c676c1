// Package config handles YAML config file loading for fenceline run.
package config

import (
	"fmt"
	"path"
	"path/filepath"
	"time"
)

// DefaultTimeout bounds a single snippet execution.
const DefaultTimeout = 30 * time.Second

// DefaultParallel is the worker pool size over documents.
const DefaultParallel = 4

// Config represents a fenceline.yaml configuration file.
// All values are optional and act as defaults for fenceline run flags.
// CLI flags always override config values.
type Config struct {
	// Languages maps canonical language keys to toolchains. Merged over
	// the built-in defaults; an entry with an empty command removes the
	// default for that language.
	Languages map[string]Toolchain `yaml:"languages"`
	// Timeout is the per-snippet execution timeout.
	Timeout Duration `yaml:"timeout"`
	// Parallel is the number of documents processed concurrently.
	Parallel int `yaml:"parallel"`
	// Documents holds per-document execution rules; first match wins.
	Documents []DocumentRule `yaml:"documents"`
	// Report configures the report sink.
	Report ReportConfig `yaml:"report"`
	// Adapter configures the completion notification adapter.
	Adapter AdapterConfig `yaml:"adapter"`
}

// Toolchain describes how to execute snippets of one language.
// The snippet body is written to a file with Ext inside the scoped
// working directory; the command is invoked with Args plus that file.
type Toolchain struct {
	// Command is the interpreter or runner binary.
	Command string `yaml:"command"`
	// Args precede the snippet file path on the command line.
	Args []string `yaml:"args"`
	// Ext is the snippet file extension, dot included.
	Ext string `yaml:"ext"`
}

// DocumentRule marks execution semantics for matching documents.
// Match is a path glob tested against the root-relative document path
// and, failing that, its base name.
type DocumentRule struct {
	Match string `yaml:"match"`
	// Sequential declares that later blocks depend on state from earlier
	// ones: blocks share a single working directory and always run in
	// ordinal order.
	Sequential bool `yaml:"sequential"`
	// Independent declares that the document's runnable blocks may run
	// concurrently. Results are still reported in ordinal order.
	// Ignored when Sequential is also set: a declared state dependency
	// always wins.
	Independent bool `yaml:"independent"`
}

// Matches reports whether the rule applies to the given document path.
func (r *DocumentRule) Matches(docPath string) bool {
	if r.Match == "" {
		return false
	}
	if ok, _ := path.Match(r.Match, docPath); ok {
		return true
	}
	ok, _ := path.Match(r.Match, filepath.Base(docPath))
	return ok
}

// ReportConfig configures the machine-readable report sink.
type ReportConfig struct {
	// Path is the report destination: a filesystem path, "-" for stdout,
	// or "s3://bucket/key". Empty disables the report file.
	Path string `yaml:"path"`
	// Format is json, yaml, or msgpack. Empty derives from the path
	// extension, defaulting to json.
	Format string `yaml:"format"`
	// Region is the AWS region for s3 destinations.
	Region string `yaml:"region"`
	// Endpoint is a custom S3 endpoint for S3-compatible providers.
	Endpoint string `yaml:"endpoint"`
	// S3PathStyle forces path-style addressing (MinIO, R2).
	S3PathStyle bool `yaml:"s3_path_style"`
}

// AdapterConfig configures the completion notification adapter.
type AdapterConfig struct {
	// Type is "webhook" or "redis". Empty disables notification.
	Type string `yaml:"type"`
	// URL is the webhook endpoint or redis connection URL.
	URL string `yaml:"url"`
	// Channel is the redis pub/sub channel.
	Channel string `yaml:"channel,omitempty"`
	// Headers are custom HTTP headers for the webhook adapter.
	Headers map[string]string `yaml:"headers,omitempty"`
	// Timeout bounds a single publish attempt.
	Timeout Duration `yaml:"timeout,omitempty"`
	// Retries is the publish retry budget.
	Retries *int `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// RuleFor returns the first matching document rule. The zero rule
// (sequential execution per block in its own working directory) applies
// when nothing matches.
func (c *Config) RuleFor(docPath string) DocumentRule {
	for _, rule := range c.Documents {
		if rule.Matches(docPath) {
			return rule
		}
	}
	return DocumentRule{}
}

// EffectiveTimeout returns the configured timeout or the default.
func (c *Config) EffectiveTimeout() time.Duration {
	if c.Timeout.Duration > 0 {
		return c.Timeout.Duration
	}
	return DefaultTimeout
}

// EffectiveParallel returns the configured parallelism or the default.
func (c *Config) EffectiveParallel() int {
	if c.Parallel > 0 {
		return c.Parallel
	}
	return DefaultParallel
}
