package config

import (
	"os/exec"
	"sort"
)

// DefaultToolchains are the built-in language runners. Keys are
// canonical language names as produced by classify.Canonical.
func DefaultToolchains() map[string]Toolchain {
	return map[string]Toolchain{
		"python":     {Command: "python3", Ext: ".py"},
		"ruby":       {Command: "ruby", Ext: ".rb"},
		"sh":         {Command: "sh", Ext: ".sh"},
		"javascript": {Command: "node", Ext: ".js"},
		"elixir":     {Command: "elixir", Ext: ".exs"},
		"go":         {Command: "go", Args: []string{"run"}, Ext: ".go"},
	}
}

// ResolvedToolchains is the merged, availability-checked toolchain set
// for one invocation.
type ResolvedToolchains struct {
	// Available maps language keys to usable toolchains.
	Available map[string]Toolchain
	// Missing holds languages whose configured command was not found on
	// PATH, sorted for deterministic reporting.
	Missing []string
}

// Has reports whether a usable toolchain exists for the language.
func (r *ResolvedToolchains) Has(lang string) bool {
	_, ok := r.Available[lang]
	return ok
}

// IsMissing reports whether the language is configured but absent.
func (r *ResolvedToolchains) IsMissing(lang string) bool {
	for _, m := range r.Missing {
		if m == lang {
			return true
		}
	}
	return false
}

// ResolveToolchains merges config overrides over the defaults and
// probes PATH for each command. Languages with an empty command are
// removed entirely (neither available nor missing).
func (c *Config) ResolveToolchains() *ResolvedToolchains {
	merged := DefaultToolchains()
	for lang, tc := range c.Languages {
		if tc.Command == "" {
			delete(merged, lang)
			continue
		}
		merged[lang] = tc
	}

	resolved := &ResolvedToolchains{Available: make(map[string]Toolchain, len(merged))}
	for lang, tc := range merged {
		if _, err := exec.LookPath(tc.Command); err != nil {
			resolved.Missing = append(resolved.Missing, lang)
			continue
		}
		resolved.Available[lang] = tc
	}
	sort.Strings(resolved.Missing)
	return resolved
}
