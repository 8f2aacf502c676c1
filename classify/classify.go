// Package classify implements the snippet classifier.
//
// Classification is a pure function of a block's tag and text. The
// policy is ordered and deterministic:
//
//  1. Absent tag, transcript-indicator tag, or shell-prompt content
//     → transcript.
//  2. Prose-illustration tag → prose-illustration.
//  3. Known runnable tag whose content is a complete top-level unit
//     → runnable.
//  4. Otherwise → fragment. Ambiguity always defaults to fragment; the
//     recorded reason lets callers log a warning.
package classify

import (
	"strings"

	"github.com/fenceline-io/fenceline/types"
)

// Ambiguity reasons recorded on fragment verdicts. Callers treat these
// as warnings, never failures.
const (
	ReasonEmptyBlock      = "empty block"
	ReasonUnbalanced      = "unbalanced delimiters"
	ReasonNoEntry         = "no entry construct"
	ReasonUnknownLanguage = "unknown language"
)

// transcriptTags mark blocks that are captured sessions, not source.
var transcriptTags = map[string]bool{
	"console":       true,
	"shell-session": true,
	"terminal":      true,
	"output":        true,
	"session":       true,
}

// proseTags mark non-code illustrations.
var proseTags = map[string]bool{
	"text":      true,
	"plain":     true,
	"plaintext": true,
	"txt":       true,
	"mermaid":   true,
	"diff":      true,
}

// transcriptPrompts are line prefixes that betray a pasted session even
// under a source-language tag.
var transcriptPrompts = []string{
	"$ ",
	">>> ",
	"irb>",
	"irb(",
	"iex>",
	"iex(",
}

// Classify assigns a classification to the block. Pure; no side effects.
func Classify(b types.Block) types.ClassifiedBlock {
	class, reason := classify(b)
	return types.ClassifiedBlock{Block: b, Class: class, Reason: reason}
}

// ClassifyAll classifies blocks in order, preserving ordinals.
func ClassifyAll(blocks []types.Block) []types.ClassifiedBlock {
	out := make([]types.ClassifiedBlock, len(blocks))
	for i, b := range blocks {
		out[i] = Classify(b)
	}
	return out
}

func classify(b types.Block) (types.Classification, string) {
	tag := strings.ToLower(strings.TrimSpace(b.Language))

	// Rule 1: untagged or transcript-tagged blocks are transcripts.
	if tag == "" || transcriptTags[tag] {
		return types.ClassTranscript, ""
	}
	if looksLikeSession(b.Text) {
		return types.ClassTranscript, "shell prompt content"
	}

	// Rule 2: explicit prose illustrations.
	if proseTags[tag] {
		return types.ClassProse, ""
	}

	// Rule 3: known runnable language with a complete top-level unit.
	check, known := languageChecks[tag]
	if !known {
		return types.ClassFragment, ReasonUnknownLanguage
	}

	text := strings.TrimSpace(b.Text)
	if text == "" {
		return types.ClassFragment, ReasonEmptyBlock
	}
	if reason := check(text); reason != "" {
		return types.ClassFragment, reason
	}

	return types.ClassRunnable, ""
}

// looksLikeSession reports whether the first non-empty line starts with
// a shell or REPL prompt.
func looksLikeSession(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, prompt := range transcriptPrompts {
			if strings.HasPrefix(trimmed, prompt) {
				return true
			}
		}
		return false
	}
	return false
}

// Canonical returns the canonical language key for a tag (e.g. "py" →
// "python"). Unknown tags are returned unchanged.
func Canonical(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if canon, ok := languageAliases[tag]; ok {
		return canon
	}
	return tag
}
