// Package types defines core domain types for the fenceline harness.
//
//nolint:revive // types is a common Go package naming convention
package types

// Block is one fenced region extracted from a document.
// Immutable once extracted; the extractor produces, everything downstream reads.
type Block struct {
	// Document is the document path relative to the scan root.
	Document string `json:"document" yaml:"document" msgpack:"document"`
	// Ordinal is the zero-based position of the block within its document.
	Ordinal int `json:"ordinal" yaml:"ordinal" msgpack:"ordinal"`
	// Language is the declared fence tag. May be empty.
	Language string `json:"language,omitempty" yaml:"language,omitempty" msgpack:"language,omitempty"`
	// Text is the raw fenced content, delimiters excluded.
	Text string `json:"text" yaml:"text" msgpack:"text"`
	// Section is the nearest preceding heading title. May be empty.
	Section string `json:"section,omitempty" yaml:"section,omitempty" msgpack:"section,omitempty"`
	// Line is the 1-based line number of the opening fence.
	Line int `json:"line" yaml:"line" msgpack:"line"`
}

// Classification is the classifier's verdict for a block.
type Classification string

// Classification constants. The classifier assigns exactly one per block.
const (
	// ClassRunnable marks a complete, executable program unit.
	ClassRunnable Classification = "runnable"
	// ClassFragment marks an illustrative partial snippet.
	ClassFragment Classification = "fragment"
	// ClassTranscript marks captured command-line output or a session log.
	ClassTranscript Classification = "transcript"
	// ClassProse marks a non-code illustration (text, diagrams).
	ClassProse Classification = "prose-illustration"
)

// IsRunnable returns true if blocks of this class are dispatched to a toolchain.
func (c Classification) IsRunnable() bool {
	return c == ClassRunnable
}

// ClassifiedBlock is a Block plus its classification.
// Produced by the classifier; never mutated after creation.
type ClassifiedBlock struct {
	Block
	// Class is the classification verdict.
	Class Classification `json:"class" yaml:"class" msgpack:"class"`
	// Reason is a short heuristic note explaining the verdict, when one applies
	// (e.g. "unbalanced delimiters", "no entry construct").
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty" msgpack:"reason,omitempty"`
}
