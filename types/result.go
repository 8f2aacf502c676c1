package types

// RunStatus is the terminal status of a block in the final report.
type RunStatus string

const (
	// StatusPassed indicates the snippet executed with exit code 0.
	StatusPassed RunStatus = "passed"
	// StatusFailed indicates the snippet executed and exited non-zero.
	StatusFailed RunStatus = "failed"
	// StatusErrored indicates the snippet could not complete (timeout,
	// missing toolchain, launch failure).
	StatusErrored RunStatus = "errored"
	// StatusSkipped indicates the block was not runnable and was never dispatched.
	StatusSkipped RunStatus = "skipped"
)

// IsTerminal returns true for statuses that may appear in a final report.
// Every extracted block must end in exactly one terminal status.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusErrored, StatusSkipped:
		return true
	default:
		return false
	}
}

// Reason constants for errored and skipped results.
const (
	// ReasonTimeout marks a snippet killed at the execution deadline.
	ReasonTimeout = "timeout"
	// ReasonToolchainMissing marks a snippet whose language toolchain was absent.
	ReasonToolchainMissing = "toolchain_missing"
	// ReasonLaunchFailure marks a snippet whose subprocess failed to start.
	ReasonLaunchFailure = "launch_failure"
	// ReasonCanceled marks a snippet aborted by a top-level interrupt.
	ReasonCanceled = "canceled"
	// ReasonNotRunnable marks a block skipped by classification.
	ReasonNotRunnable = "not_runnable"
	// ReasonLanguageFilter marks a runnable block excluded by --language.
	ReasonLanguageFilter = "language_filter"
)

// BlockResult is the terminal record for one block.
// Created by runner dispatch (or the skip path) and owned by the
// aggregator for the lifetime of a single invocation.
type BlockResult struct {
	// Document is the document path relative to the scan root.
	Document string `json:"document" yaml:"document" msgpack:"document"`
	// Ordinal is the block's zero-based position within the document.
	Ordinal int `json:"ordinal" yaml:"ordinal" msgpack:"ordinal"`
	// Language is the declared fence tag.
	Language string `json:"language,omitempty" yaml:"language,omitempty" msgpack:"language,omitempty"`
	// Section is the enclosing heading title.
	Section string `json:"section,omitempty" yaml:"section,omitempty" msgpack:"section,omitempty"`
	// Line is the 1-based opening fence line.
	Line int `json:"line" yaml:"line" msgpack:"line"`
	// Class is the classification verdict for the block.
	Class Classification `json:"class" yaml:"class" msgpack:"class"`
	// Status is the terminal status.
	Status RunStatus `json:"status" yaml:"status" msgpack:"status"`
	// Reason qualifies errored and skipped statuses.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty" msgpack:"reason,omitempty"`
	// ExitCode is the subprocess exit code. -1 when the process never
	// exited normally (timeout, launch failure, skip).
	ExitCode int `json:"exit_code" yaml:"exit_code" msgpack:"exit_code"`
	// Stdout is the captured standard output.
	Stdout string `json:"stdout,omitempty" yaml:"stdout,omitempty" msgpack:"stdout,omitempty"`
	// Stderr is the captured standard error.
	Stderr string `json:"stderr,omitempty" yaml:"stderr,omitempty" msgpack:"stderr,omitempty"`
	// DurationMs is the wall-clock execution time in milliseconds.
	DurationMs int64 `json:"duration_ms" yaml:"duration_ms" msgpack:"duration_ms"`
}
