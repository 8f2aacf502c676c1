// Package adapter defines the completion-notification boundary.
//
// Adapters publish a summary event when an invocation finishes so
// downstream systems (CI annotations, chat notifiers, dashboards) can
// react without parsing the full report. The CLI owns adapter
// lifecycle; users provide configuration only.
package adapter

import "context"

// HarnessCompletedEvent is the payload published when an invocation
// finishes. It carries the aggregate counts, never per-block output.
type HarnessCompletedEvent struct {
	EventType    string `json:"event_type"` // always "harness_completed"
	InvocationID string `json:"invocation_id"`
	Root         string `json:"root"`
	Documents    int    `json:"documents"`
	Malformed    int    `json:"malformed"`
	Blocks       int    `json:"blocks"`
	Passed       int    `json:"passed"`
	Failed       int    `json:"failed"`
	Errored      int    `json:"errored"`
	Skipped      int    `json:"skipped"`
	Clean        bool   `json:"clean"`
	ReportPath   string `json:"report_path,omitempty"`
	Timestamp    string `json:"timestamp"` // ISO 8601
	DurationMs   int64  `json:"duration_ms"`
}

// EventTypeCompleted is the EventType value for completion events.
const EventTypeCompleted = "harness_completed"

// Adapter publishes completion events to a downstream system.
// Implementations must be safe for single-use per invocation.
type Adapter interface {
	// Publish sends a completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *HarnessCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
