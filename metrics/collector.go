// Package metrics provides per-invocation metrics collection.
//
// The Collector accumulates counters during a single harness
// invocation. It is a leaf package with no internal dependencies.
// Result counts are absorbed from the final summary rather than
// recorded live, avoiding double-counting between the dispatcher and
// the aggregator.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all collected metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Extraction
	DocumentsScanned   int64            `json:"documents_scanned" yaml:"documents_scanned" msgpack:"documents_scanned"`
	DocumentsMalformed int64            `json:"documents_malformed" yaml:"documents_malformed" msgpack:"documents_malformed"`
	BlocksExtracted    int64            `json:"blocks_extracted" yaml:"blocks_extracted" msgpack:"blocks_extracted"`
	BlocksByClass      map[string]int64 `json:"blocks_by_class,omitempty" yaml:"blocks_by_class,omitempty" msgpack:"blocks_by_class,omitempty"`

	// Dispatch
	SnippetsLaunched int64 `json:"snippets_launched" yaml:"snippets_launched" msgpack:"snippets_launched"`
	LaunchFailures   int64 `json:"launch_failures" yaml:"launch_failures" msgpack:"launch_failures"`
	Timeouts         int64 `json:"timeouts" yaml:"timeouts" msgpack:"timeouts"`

	// Results (absorbed from the final summary)
	Passed  int64 `json:"passed" yaml:"passed" msgpack:"passed"`
	Failed  int64 `json:"failed" yaml:"failed" msgpack:"failed"`
	Errored int64 `json:"errored" yaml:"errored" msgpack:"errored"`
	Skipped int64 `json:"skipped" yaml:"skipped" msgpack:"skipped"`

	// Sink
	SinkWriteSuccess int64 `json:"sink_write_success" yaml:"sink_write_success" msgpack:"sink_write_success"`
	SinkWriteFailure int64 `json:"sink_write_failure" yaml:"sink_write_failure" msgpack:"sink_write_failure"`

	// Dimensions (informational, set at construction)
	InvocationID string `json:"invocation_id,omitempty" yaml:"invocation_id,omitempty" msgpack:"invocation_id,omitempty"`
	Root         string `json:"root,omitempty" yaml:"root,omitempty" msgpack:"root,omitempty"`
}

// Collector accumulates metrics during a single invocation.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	documentsScanned   int64
	documentsMalformed int64
	blocksExtracted    int64
	blocksByClass      map[string]int64

	snippetsLaunched int64
	launchFailures   int64
	timeouts         int64

	passed  int64
	failed  int64
	errored int64
	skipped int64

	sinkWriteSuccess int64
	sinkWriteFailure int64

	invocationID string
	root         string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(invocationID, root string) *Collector {
	return &Collector{
		blocksByClass: make(map[string]int64),
		invocationID:  invocationID,
		root:          root,
	}
}

// IncDocumentScanned records a scanned document.
func (c *Collector) IncDocumentScanned() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.documentsScanned++
	c.mu.Unlock()
}

// IncDocumentMalformed records an extraction failure.
func (c *Collector) IncDocumentMalformed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.documentsMalformed++
	c.mu.Unlock()
}

// AddBlocks records extracted blocks and their classifications.
// class keys are string-typed to keep this package free of dependencies
// on the types package.
func (c *Collector) AddBlocks(count int, byClass map[string]int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.blocksExtracted += int64(count)
	for k, v := range byClass {
		c.blocksByClass[k] += v
	}
	c.mu.Unlock()
}

// IncSnippetLaunched records a subprocess launch.
func (c *Collector) IncSnippetLaunched() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.snippetsLaunched++
	c.mu.Unlock()
}

// IncLaunchFailure records a subprocess that failed to start.
func (c *Collector) IncLaunchFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.launchFailures++
	c.mu.Unlock()
}

// IncTimeout records a snippet killed at its deadline.
func (c *Collector) IncTimeout() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.timeouts++
	c.mu.Unlock()
}

// IncSinkWriteSuccess records a successful report sink write.
func (c *Collector) IncSinkWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sinkWriteSuccess++
	c.mu.Unlock()
}

// IncSinkWriteFailure records a failed report sink write.
func (c *Collector) IncSinkWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sinkWriteFailure++
	c.mu.Unlock()
}

// AbsorbSummary copies terminal status counts from the final summary.
// Called once after aggregation.
func (c *Collector) AbsorbSummary(passed, failed, errored, skipped int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.passed = int64(passed)
	c.failed = int64(failed)
	c.errored = int64(errored)
	c.skipped = int64(skipped)
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byClass := make(map[string]int64, len(c.blocksByClass))
	for k, v := range c.blocksByClass {
		byClass[k] = v
	}

	return Snapshot{
		DocumentsScanned:   c.documentsScanned,
		DocumentsMalformed: c.documentsMalformed,
		BlocksExtracted:    c.blocksExtracted,
		BlocksByClass:      byClass,

		SnippetsLaunched: c.snippetsLaunched,
		LaunchFailures:   c.launchFailures,
		Timeouts:         c.timeouts,

		Passed:  c.passed,
		Failed:  c.failed,
		Errored: c.errored,
		Skipped: c.skipped,

		SinkWriteSuccess: c.sinkWriteSuccess,
		SinkWriteFailure: c.sinkWriteFailure,

		InvocationID: c.invocationID,
		Root:         c.root,
	}
}
