package runtime

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fenceline-io/fenceline/types"
)

// IncompleteReportError indicates the final report would violate the
// exactly-once accounting: some extracted block has no terminal record,
// or a record arrived for a block that was never registered.
type IncompleteReportError struct {
	Document string
	Detail   string
}

func (e *IncompleteReportError) Error() string {
	return fmt.Sprintf("incomplete report for %s: %s", e.Document, e.Detail)
}

// Aggregator is the single writer of the final report. Document
// runners deliver complete per-document reports through Record; the
// aggregator owns ordering and the completeness check.
type Aggregator struct {
	mu       sync.Mutex
	expected map[string]int
	reports  map[string]*types.DocumentReport
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		expected: make(map[string]int),
		reports:  make(map[string]*types.DocumentReport),
	}
}

// ExpectDocument registers a document and its extracted block count
// before execution starts. Finalize fails unless every expected
// document has delivered a report covering exactly this many blocks.
func (a *Aggregator) ExpectDocument(path string, blocks int) {
	a.mu.Lock()
	a.expected[path] = blocks
	a.mu.Unlock()
}

// RecordMalformed registers a document whose extraction failed. The
// document appears in the final report with no blocks and the
// extraction error attached.
func (a *Aggregator) RecordMalformed(path, errMsg string) {
	a.mu.Lock()
	a.expected[path] = 0
	a.reports[path] = &types.DocumentReport{
		Document:  path,
		Malformed: true,
		Error:     errMsg,
		Blocks:    []types.BlockResult{},
	}
	a.mu.Unlock()
}

// Record stores a document report. Reports arrive from concurrent
// runners in arbitrary order; ordering happens in Finalize.
func (a *Aggregator) Record(report *types.DocumentReport) {
	if report == nil {
		return
	}
	a.mu.Lock()
	a.reports[report.Document] = report
	a.mu.Unlock()
}

// Finalize validates completeness and returns the ordered document
// reports plus the aggregate summary. Documents sort lexically by
// path; blocks are already in ordinal order within each document.
//
// Finalize returns an *IncompleteReportError when any expected
// document or block is unaccounted for, when an unregistered document
// delivered a report, or when any block lacks a terminal status.
func (a *Aggregator) Finalize() ([]types.DocumentReport, types.Summary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for path := range a.reports {
		if _, ok := a.expected[path]; !ok {
			return nil, types.Summary{}, &IncompleteReportError{
				Document: path,
				Detail:   "report delivered for unregistered document",
			}
		}
	}

	paths := make([]string, 0, len(a.expected))
	for path := range a.expected {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var summary types.Summary
	docs := make([]types.DocumentReport, 0, len(paths))
	for _, path := range paths {
		report, ok := a.reports[path]
		if !ok {
			return nil, types.Summary{}, &IncompleteReportError{
				Document: path,
				Detail:   "no report delivered",
			}
		}
		if want := a.expected[path]; len(report.Blocks) != want {
			return nil, types.Summary{}, &IncompleteReportError{
				Document: path,
				Detail:   fmt.Sprintf("expected %d block records, got %d", want, len(report.Blocks)),
			}
		}
		for i := range report.Blocks {
			b := &report.Blocks[i]
			if b.Ordinal != i {
				return nil, types.Summary{}, &IncompleteReportError{
					Document: path,
					Detail:   fmt.Sprintf("block at position %d has ordinal %d", i, b.Ordinal),
				}
			}
			if !b.Status.IsTerminal() {
				return nil, types.Summary{}, &IncompleteReportError{
					Document: path,
					Detail:   fmt.Sprintf("block %d has no terminal status", b.Ordinal),
				}
			}
		}
		summary.Add(report.Counts())
		docs = append(docs, *report)
	}

	return docs, summary, nil
}
