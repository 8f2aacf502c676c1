package types

// DocumentReport is the per-document section of the final report.
// Blocks are always in ordinal order.
type DocumentReport struct {
	// Document is the document path relative to the scan root.
	Document string `json:"document" yaml:"document" msgpack:"document"`
	// Malformed is true when extraction failed for this document.
	Malformed bool `json:"malformed,omitempty" yaml:"malformed,omitempty" msgpack:"malformed,omitempty"`
	// Error describes the extraction failure when Malformed is set.
	Error string `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
	// Blocks holds one terminal record per extracted block, ordinal order.
	Blocks []BlockResult `json:"blocks" yaml:"blocks" msgpack:"blocks"`
}

// Counts returns per-status totals for the document.
func (d *DocumentReport) Counts() Summary {
	s := Summary{Documents: 1, Blocks: len(d.Blocks)}
	if d.Malformed {
		s.Malformed = 1
	}
	for i := range d.Blocks {
		switch d.Blocks[i].Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusErrored:
			s.Errored++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Summary holds aggregate counts for an invocation.
type Summary struct {
	Documents int `json:"documents" yaml:"documents" msgpack:"documents"`
	Malformed int `json:"malformed" yaml:"malformed" msgpack:"malformed"`
	Blocks    int `json:"blocks" yaml:"blocks" msgpack:"blocks"`
	Passed    int `json:"passed" yaml:"passed" msgpack:"passed"`
	Failed    int `json:"failed" yaml:"failed" msgpack:"failed"`
	Errored   int `json:"errored" yaml:"errored" msgpack:"errored"`
	Skipped   int `json:"skipped" yaml:"skipped" msgpack:"skipped"`
}

// Add accumulates another summary into s.
func (s *Summary) Add(other Summary) {
	s.Documents += other.Documents
	s.Malformed += other.Malformed
	s.Blocks += other.Blocks
	s.Passed += other.Passed
	s.Failed += other.Failed
	s.Errored += other.Errored
	s.Skipped += other.Skipped
}

// Clean returns true if no runnable block failed or errored and no
// document was malformed.
func (s *Summary) Clean() bool {
	return s.Failed == 0 && s.Errored == 0 && s.Malformed == 0
}
