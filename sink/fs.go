package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StdoutPath is the destination that writes the report to standard output.
const StdoutPath = "-"

// FSSink writes the report to a local file, creating parent
// directories as needed. The destination "-" writes to stdout so the
// report can be piped while logs stay on stderr.
type FSSink struct {
	path string
}

// NewFSSink creates a filesystem sink for path.
func NewFSSink(path string) *FSSink {
	return &FSSink{path: path}
}

// Verify FSSink implements the Sink interface.
var _ Sink = (*FSSink)(nil)

// Write stores the report body.
func (s *FSSink) Write(_ context.Context, body []byte) error {
	if s.path == StdoutPath {
		if _, err := os.Stdout.Write(body); err != nil {
			return fmt.Errorf("failed to write report to stdout: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", s.path, err)
	}
	return nil
}

// Destination returns the file path.
func (s *FSSink) Destination() string {
	if s.path == StdoutPath {
		return "stdout"
	}
	return s.path
}
