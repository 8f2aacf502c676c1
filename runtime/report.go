package runtime

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/fenceline-io/fenceline/metrics"
	"github.com/fenceline-io/fenceline/types"
)

// ReportFormat selects a report encoding.
type ReportFormat string

const (
	// FormatJSON is indented JSON, the default.
	FormatJSON ReportFormat = "json"
	// FormatYAML is YAML, for human-edited pipelines.
	FormatYAML ReportFormat = "yaml"
	// FormatMsgpack is compact binary msgpack, for machine consumers.
	FormatMsgpack ReportFormat = "msgpack"
)

// ParseReportFormat validates a format string.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown report format %q (expected json, yaml, or msgpack)", s)
	}
}

// FormatFromPath infers the report format from a file extension.
// Unknown extensions default to JSON.
func FormatFromPath(path string) ReportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Report is the complete output of one invocation. Identical inputs
// produce identical reports modulo the timing and id fields.
type Report struct {
	// Version is the harness version that produced the report.
	Version string `json:"version" yaml:"version" msgpack:"version"`
	// InvocationID uniquely identifies this invocation.
	InvocationID string `json:"invocation_id" yaml:"invocation_id" msgpack:"invocation_id"`
	// Root is the scan root as given on the command line.
	Root string `json:"root" yaml:"root" msgpack:"root"`
	// StartedAt is the invocation start time, RFC 3339.
	StartedAt string `json:"started_at" yaml:"started_at" msgpack:"started_at"`
	// DurationMs is the total invocation wall-clock time.
	DurationMs int64 `json:"duration_ms" yaml:"duration_ms" msgpack:"duration_ms"`
	// Summary holds the aggregate counts.
	Summary types.Summary `json:"summary" yaml:"summary" msgpack:"summary"`
	// Documents holds per-document results, sorted by path.
	Documents []types.DocumentReport `json:"documents" yaml:"documents" msgpack:"documents"`
	// Metrics is the invocation metrics snapshot, when collected.
	Metrics *metrics.Snapshot `json:"metrics,omitempty" yaml:"metrics,omitempty" msgpack:"metrics,omitempty"`
}

// BuildReport assembles the report envelope from finalized results.
func BuildReport(invocationID, root string, startedAt time.Time, duration time.Duration, summary types.Summary, docs []types.DocumentReport, snap *metrics.Snapshot) *Report {
	return &Report{
		Version:      types.Version,
		InvocationID: invocationID,
		Root:         root,
		StartedAt:    startedAt.UTC().Format(time.RFC3339),
		DurationMs:   duration.Milliseconds(),
		Summary:      summary,
		Documents:    docs,
		Metrics:      snap,
	}
}

// Encode serializes the report in the requested format.
func (r *Report) Encode(format ReportFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	case FormatYAML:
		return yaml.Marshal(r)
	case FormatMsgpack:
		return msgpack.Marshal(r)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// DecodeReport deserializes a report in the given format.
func DecodeReport(data []byte, format ReportFormat) (*Report, error) {
	var r Report
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	case FormatYAML:
		err = yaml.Unmarshal(data, &r)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &r)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s report: %w", format, err)
	}
	return &r, nil
}
