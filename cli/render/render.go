// Package render provides centralized output rendering for the
// fenceline CLI.
//
// Format selection rules:
//   - If stdout is a TTY, default to table
//   - If stdout is not a TTY, default to json
//   - --format always overrides the default
//   - Invalid formats are errors
//
// Color handling:
//   - --no-color affects table output only
//   - TUI mode keeps its own styling regardless of --no-color
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/fenceline-io/fenceline/cli/tui"
	"github.com/fenceline-io/fenceline/runtime"
	"github.com/fenceline-io/fenceline/types"
)

// Format represents an output format.
type Format string

// Supported output formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer creates a renderer from CLI context, applying the TTY
// default when no format was requested.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	if format == "" {
		if isTTY(os.Stdout) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}

	return &Renderer{
		format:  format,
		noColor: c.Bool("no-color"),
		out:     os.Stdout,
	}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
	}
}

// RenderReport outputs an invocation report in the configured format.
func (r *Renderer) RenderReport(report *runtime.Report) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(report)
	case FormatYAML:
		return r.renderYAML(report)
	case FormatTable:
		return r.renderReportTable(report)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderBlocks outputs classified blocks (the list command's payload).
func (r *Renderer) RenderBlocks(blocks []types.ClassifiedBlock) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(blocks)
	case FormatYAML:
		return r.renderYAML(blocks)
	case FormatTable:
		return r.renderBlocksTable(blocks)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// VersionInfo is the version command's payload.
type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
}

// RenderVersion outputs version information in the configured format.
func (r *Renderer) RenderVersion(v VersionInfo) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(v)
	case FormatYAML:
		return r.renderYAML(v)
	case FormatTable:
		_, err := fmt.Fprintf(r.out, "fenceline %s (commit: %s)\n", v.Version, v.Commit)
		return err
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderReportTUI opens the interactive report browser.
func (r *Renderer) RenderReportTUI(report *runtime.Report) error {
	return tui.RunInspect(report)
}

func (r *Renderer) renderJSON(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (r *Renderer) renderYAML(data any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}

func (r *Renderer) renderReportTable(report *runtime.Report) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "DOCUMENT\tORD\tLANG\tCLASS\tSTATUS\tTIME\tDETAIL")
	for di := range report.Documents {
		doc := &report.Documents[di]
		if doc.Malformed {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%s\t-\t%s\n",
				doc.Document, r.paint("malformed", string(types.StatusErrored)), doc.Error)
			continue
		}
		for bi := range doc.Blocks {
			b := &doc.Blocks[bi]
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				b.Document, b.Ordinal, orDash(b.Language), string(b.Class),
				r.paint(string(b.Status), string(b.Status)),
				formatMillis(b.DurationMs, b.Status), orDash(b.Reason))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := report.Summary
	fmt.Fprintf(r.out, "\n%d documents (%d malformed), %d blocks: %d passed, %d failed, %d errored, %d skipped\n",
		s.Documents, s.Malformed, s.Blocks, s.Passed, s.Failed, s.Errored, s.Skipped)
	return nil
}

func (r *Renderer) renderBlocksTable(blocks []types.ClassifiedBlock) error {
	if len(blocks) == 0 {
		fmt.Fprintln(r.out, "(no blocks)")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tORD\tLINE\tLANG\tCLASS\tSECTION\tREASON")
	for i := range blocks {
		b := &blocks[i]
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			b.Document, b.Ordinal, b.Line, orDash(b.Language),
			r.paintClass(b.Class), orDash(b.Section), orDash(b.Reason))
	}
	return w.Flush()
}

// paint colorizes text by status unless colors are disabled.
func (r *Renderer) paint(text, status string) string {
	if r.noColor {
		return text
	}
	return tui.StatusStyle(status).Render(text)
}

func (r *Renderer) paintClass(class types.Classification) string {
	if r.noColor {
		return string(class)
	}
	return tui.ClassStyle(class).Render(string(class))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatMillis renders a duration column entry; blocks that never ran
// show a dash.
func formatMillis(ms int64, status types.RunStatus) string {
	if status == types.StatusSkipped {
		return "-"
	}
	return fmt.Sprintf("%dms", ms)
}

// isTTY returns true if the writer is a TTY.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
