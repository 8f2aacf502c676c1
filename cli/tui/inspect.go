package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenceline-io/fenceline/runtime"
	"github.com/fenceline-io/fenceline/types"
)

// row is one selectable line in the block list. A malformed document
// contributes a single row with block == nil.
type row struct {
	doc   *types.DocumentReport
	block *types.BlockResult
}

// InspectModel is the Bubble Tea model for browsing a report.
type InspectModel struct {
	report   *runtime.Report
	rows     []row
	cursor   int
	detail   viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
}

// NewInspectModel creates a model over a loaded report.
func NewInspectModel(report *runtime.Report) InspectModel {
	var rows []row
	for di := range report.Documents {
		doc := &report.Documents[di]
		if doc.Malformed {
			rows = append(rows, row{doc: doc})
			continue
		}
		for bi := range doc.Blocks {
			rows = append(rows, row{doc: doc, block: &doc.Blocks[bi]})
		}
	}
	return InspectModel{report: report, rows: rows}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		detailHeight := m.height/2 - 2
		if detailHeight < 3 {
			detailHeight = 3
		}
		if !m.ready {
			m.detail = viewport.New(m.width-4, detailHeight)
			m.ready = true
		} else {
			m.detail.Width = m.width - 4
			m.detail.Height = detailHeight
		}
		m.detail.SetContent(m.detailContent())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.detail.SetContent(m.detailContent())
				m.detail.GotoTop()
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.detail.SetContent(m.detailContent())
				m.detail.GotoTop()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	s := m.report.Summary
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Report %s", m.report.InvocationID)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Root:"), ValueStyle.Render(m.report.Root)))
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		LabelStyle.Render("Summary:"),
		ValueStyle.Render(fmt.Sprintf("%d docs, %d blocks: %d passed, %d failed, %d errored, %d skipped",
			s.Documents, s.Blocks, s.Passed, s.Failed, s.Errored, s.Skipped))))

	b.WriteString(m.listView())
	b.WriteString("\n")
	if m.ready {
		b.WriteString(BoxStyle.Render(m.detail.View()))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓ select block · pgup/pgdn scroll output · q quit"))
	return b.String()
}

// listView renders the block list with the cursor row highlighted,
// windowed around the cursor when the list exceeds the pane.
func (m *InspectModel) listView() string {
	visible := m.height/2 - 6
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.rows[i]
		line := m.rowLabel(r)
		if i == m.cursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(SkipStyle.Render("(no blocks)\n"))
	}
	return b.String()
}

func (m *InspectModel) rowLabel(r row) string {
	if r.block == nil {
		return fmt.Sprintf("%s %s",
			StatusStyle("malformed").Render("malformed"), r.doc.Document)
	}
	b := r.block
	return fmt.Sprintf("%s %s #%d %s",
		StatusStyle(string(b.Status)).Render(fmt.Sprintf("%-7s", b.Status)),
		b.Document, b.Ordinal, b.Language)
}

// detailContent builds the detail pane text for the cursor row.
func (m *InspectModel) detailContent() string {
	if m.cursor >= len(m.rows) {
		return ""
	}
	r := m.rows[m.cursor]
	if r.block == nil {
		return fmt.Sprintf("%s\n\n%s", r.doc.Document, r.doc.Error)
	}

	b := r.block
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s #%d (line %d)\n", b.Document, b.Ordinal, b.Line)
	if b.Section != "" {
		fmt.Fprintf(&sb, "section: %s\n", b.Section)
	}
	fmt.Fprintf(&sb, "class: %s  status: %s", b.Class, b.Status)
	if b.Reason != "" {
		fmt.Fprintf(&sb, "  reason: %s", b.Reason)
	}
	if b.Status == types.StatusPassed || b.Status == types.StatusFailed {
		fmt.Fprintf(&sb, "  exit: %d  time: %dms", b.ExitCode, b.DurationMs)
	}
	sb.WriteString("\n")
	if b.Stdout != "" {
		sb.WriteString("\n--- stdout ---\n")
		sb.WriteString(b.Stdout)
	}
	if b.Stderr != "" {
		sb.WriteString("\n--- stderr ---\n")
		sb.WriteString(b.Stderr)
	}
	return sb.String()
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "previous block"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "next block"),
	),
}

// RunInspect opens the report browser.
func RunInspect(report *runtime.Report) error {
	model := NewInspectModel(report)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
