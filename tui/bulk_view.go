package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/viz"
)

// changedBy is recorded on audit entries written from the console.
const changedBy = "rv tui"

func (m Model) previewCmd() tea.Cmd {
	ids := m.selectedIDs()
	target := m.target
	return func() tea.Msg {
		result, err := m.svc.Preview(m.ctx, ids, target)
		return previewMsg{result: result, err: err}
	}
}

func (m Model) executeCmd(reason string) tea.Cmd {
	req := pipeline.ExecuteRequest{
		DealIDs:   m.selectedIDs(),
		TargetRep: m.target,
		Reason:    reason,
		ChangedBy: changedBy,
	}
	return func() tea.Msg {
		result, err := m.svc.Execute(m.ctx, req)
		return executedMsg{result: result, err: err}
	}
}

func (m Model) renderInputView() string {
	var s strings.Builder

	if m.viewMode == ViewTarget {
		s.WriteString(titleStyle.Render(fmt.Sprintf("REASSIGN %d DEALS TO", len(m.selected))))
	} else {
		s.WriteString(titleStyle.Render(fmt.Sprintf("REASON FOR MOVING %d DEALS TO %s", len(m.selected), m.target)))
	}
	s.WriteString("\n\n> ")
	s.WriteString(m.input.View())
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("Enter: Continue • Esc: Cancel"))
	return s.String()
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.err = nil
		if m.viewMode == ViewReason {
			m.viewMode = ViewPreview
		} else {
			m.viewMode = ViewDeals
		}
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.input.Blur()
		if m.viewMode == ViewTarget {
			m.target = value
			return m, m.previewCmd()
		}
		return m, m.executeCmd(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) renderPreviewView() string {
	var s strings.Builder

	if m.preview != nil {
		s.WriteString(viz.RenderPreview(m.preview))
	}

	help := "y: Execute • Esc: Back"
	if m.preview != nil && len(m.preview.Conflicts) > 0 {
		help = "y: Execute anyway • Esc: Back"
	}
	s.WriteString(helpStyle.Render(help))
	return s.String()
}

func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.preview = nil
		m.viewMode = ViewDeals
	case "y":
		m.viewMode = ViewReason
		m.input.Placeholder = "Why are these deals moving?"
		m.input.SetValue("")
		return m, m.input.Focus()
	}
	return m, nil
}
