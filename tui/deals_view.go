package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/viz"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

func (m Model) renderDealsView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("RV PIPELINE"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderDealsTable())
	s.WriteString("\n")

	s.WriteString(m.renderStatus())
	s.WriteString(m.renderDealsHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []struct {
		name string
		mode ViewMode
	}{
		{"Deals", ViewDeals},
		{"Workload", ViewWorkload},
	}

	var rendered []string
	for _, tab := range tabs {
		if tab.mode == m.viewMode {
			rendered = append(rendered, tabActiveStyle.Render(tab.name))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab.name))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderDealsTable() string {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Deal", Width: 8},
		{Title: "Company", Width: 26},
		{Title: "Sales Rep", Width: 18},
		{Title: "Territory", Width: 14},
		{Title: "Value", Width: 10},
	}

	rows := make([]table.Row, 0, len(m.deals))
	for _, deal := range m.deals {
		mark := ""
		if m.selected[deal.ID] {
			mark = "[x]"
		}
		rep := deal.RepName()
		if rep == "" {
			rep = models.RepUnassigned
		}
		rows = append(rows, table.Row{
			mark,
			deal.DealID,
			deal.CompanyName,
			rep,
			deal.Territory,
			workload.FormatCurrency(deal.Value),
		})
	}

	height := m.height - 12
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderStatus() string {
	var s strings.Builder
	if n := len(m.selected); n > 0 {
		s.WriteString(fmt.Sprintf("%d deals selected\n", n))
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	} else if m.message != "" {
		s.WriteString(messageStyle.Render(m.message) + "\n")
	}
	return s.String()
}

func (m Model) renderDealsHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"x: Select",
		"a: Select all",
		"r: Reassign selected",
		"Tab: Workload",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

// selectedIDs returns the selected deal ids in ascending order.
func (m Model) selectedIDs() []int64 {
	ids := make([]int64, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m Model) handleDealsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.deals)-1 {
			m.selectedRow++
		}
	case "x", " ", "space":
		if m.selectedRow < len(m.deals) {
			id := m.deals[m.selectedRow].ID
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
		}
	case "a":
		if len(m.selected) == len(m.deals) {
			m.selected = make(map[int64]bool)
		} else {
			for _, deal := range m.deals {
				m.selected[deal.ID] = true
			}
		}
	case "tab":
		m.viewMode = ViewWorkload
	case "r":
		if len(m.selected) == 0 {
			m.message = "Select at least one deal first"
			return m, nil
		}
		m.message = ""
		m.err = nil
		m.viewMode = ViewTarget
		m.input.Placeholder = "Sales rep name"
		m.input.SetValue(m.target)
		return m, m.input.Focus()
	}

	return m, nil
}

func (m Model) renderWorkloadView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("RV PIPELINE"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.report == nil {
		s.WriteString("Loading workload...\n")
	} else {
		s.WriteString(viz.RenderWorkload(m.report))
	}

	s.WriteString(helpStyle.Render("Tab: Deals • q: Quit"))
	return s.String()
}

func (m Model) handleWorkloadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc":
		m.viewMode = ViewDeals
	}
	return m, nil
}
