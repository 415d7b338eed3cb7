// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive console for selecting deals, previewing and running bulk reassignments
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewDeals ViewMode = iota
	ViewWorkload
	ViewTarget
	ViewPreview
	ViewReason
)

// Model is the main bubbletea model
type Model struct {
	ctx      context.Context
	svc      *pipeline.Service
	viewMode ViewMode

	// Deal list state
	deals       []models.Deal
	selectedRow int
	selected    map[int64]bool

	report *workload.Analytics

	// Bulk reassignment state
	target  string
	preview *pipeline.PreviewResult
	input   textinput.Model

	message string
	err     error

	width  int
	height int
}

type dealsLoadedMsg struct {
	deals []models.Deal
	err   error
}

type workloadLoadedMsg struct {
	report *workload.Analytics
	err    error
}

type previewMsg struct {
	result *pipeline.PreviewResult
	err    error
}

type executedMsg struct {
	result *pipeline.ExecutionResult
	err    error
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, svc *pipeline.Service) Model {
	input := textinput.New()
	input.CharLimit = 120
	input.Width = 40

	return Model{
		ctx:      ctx,
		svc:      svc,
		viewMode: ViewDeals,
		selected: make(map[int64]bool),
		input:    input,
		width:    80,
		height:   24,
	}
}

// Run starts the full-screen console and blocks until the user quits.
func Run(ctx context.Context, svc *pipeline.Service) error {
	p := tea.NewProgram(NewModel(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDeals(), m.loadWorkload())
}

func (m Model) loadDeals() tea.Cmd {
	return func() tea.Msg {
		deals, err := m.svc.Deals(m.ctx)
		return dealsLoadedMsg{deals: deals, err: err}
	}
}

func (m Model) loadWorkload() tea.Cmd {
	return func() tea.Msg {
		report, err := m.svc.WorkloadAnalytics(m.ctx)
		return workloadLoadedMsg{report: report, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dealsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.deals = msg.deals
			if m.selectedRow >= len(m.deals) {
				m.selectedRow = 0
			}
		}
		return m, nil

	case workloadLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
		}
		return m, nil

	case previewMsg:
		if msg.err != nil {
			m.err = msg.err
			m.viewMode = ViewDeals
			return m, nil
		}
		m.err = nil
		m.preview = msg.result
		m.viewMode = ViewPreview
		return m, nil

	case executedMsg:
		m.preview = nil
		m.viewMode = ViewDeals
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.selected = make(map[int64]bool)
		m.message = msg.result.Message + " (" + msg.result.BatchID + ")"
		return m, tea.Batch(m.loadDeals(), m.loadWorkload())
	}

	if m.inputActive() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewDeals:
		return m.renderDealsView()
	case ViewWorkload:
		return m.renderWorkloadView()
	case ViewTarget, ViewReason:
		return m.renderInputView()
	case ViewPreview:
		return m.renderPreviewView()
	}
	return ""
}

func (m Model) inputActive() bool {
	return m.viewMode == ViewTarget || m.viewMode == ViewReason
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !m.inputActive() {
			return m, tea.Quit
		}
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewDeals:
		return m.handleDealsKeys(msg)
	case ViewWorkload:
		return m.handleWorkloadKeys(msg)
	case ViewTarget, ViewReason:
		return m.handleInputKeys(msg)
	case ViewPreview:
		return m.handlePreviewKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Italic(true)
)
