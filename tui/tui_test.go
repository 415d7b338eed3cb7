// ABOUTME: Tests for the bulk reassignment console
// ABOUTME: Drives the model with key messages against a seeded database
package tui

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nehemiah-ic/rv-takehome/db"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

func setupTestModel(t *testing.T) Model {
	t.Helper()
	h := db.NewHandle(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { _ = h.Close() })

	repo := db.NewRepository(h)
	if _, err := repo.Seed(context.Background()); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	svc := pipeline.NewService(repo, workload.DefaultThresholds(), log.New(io.Discard))

	m := NewModel(context.Background(), svc)
	m = send(t, m, m.loadDeals()())
	m = send(t, m, m.loadWorkload()())
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the resulting model and command.
func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(k))
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

func TestInitialLoad(t *testing.T) {
	m := setupTestModel(t)

	if len(m.deals) != 10 {
		t.Fatalf("Expected 10 deals, got %d", len(m.deals))
	}
	if m.report == nil {
		t.Fatal("Expected workload report to be loaded")
	}

	view := m.View()
	if !strings.Contains(view, "RV-001") || !strings.Contains(view, "Pacific Logistics Inc") {
		t.Error("Deals view should list seeded deals")
	}
}

func TestSelectionToggles(t *testing.T) {
	m := setupTestModel(t)

	m, _ = press(t, m, "x")
	m, _ = press(t, m, "down")
	m, _ = press(t, m, "x")
	if got := m.selectedIDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("Expected deals 1 and 2 selected, got %v", got)
	}

	m, _ = press(t, m, "x")
	if len(m.selected) != 1 {
		t.Errorf("Expected second press to deselect, got %v", m.selectedIDs())
	}

	m, _ = press(t, m, "a")
	if len(m.selected) != 10 {
		t.Errorf("Expected all deals selected, got %d", len(m.selected))
	}
	m, _ = press(t, m, "a")
	if len(m.selected) != 0 {
		t.Errorf("Expected select-all to clear, got %d", len(m.selected))
	}
}

func TestReassignRequiresSelection(t *testing.T) {
	m := setupTestModel(t)

	m, _ = press(t, m, "r")
	if m.viewMode != ViewDeals {
		t.Error("Should stay on deals view without a selection")
	}
	if m.message == "" {
		t.Error("Should explain why nothing happened")
	}
}

func TestWorkloadTab(t *testing.T) {
	m := setupTestModel(t)

	m, _ = press(t, m, "tab")
	if m.viewMode != ViewWorkload {
		t.Fatal("Tab should switch to workload view")
	}
	if !strings.Contains(m.View(), "Mike Rodriguez") {
		t.Error("Workload view should list reps")
	}

	m, _ = press(t, m, "tab")
	if m.viewMode != ViewDeals {
		t.Error("Tab should switch back to deals view")
	}
}

func TestBulkReassignFlow(t *testing.T) {
	m := setupTestModel(t)

	m, _ = press(t, m, "x")
	m, _ = press(t, m, "down")
	m, _ = press(t, m, "x")

	m, _ = press(t, m, "r")
	if m.viewMode != ViewTarget {
		t.Fatal("r should open the target prompt")
	}

	m = typeText(t, m, "Sarah Johnson")
	if m.input.Value() != "Sarah Johnson" {
		t.Fatalf("Unexpected input %q", m.input.Value())
	}

	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("enter should request a preview")
	}
	m = send(t, m, cmd())
	if m.viewMode != ViewPreview {
		t.Fatalf("Expected preview view, err=%v", m.err)
	}
	if m.preview.Summary.TotalDeals != 2 {
		t.Errorf("Expected 2 deals in preview, got %d", m.preview.Summary.TotalDeals)
	}
	if !strings.Contains(m.View(), "BULK REASSIGNMENT PREVIEW") {
		t.Error("Preview view should render the preview")
	}

	m, _ = press(t, m, "y")
	if m.viewMode != ViewReason {
		t.Fatal("y should ask for a reason")
	}
	m = typeText(t, m, "Rebalance")
	m, cmd = press(t, m, "enter")
	if cmd == nil {
		t.Fatal("enter should run the reassignment")
	}

	msg := cmd()
	executed, ok := msg.(executedMsg)
	if !ok {
		t.Fatalf("Expected executedMsg, got %T", msg)
	}
	if executed.err != nil {
		t.Fatalf("Execute failed: %v", executed.err)
	}
	if executed.result.UpdatedDeals != 2 {
		t.Errorf("Expected 2 updated deals, got %d", executed.result.UpdatedDeals)
	}

	updated, cmd := m.Update(executed)
	m = updated.(Model)
	if m.viewMode != ViewDeals {
		t.Error("Should return to deals view after execute")
	}
	if len(m.selected) != 0 {
		t.Error("Selection should be cleared after execute")
	}
	if !strings.Contains(m.message, executed.result.BatchID) {
		t.Errorf("Expected message to carry batch id, got %q", m.message)
	}
	if cmd == nil {
		t.Fatal("Expected reload after execute")
	}

	logs, err := m.svc.AuditTrail(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("AuditTrail failed: %v", err)
	}
	for _, l := range logs {
		if l.ChangedBy != changedBy {
			t.Errorf("Expected changed_by %q, got %q", changedBy, l.ChangedBy)
		}
	}
}

func TestPreviewErrorReturnsToDeals(t *testing.T) {
	m := setupTestModel(t)

	m, _ = press(t, m, "x")
	m, _ = press(t, m, "r")
	m = typeText(t, m, "Nobody")
	m, cmd := press(t, m, "enter")
	m = send(t, m, cmd())

	if m.viewMode != ViewDeals {
		t.Error("Should return to deals view on preview error")
	}
	if m.err == nil || !strings.Contains(m.View(), "Sales rep not found") {
		t.Errorf("Expected rep error in view, got err=%v", m.err)
	}
}

func TestEscCancelsPrompts(t *testing.T) {
	m := setupTestModel(t)

	m, _ = press(t, m, "x")
	m, _ = press(t, m, "r")
	m, _ = press(t, m, "esc")
	if m.viewMode != ViewDeals {
		t.Error("Esc should leave the target prompt")
	}
}

func TestQuit(t *testing.T) {
	m := setupTestModel(t)

	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected quit message")
	}
}
