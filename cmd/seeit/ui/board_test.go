package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liuharry07/Connections-See-It/internal/puzzle"
)

func sixteen() []string {
	words := make([]string, puzzle.GridSize)
	for i := range words {
		words[i] = string(rune('A' + i))
	}
	return words
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func boardModel(t *testing.T) Model {
	t.Helper()
	b, err := puzzle.New(sixteen())
	if err != nil {
		t.Fatalf("puzzle.New: %v", err)
	}
	return NewModelWithWords(b, Options{ASCIIOnly: true}, nil)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func TestNewModelWithWords_SkipsLoading(t *testing.T) {
	m := boardModel(t)
	if m.viewMode != BoardView {
		t.Fatalf("viewMode = %d, want BoardView", m.viewMode)
	}
	if cmd := m.Init(); cmd != nil {
		t.Fatal("Init should not fetch when words are preloaded")
	}
}

func TestCursorMovement(t *testing.T) {
	m := boardModel(t)

	m = press(m, "right", "right", "down")
	if m.cursor != 6 {
		t.Fatalf("cursor = %d, want 6", m.cursor)
	}

	// hjkl aliases.
	m = press(m, "h", "k")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	// Edges clamp.
	m = press(m, "up", "up", "h", "h", "h")
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after clamping", m.cursor)
	}
}

func TestSelectAndSwap(t *testing.T) {
	m := boardModel(t)

	// Pick up tile 0, move to tile 5, swap.
	m = press(m, " ", "right", "down", "enter")

	snap := m.Snapshot()
	if snap.Grid[0] != "F" || snap.Grid[5] != "A" {
		t.Fatalf("swap not applied: grid[0]=%q grid[5]=%q", snap.Grid[0], snap.Grid[5])
	}
	if m.selected != -1 {
		t.Fatal("selection should clear after swap")
	}
}

func TestEscDropsSelection(t *testing.T) {
	m := boardModel(t)
	m = press(m, " ")
	if m.selected != 0 {
		t.Fatalf("selected = %d, want 0", m.selected)
	}
	m = press(m, "esc")
	if m.selected != -1 {
		t.Fatal("esc should drop the selection")
	}
}

func TestLockKey(t *testing.T) {
	m := boardModel(t)

	// Cursor in row 2 locks row 2; its words compact into row 0.
	m = press(m, "down", "down", "L")

	snap := m.Snapshot()
	if !snap.Locked[0] {
		t.Fatal("row 0 should hold the locked row")
	}
	if got := snap.Row(0); got[0] != "I" {
		t.Fatalf("row 0 = %v, want row starting with I", got)
	}
	if !strings.Contains(m.View(), "*") {
		t.Fatal("locked row should carry the lock marker")
	}
}

func TestShuffleKeepsLockedRow(t *testing.T) {
	m := boardModel(t)
	m = press(m, "L", "S")

	snap := m.Snapshot()
	want := []string{"A", "B", "C", "D"}
	for i, w := range want {
		if snap.Grid[i] != w {
			t.Fatalf("locked row disturbed by shuffle: grid=%v", snap.Grid[:4])
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m := boardModel(t)
	m = press(m, "?")
	if m.viewMode != HelpView {
		t.Fatal("? should open help")
	}
	m = press(m, "?")
	if m.viewMode != BoardView {
		t.Fatal("? should close help")
	}
}

func TestFetchFailureShowsErrorAndRetries(t *testing.T) {
	calls := 0
	fn := func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("tab crashed")
		}
		return sixteen(), nil
	}
	m := NewModel(fn, Options{}, nil)

	next, _ := m.Update(m.fetchWords())
	m = next.(Model)
	if m.viewMode != ErrorView {
		t.Fatalf("viewMode = %d, want ErrorView", m.viewMode)
	}
	if !strings.Contains(m.View(), "tab crashed") {
		t.Fatal("error view should surface the fetch error")
	}

	// r retries; feeding the resulting fetch back in lands on the board.
	m = press(m, "r")
	next, _ = m.Update(m.fetchWords())
	m = next.(Model)
	if m.viewMode != BoardView {
		t.Fatalf("viewMode = %d, want BoardView after retry", m.viewMode)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestShortWordListIsAnError(t *testing.T) {
	m := NewModel(nil, Options{}, nil)
	next, _ := m.Update(wordsMsg([]string{"ONLY", "FOUR", "WORDS", "HERE"}))
	m = next.(Model)
	if m.viewMode != ErrorView {
		t.Fatal("a short word list must not reach the board")
	}
}

func TestBoardView_ShowsAllWords(t *testing.T) {
	m := boardModel(t)
	view := m.View()
	for _, w := range sixteen() {
		if !strings.Contains(view, w) {
			t.Fatalf("view missing word %q", w)
		}
	}
	if !strings.Contains(view, "0/4 rows locked") {
		t.Fatal("view missing lock status")
	}
}
