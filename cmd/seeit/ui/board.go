package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/liuharry07/Connections-See-It/internal/puzzle"
)

// ViewMode determines which screen the model is showing.
type ViewMode int

const (
	LoadingView ViewMode = iota
	ErrorView
	BoardView
	HelpView
)

// WordsFn supplies the day's sixteen words. The model runs it as a tea.Cmd
// so a slow fetch never blocks the event loop.
type WordsFn func(ctx context.Context) ([]string, error)

// Options are the presentation knobs from the ui config section.
type Options struct {
	// Theme is the glamour style for the help overlay: dark, light or auto.
	Theme string

	// ASCIIOnly replaces the lock glyph for terminals without Unicode.
	ASCIIOnly bool
}

func (o Options) theme() string {
	switch o.Theme {
	case "dark", "light":
		return o.Theme
	default:
		return "auto"
	}
}

func (o Options) lockGlyph() string {
	if o.ASCIIOnly {
		return "*"
	}
	return "🔒"
}

// wordsMsg carries a successful fetch result into Update.
type wordsMsg []string

// fetchErrMsg carries a failed fetch into Update.
type fetchErrMsg struct{ err error }

const helpMarkdown = `# See It

Rearrange the day's sixteen words on a 4x4 board.

| Key | Action |
| --- | --- |
| arrows / hjkl | move the cursor |
| space / enter | pick up a tile, then swap it with another |
| esc | drop the picked-up tile |
| L | lock or unlock the cursor's row |
| S | shuffle the unlocked tiles |
| r | refetch today's words |
| ? | toggle this help |
| q | quit |

Locked rows float to the top of the board and keep their color.
Shuffle never disturbs a locked row.
`

// Model is the bubbletea model for the puzzle board.
type Model struct {
	board    *puzzle.Board
	snap     puzzle.Snapshot
	cursor   int
	selected int // index of the picked-up tile, -1 when none

	viewMode ViewMode
	prevView ViewMode // view to return to when help closes
	fetchErr error

	wordsFn WordsFn
	opts    Options
	logger  *zap.Logger

	spinner  spinner.Model
	styles   Styles
	helpText string

	width, height int
}

// NewModel builds a board model that fetches its words through fn.
func NewModel(fn WordsFn, opts Options, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorBlue)

	help := helpMarkdown
	if rendered, err := glamour.Render(helpMarkdown, opts.theme()); err == nil {
		help = rendered
	}

	return Model{
		selected: -1,
		viewMode: LoadingView,
		wordsFn:  fn,
		opts:     opts,
		logger:   logger.Named("ui"),
		spinner:  sp,
		styles:   DefaultStyles(),
		helpText: help,
	}
}

// NewModelWithWords builds a board model over an already-known word list,
// skipping the loading screen. Used by the offline word sources.
func NewModelWithWords(board *puzzle.Board, opts Options, logger *zap.Logger) Model {
	m := NewModel(nil, opts, logger)
	m.setBoard(board)
	return m
}

func (m *Model) setBoard(b *puzzle.Board) {
	m.board = b
	m.snap = b.Snapshot()
	m.cursor = 0
	m.selected = -1
	m.viewMode = BoardView
	b.Subscribe(func(s puzzle.Snapshot) {
		m.logger.Debug("board changed", zap.Int("locked_rows", s.LockedCount()))
	})
}

// Snapshot returns the last observed board state. Exposed for tests.
func (m Model) Snapshot() puzzle.Snapshot { return m.snap }

func (m Model) fetchWords() tea.Msg {
	words, err := m.wordsFn(context.Background())
	if err != nil {
		return fetchErrMsg{err: err}
	}
	return wordsMsg(words)
}

// Init starts the spinner and the initial fetch.
func (m Model) Init() tea.Cmd {
	if m.viewMode != LoadingView {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.fetchWords)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case wordsMsg:
		board, err := puzzle.New([]string(msg))
		if err != nil {
			m.fetchErr = err
			m.viewMode = ErrorView
			return m, nil
		}
		m.setBoard(board)
		return m, nil

	case fetchErrMsg:
		m.fetchErr = msg.err
		m.viewMode = ErrorView
		return m, nil

	case spinner.TickMsg:
		if m.viewMode != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys.
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		if m.viewMode == HelpView {
			m.viewMode = m.prevView
		} else if m.viewMode == BoardView {
			m.prevView = m.viewMode
			m.viewMode = HelpView
		}
		return m, nil
	}

	switch m.viewMode {
	case ErrorView:
		if key == "r" && m.wordsFn != nil {
			m.viewMode = LoadingView
			m.fetchErr = nil
			return m, tea.Batch(m.spinner.Tick, m.fetchWords)
		}
		return m, nil
	case HelpView:
		if key == "esc" {
			m.viewMode = m.prevView
		}
		return m, nil
	case BoardView:
		return m.handleBoardKey(key)
	}
	return m, nil
}

func (m Model) handleBoardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h":
		if m.cursor%puzzle.RowSize > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%puzzle.RowSize < puzzle.RowSize-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor >= puzzle.RowSize {
			m.cursor -= puzzle.RowSize
		}
	case "down", "j":
		if m.cursor < puzzle.GridSize-puzzle.RowSize {
			m.cursor += puzzle.RowSize
		}
	case "esc":
		m.selected = -1
	case " ", "enter":
		if m.selected < 0 {
			m.selected = m.cursor
		} else {
			if err := m.board.Swap(m.selected, m.cursor); err != nil {
				m.logger.Warn("swap rejected", zap.Error(err))
			}
			m.snap = m.board.Snapshot()
			m.selected = -1
		}
	case "L":
		if err := m.board.ToggleLock(m.cursor / puzzle.RowSize); err != nil {
			m.logger.Warn("lock toggle rejected", zap.Error(err))
		}
		m.snap = m.board.Snapshot()
		m.selected = -1
	case "S", "s":
		m.board.Shuffle()
		m.snap = m.board.Snapshot()
		m.selected = -1
	case "r":
		if m.wordsFn != nil {
			m.viewMode = LoadingView
			return m, tea.Batch(m.spinner.Tick, m.fetchWords)
		}
	}
	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	switch m.viewMode {
	case LoadingView:
		return m.styles.Status.Render(m.spinner.View() + " fetching today's puzzle...")
	case ErrorView:
		var b strings.Builder
		b.WriteString(m.styles.Error.Render("fetch failed: " + m.fetchErr.Error()))
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render("r retry  q quit"))
		return b.String()
	case HelpView:
		return m.helpText
	case BoardView:
		return m.viewBoard()
	}
	return ""
}

func (m Model) viewBoard() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Connections: See It"))
	b.WriteString("\n\n")

	for r := 0; r < puzzle.Rows; r++ {
		tiles := make([]string, 0, puzzle.RowSize)
		for c := 0; c < puzzle.RowSize; c++ {
			i := r*puzzle.RowSize + c
			tiles = append(tiles, m.renderTile(i, r))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
		if m.snap.Locked[r] {
			row = lipgloss.JoinHorizontal(lipgloss.Center, row, " "+m.opts.lockGlyph())
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%d/%d rows locked", m.snap.LockedCount(), puzzle.Rows)
	if m.selected >= 0 {
		status += fmt.Sprintf("  holding %q", m.snap.Grid[m.selected])
	}
	status += "  (? for help)"
	b.WriteString(m.styles.Status.Render(status))
	return b.String()
}

func (m Model) renderTile(i, row int) string {
	style := m.styles.Tile
	if m.snap.Locked[row] {
		style = m.styles.Locked.Background(RowColor(m.snap.Colors[row]))
	}
	if i == m.selected {
		style = m.styles.Selected.Background(style.GetBackground())
	}
	if i == m.cursor {
		style = m.styles.Cursor.Background(style.GetBackground())
	}
	return style.Render(m.snap.Grid[i])
}
