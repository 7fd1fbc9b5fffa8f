// Package puzzle implements the tile-arrangement state machine for a
// Connections board: 16 words in 4 rows of 4, per-row lock flags and
// colors, with swap, lock-with-compaction, and suffix-only shuffle.
package puzzle

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Board geometry. Row membership is purely positional: row = index / RowSize.
const (
	Rows     = 4
	RowSize  = 4
	GridSize = Rows * RowSize
)

// Color is one of the four fixed Connections group colors. A color is bound
// to logical row identity and travels with the row through lock swaps.
type Color int

const (
	Yellow Color = iota
	Green
	Blue
	Purple
)

func (c Color) String() string {
	switch c {
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Purple:
		return "purple"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// ErrInvalidOperation reports a state-machine call with an out-of-range
// index. The board is left unchanged.
var ErrInvalidOperation = errors.New("puzzle: invalid operation")

// WordCountError reports a word list that does not carry
// exactly GridSize entries.
type WordCountError struct {
	Found int
}

func (e *WordCountError) Error() string {
	return fmt.Sprintf("puzzle: need exactly %d words, found %d", GridSize, e.Found)
}

// Snapshot is an immutable copy of the board state handed to subscribers
// and read by the UI.
type Snapshot struct {
	Grid   [GridSize]string
	Locked [Rows]bool
	Colors [Rows]Color
}

// Row returns the 4 words of row r. Callers must pass r in [0,Rows).
func (s Snapshot) Row(r int) [RowSize]string {
	var row [RowSize]string
	copy(row[:], s.Grid[r*RowSize:(r+1)*RowSize])
	return row
}

// LockedCount returns the length of the locked prefix.
func (s Snapshot) LockedCount() int {
	n := 0
	for _, l := range s.Locked {
		if l {
			n++
		}
	}
	return n
}

// Board holds the mutable puzzle state. All operations are atomic with
// respect to each other; subscribers are notified synchronously after each
// successful mutation.
type Board struct {
	mu     sync.Mutex
	grid   [GridSize]string
	locked [Rows]bool
	colors [Rows]Color
	rng    *rand.Rand

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates a board from exactly GridSize words. Any other count is an
// *WordCountError and the puzzle must not start.
func New(words []string) (*Board, error) {
	return NewWithRand(words, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand is New with an injected random source, for deterministic
// shuffles in tests.
func NewWithRand(words []string, rng *rand.Rand) (*Board, error) {
	if len(words) != GridSize {
		return nil, &WordCountError{Found: len(words)}
	}
	b := &Board{
		rng:  rng,
		subs: make(map[int]func(Snapshot)),
	}
	copy(b.grid[:], words)
	for r := 0; r < Rows; r++ {
		b.colors[r] = Color(r)
	}
	return b, nil
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() Snapshot {
	return Snapshot{Grid: b.grid, Locked: b.locked, Colors: b.colors}
}

// Word returns the word at slot i.
func (b *Board) Word(i int) (string, error) {
	if i < 0 || i >= GridSize {
		return "", fmt.Errorf("%w: slot %d", ErrInvalidOperation, i)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid[i], nil
}

// IsLocked reports whether row r is locked.
func (b *Board) IsLocked(r int) (bool, error) {
	if r < 0 || r >= Rows {
		return false, fmt.Errorf("%w: row %d", ErrInvalidOperation, r)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked[r], nil
}

// RowColor returns the color bound to row r.
func (b *Board) RowColor(r int) (Color, error) {
	if r < 0 || r >= Rows {
		return 0, fmt.Errorf("%w: row %d", ErrInvalidOperation, r)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.colors[r], nil
}

// LockedCount returns the number of locked rows. The locked rows are always
// the contiguous prefix rows[0..LockedCount).
func (b *Board) LockedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, l := range b.locked {
		if l {
			n++
		}
	}
	return n
}

// Swap exchanges the words at slots i and j. The exchange is unconditional:
// lock state of either slot's row is not consulted. Swap is its own inverse.
func (b *Board) Swap(i, j int) error {
	if i < 0 || i >= GridSize || j < 0 || j >= GridSize {
		return fmt.Errorf("%w: swap(%d, %d)", ErrInvalidOperation, i, j)
	}
	b.mu.Lock()
	b.grid[i], b.grid[j] = b.grid[j], b.grid[i]
	snap := b.snapshotLocked()
	b.mu.Unlock()
	b.notify(snap)
	return nil
}

// ToggleLock flips the lock state of the row currently at position row.
//
// Locking moves the row's words into the first unlocked position (keeping
// per-column alignment), carrying its color with it, so that locked rows
// stay compacted at the top of the grid. Unlocking symmetrically swaps with
// the last locked position. Toggling a row that is already in its target
// position only flips the flag.
func (b *Board) ToggleLock(row int) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("%w: row %d", ErrInvalidOperation, row)
	}
	b.mu.Lock()

	var target int
	if !b.locked[row] {
		// First unlocked row, scanning top down.
		target = -1
		for r := 0; r < Rows; r++ {
			if !b.locked[r] {
				target = r
				break
			}
		}
		if target < 0 {
			// Unreachable: row itself is unlocked. Guard anyway.
			b.mu.Unlock()
			return fmt.Errorf("%w: no unlocked row", ErrInvalidOperation)
		}
		b.swapRowsLocked(target, row)
		b.locked[target] = true
	} else {
		// Last locked row, scanning bottom up.
		target = -1
		for r := Rows - 1; r >= 0; r-- {
			if b.locked[r] {
				target = r
				break
			}
		}
		if target < 0 {
			b.mu.Unlock()
			return fmt.Errorf("%w: no locked row", ErrInvalidOperation)
		}
		b.swapRowsLocked(target, row)
		b.locked[target] = false
	}

	snap := b.snapshotLocked()
	b.mu.Unlock()
	b.notify(snap)
	return nil
}

// swapRowsLocked exchanges rows a and b element-wise (slot i of one row
// with slot i of the other) together with their colors. A self-swap is a
// no-op. Caller holds mu.
func (bd *Board) swapRowsLocked(a, b int) {
	if a == b {
		return
	}
	for i := 0; i < RowSize; i++ {
		ai, bi := a*RowSize+i, b*RowSize+i
		bd.grid[ai], bd.grid[bi] = bd.grid[bi], bd.grid[ai]
	}
	bd.colors[a], bd.colors[b] = bd.colors[b], bd.colors[a]
}

// Shuffle applies a uniform random permutation to the unlocked suffix of
// the grid. Locked words never move. Unlocked words lose their relative row
// grouping: the suffix is shuffled flat, not per row.
func (b *Board) Shuffle() {
	b.mu.Lock()
	start := 0
	for _, l := range b.locked {
		if l {
			start += RowSize
		}
	}
	suffix := b.grid[start:]
	b.rng.Shuffle(len(suffix), func(i, j int) {
		suffix[i], suffix[j] = suffix[j], suffix[i]
	})
	snap := b.snapshotLocked()
	b.mu.Unlock()
	b.notify(snap)
}

// Subscribe registers fn to receive a Snapshot after every successful
// mutation. The returned cancel func removes the subscription.
func (b *Board) Subscribe(fn func(Snapshot)) func() {
	b.subMu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.subMu.Unlock()
	return func() {
		b.subMu.Lock()
		delete(b.subs, id)
		b.subMu.Unlock()
	}
}

func (b *Board) notify(snap Snapshot) {
	b.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
