package knowledge

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

/*
Engine accumulates everything the agent knows about a hidden board: which
cells it has played, which are proven safe, which are proven mines, and a
knowledge base of sentences covering the still-uncertain cells.

All deduction happens eagerly inside AddKnowledge; the engine is not safe
for concurrent use.
*/
type Engine struct {
	height, width int

	movesMade CellSet
	safes     CellSet
	mines     CellSet
	knowledge []*Sentence
}

func NewEngine(height, width int) *Engine {
	return &Engine{
		height:    height,
		width:     width,
		movesMade: NewCellSet(),
		safes:     NewCellSet(),
		mines:     NewCellSet(),
	}
}

func (e *Engine) Height() int { return e.height }
func (e *Engine) Width() int  { return e.width }

// Mines returns a copy of the set of cells proven to be mines.
func (e *Engine) Mines() CellSet { return e.mines.Clone() }

// Safes returns a copy of the set of cells proven safe.
func (e *Engine) Safes() CellSet { return e.safes.Clone() }

// MovesMade returns a copy of the set of cells already played.
func (e *Engine) MovesMade() CellSet { return e.movesMade.Clone() }

// Knowledge returns copies of the live sentences, for inspection only.
func (e *Engine) Knowledge() []*Sentence {
	out := make([]*Sentence, len(e.knowledge))
	for i, s := range e.knowledge {
		out[i] = NewSentence(s.cells, s.count)
	}
	return out
}

func (e *Engine) contains(c Cell) bool {
	return 0 <= c.Row && c.Row < e.height && 0 <= c.Col && c.Col < e.width
}

// MarkMine records cell as a proven mine and pushes that fact into every
// live sentence. This fan-out is what lets one deduction cascade: shrinking
// a sentence here may make it trivially resolvable on the next pass.
func (e *Engine) MarkMine(cell Cell) {
	e.mines.Add(cell)
	for _, s := range e.knowledge {
		s.MarkMine(cell)
	}
}

// MarkSafe records cell as proven safe and pushes that fact into every
// live sentence.
func (e *Engine) MarkSafe(cell Cell) {
	e.safes.Add(cell)
	for _, s := range e.knowledge {
		s.MarkSafe(cell)
	}
}

func (e *Engine) removeSentence(s *Sentence) {
	e.knowledge = slices.DeleteFunc(e.knowledge, func(t *Sentence) bool {
		return t == s
	})
}

func (e *Engine) hasSentence(s *Sentence) bool {
	for _, t := range e.knowledge {
		if t.Equal(s) {
			return true
		}
	}
	return false
}

/*
classify resolves a freshly built sentence before it ever reaches the
knowledge base: an all-safe or all-mine sentence is acted on immediately,
anything informative and new is appended, and empty or duplicate sentences
are dropped. Returns whether the engine learned anything.
*/
func (e *Engine) classify(s *Sentence) bool {
	switch {
	case s.Size() == 0:
		return false
	case s.count == 0:
		for _, c := range s.cells.Cells() {
			e.MarkSafe(c)
		}
		return true
	case s.count == s.Size():
		for _, c := range s.cells.Cells() {
			e.MarkMine(c)
		}
		return true
	default:
		if e.hasSentence(s) {
			return false
		}
		e.knowledge = append(e.knowledge, s)
		return true
	}
}

/*
resolveTrivial repeatedly sweeps the knowledge base, discarding empty
sentences and resolving the two trivial forms: count == size means every
cell is a mine, count == 0 means every cell is safe. Marking a cell mutates
other sentences through the fan-out, so each pass iterates a snapshot of
the base and the sweep restarts until a pass changes nothing.
*/
func (e *Engine) resolveTrivial() {
	for changed := true; changed; {
		changed = false
		for _, s := range slices.Clone(e.knowledge) {
			switch {
			case s.Size() == 0:
				e.removeSentence(s)
			case s.count == s.Size():
				changed = true
				for _, c := range s.cells.Cells() {
					e.MarkMine(c)
				}
			case s.count == 0:
				changed = true
				for _, c := range s.cells.Cells() {
					e.MarkSafe(c)
				}
			}
		}
	}
}

/*
inferSubsets derives new sentences from subset relations: when S1's cells
are all contained in S2's, the cells unique to S2 hold exactly
S2.count - S1.count mines. Each derivation is classified like a fresh
observation and trivial resolution is re-run straight away, since newly
classified cells may shrink other sentences and expose further subset
pairs. The scan repeats until a full pass over every ordered pair derives
nothing new.

Every productive derivation either classifies a previously unknown cell or
adds a sentence not structurally present in the base, both of which are
bounded by the grid size, so the loop terminates.
*/
func (e *Engine) inferSubsets() {
	for changed := true; changed; {
		changed = false
		snapshot := slices.Clone(e.knowledge)
		for _, s1 := range snapshot {
			for _, s2 := range snapshot {
				if s1 == s2 || s1.Equal(s2) {
					continue
				}
				if !s1.cells.Subset(s2.cells) {
					continue
				}
				derived := NewSentence(
					s2.cells.Diff(s1.cells),
					s2.count-s1.count,
				)
				if e.classify(derived) {
					changed = true
					e.resolveTrivial()
				}
			}
		}
	}
}

/*
AddKnowledge ingests one board observation: cell was opened safely and has
count mines among its neighbors. The cell is recorded as played and safe, a
sentence over its still-unclassified neighbors is built (neighbors already
proven to be mines are dropped from it, with the count adjusted down), and
both inference fixpoints run.

Returns an error on caller contract violations - an out-of-bounds cell, a
repeated move, or a count inconsistent with what is already known - leaving
the engine state untouched.
*/
func (e *Engine) AddKnowledge(cell Cell, count int) error {
	if !e.contains(cell) {
		return fmt.Errorf(
			"cell %s out of bounds for a %dx%d board",
			cell, e.height, e.width,
		)
	}
	if e.movesMade.Has(cell) {
		return fmt.Errorf("cell %s was already played", cell)
	}
	if count < 0 {
		return fmt.Errorf("negative mine count %d for cell %s", count, cell)
	}

	neighbors := NewCellSet()
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: cell.Row + dr, Col: cell.Col + dc}
			if !e.contains(n) {
				continue
			}
			switch {
			case e.movesMade.Has(n) || e.safes.Has(n):
				// carries no new information
			case e.mines.Has(n):
				// already accounts for one of the reported mines
				count--
			default:
				neighbors.Add(n)
			}
		}
	}

	if count < 0 || count > len(neighbors) {
		return fmt.Errorf(
			"count for cell %s is inconsistent with known mines", cell,
		)
	}

	e.movesMade.Add(cell)
	e.MarkSafe(cell)

	e.classify(NewSentence(neighbors, count))
	e.resolveTrivial()
	e.inferSubsets()

	Log.WithFields(logrus.Fields{
		"cell":      cell.String(),
		"count":     count,
		"mines":     len(e.mines),
		"safes":     len(e.safes),
		"sentences": len(e.knowledge),
	}).Debug("knowledge added")

	return nil
}

// SafeMove returns a cell proven safe that has not been played yet. The
// second result is false when no such cell is known. Does not mutate the
// engine.
func (e *Engine) SafeMove() (Cell, bool) {
	for _, c := range e.safes.Cells() {
		if !e.movesMade.Has(c) {
			return c, true
		}
	}
	return Cell{}, false
}

// RandomMove picks uniformly among cells that have not been played and are
// not known mines. The second result is false when no candidate remains.
func (e *Engine) RandomMove(r *rand.Rand) (Cell, bool) {
	candidates := make([]Cell, 0, e.height*e.width)
	for row := range e.height {
		for col := range e.width {
			c := Cell{Row: row, Col: col}
			if !e.movesMade.Has(c) && !e.mines.Has(c) {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[r.IntN(len(candidates))], true
}
