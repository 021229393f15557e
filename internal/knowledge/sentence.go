package knowledge

import "fmt"

/*
A Sentence is a logical statement about the board: exactly `count` of the
cells in `cells` are mines. Cells that become known safe or known mines are
removed from the sentence (see MarkSafe and MarkMine), so a live sentence
only ever talks about unclassified cells.
*/
type Sentence struct {
	cells CellSet
	count int
}

func NewSentence(cells CellSet, count int) *Sentence {
	return &Sentence{cells: cells.Clone(), count: count}
}

func (s *Sentence) Count() int {
	return s.count
}

func (s *Sentence) Size() int {
	return len(s.cells)
}

// Cells returns a copy of the sentence's cell set.
func (s *Sentence) Cells() CellSet {
	return s.cells.Clone()
}

// Equal is structural: same cell set and same count.
func (s *Sentence) Equal(other *Sentence) bool {
	return s.count == other.count && s.cells.Equal(other.cells)
}

func (s *Sentence) String() string {
	return fmt.Sprintf("%v = %d", s.cells.Cells(), s.count)
}

// KnownMines returns every cell of the sentence if all of them must be
// mines, i.e. the mine count equals the number of cells. Otherwise nothing
// can be concluded and the result is empty.
func (s *Sentence) KnownMines() CellSet {
	if len(s.cells) > 0 && s.count == len(s.cells) {
		return s.cells.Clone()
	}
	return NewCellSet()
}

// KnownSafes returns every cell of the sentence if none of them can be a
// mine, i.e. the mine count is zero. Otherwise the result is empty.
func (s *Sentence) KnownSafes() CellSet {
	if s.count == 0 {
		return s.cells.Clone()
	}
	return NewCellSet()
}

// MarkMine records that cell is a mine: the cell no longer carries any
// information, so it is dropped and the count is decremented to cover the
// remaining cells only. No-op if the cell is not part of the sentence.
func (s *Sentence) MarkMine(cell Cell) {
	if s.cells.Has(cell) {
		s.cells.Delete(cell)
		s.count--
	}
}

// MarkSafe records that cell is not a mine; the cell is dropped and the
// count stands. No-op if the cell is not part of the sentence.
func (s *Sentence) MarkSafe(cell Cell) {
	s.cells.Delete(cell)
}
