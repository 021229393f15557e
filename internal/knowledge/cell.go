package knowledge

import (
	"fmt"
	"slices"
)

// Cell is a single board coordinate, row-major from the top-left corner.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d:%d)", c.Row, c.Col)
}

func cellcmp(a, b Cell) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

// CellSet is an unordered collection of cells.
type CellSet map[Cell]struct{}

func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Delete(c Cell) {
	delete(s, c)
}

func (s CellSet) Clone() CellSet {
	out := make(CellSet, len(s))
	for c := range s {
		out.Add(c)
	}
	return out
}

func (s CellSet) Equal(other CellSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Subset reports whether every cell of s is also in other.
func (s CellSet) Subset(other CellSet) bool {
	if len(s) > len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Diff returns the cells of s that are not in other.
func (s CellSet) Diff(other CellSet) CellSet {
	out := make(CellSet)
	for c := range s {
		if !other.Has(c) {
			out.Add(c)
		}
	}
	return out
}

// Cells returns the members in row-major order, so that callers iterating
// a set get a stable order regardless of map layout.
func (s CellSet) Cells() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.SortFunc(out, cellcmp)
	return out
}
