package board

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"minesweeper-agent/internal/knowledge"
)

/*
Board holds the ground-truth mine placement for one game. It answers point
queries: whether a cell is a mine and, for non-mine cells, how many of the
up-to-8 neighbors are. The agent never gets to see the grid itself.
*/
type Board struct {
	height, width int
	grid          []bool
	mines         knowledge.CellSet
}

func New(height, width, mineCount int, r *rand.Rand) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", height, width)
	}
	if mineCount < 0 || mineCount > height*width {
		return nil, fmt.Errorf(
			"cannot place %d mines on a %dx%d board",
			mineCount, height, width,
		)
	}

	b := &Board{
		height: height,
		width:  width,
		grid:   make([]bool, height*width),
		mines:  knowledge.NewCellSet(),
	}
	for len(b.mines) != mineCount {
		row := r.IntN(height)
		col := r.IntN(width)
		if !b.grid[row*width+col] {
			b.grid[row*width+col] = true
			b.mines.Add(knowledge.Cell{Row: row, Col: col})
		}
	}
	return b, nil
}

func (b *Board) Height() int    { return b.height }
func (b *Board) Width() int     { return b.width }
func (b *Board) MineCount() int { return len(b.mines) }

func (b *Board) Contains(c knowledge.Cell) bool {
	return 0 <= c.Row && c.Row < b.height && 0 <= c.Col && c.Col < b.width
}

func (b *Board) IsMine(c knowledge.Cell) bool {
	return b.Contains(c) && b.grid[c.Row*b.width+c.Col]
}

// NearbyMines counts the mines within one row and column of c, the cell
// itself excluded.
func (b *Board) NearbyMines(c knowledge.Cell) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := knowledge.Cell{Row: c.Row + dr, Col: c.Col + dc}
			if b.IsMine(n) {
				count++
			}
		}
	}
	return count
}

// Mines returns a copy of the true mine set, for the driver's win check.
func (b *Board) Mines() knowledge.CellSet {
	return b.mines.Clone()
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := range b.height {
		for col := range b.width {
			if b.grid[row*b.width+col] {
				fmt.Fprint(&sb, "* ")
			} else {
				fmt.Fprint(&sb, "- ")
			}
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}

/*
View renders the board as the agent sees it: opened cells show their
neighbor count, deduced mines show a flag, everything else is hidden.
*/
func (b *Board) View(opened, flagged knowledge.CellSet) string {
	var sb strings.Builder
	for row := range b.height {
		for col := range b.width {
			c := knowledge.Cell{Row: row, Col: col}
			switch {
			case opened.Has(c):
				fmt.Fprintf(&sb, "%d ", b.NearbyMines(c))
			case flagged.Has(c):
				fmt.Fprint(&sb, "* ")
			default:
				fmt.Fprint(&sb, ". ")
			}
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}
