package board

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minesweeper-agent/internal/knowledge"
)

func TestNewPlacesExactlyNMines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                     string
		height, width, mineCount int
	}{
		{"8x8(8)", 8, 8, 8},
		{"9x9(10)", 9, 9, 10},
		{"16x16(40)", 16, 16, 40},
		{"1x1(0)", 1, 1, 0},
		{"2x2(4)", 2, 2, 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(1, 2))
			b, err := New(test.height, test.width, test.mineCount, r)
			require.NoError(t, err)

			assert.Len(t, b.Mines(), test.mineCount)
			assert.Equal(t, test.mineCount, b.MineCount())

			counted := 0
			for row := range test.height {
				for col := range test.width {
					if b.IsMine(knowledge.Cell{Row: row, Col: col}) {
						counted++
					}
				}
			}
			assert.Equal(t, test.mineCount, counted)
		})
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewPCG(1, 2))

	_, err := New(0, 5, 1, r)
	assert.Error(t, err)
	_, err = New(5, -1, 1, r)
	assert.Error(t, err)
	_, err = New(2, 2, 5, r)
	assert.Error(t, err)
	_, err = New(2, 2, -1, r)
	assert.Error(t, err)
}

func TestNearbyMines(t *testing.T) {
	t.Parallel()

	// deterministic 3x3 board with a single mine; PCG(1,2) is just a
	// seed, the mine position is read back from the board itself
	r := rand.New(rand.NewPCG(1, 2))
	b, err := New(3, 3, 1, r)
	require.NoError(t, err)

	mine := b.Mines().Cells()[0]

	for row := range 3 {
		for col := range 3 {
			c := knowledge.Cell{Row: row, Col: col}
			if c == mine {
				continue
			}
			want := 0
			if absDiff(c.Row, mine.Row) <= 1 && absDiff(c.Col, mine.Col) <= 1 {
				want = 1
			}
			assert.Equal(t, want, b.NearbyMines(c), "cell %s", c)
		}
	}
}

func TestNearbyMinesOutOfBoundsNeighbors(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(7, 7))
	b, err := New(2, 2, 4, r)
	require.NoError(t, err)

	// every cell is a mine; corners still only see their 3 neighbors
	assert.Equal(t, 3, b.NearbyMines(knowledge.Cell{Row: 0, Col: 0}))
	assert.Equal(t, 3, b.NearbyMines(knowledge.Cell{Row: 1, Col: 1}))
}

func TestMinesReturnsACopy(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	b, err := New(4, 4, 3, r)
	require.NoError(t, err)

	m := b.Mines()
	for c := range m {
		m.Delete(c)
	}
	assert.Len(t, b.Mines(), 3)
}

func TestView(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	b, err := New(2, 2, 0, r)
	require.NoError(t, err)

	opened := knowledge.NewCellSet(knowledge.Cell{Row: 0, Col: 0})
	view := b.View(opened, knowledge.NewCellSet())
	assert.Equal(t, "0 . \n. . \n", view)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
