package knowledge

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addSentence plants a sentence directly and runs the fixpoints the way
// AddKnowledge would.
func (e *Engine) addSentence(t *testing.T, cells CellSet, count int) {
	t.Helper()
	e.classify(NewSentence(cells, count))
	e.resolveTrivial()
	e.inferSubsets()
}

func assertInvariants(t *testing.T, e *Engine) {
	t.Helper()
	for c := range e.mines {
		assert.False(t, e.safes.Has(c), "cell %s is both mine and safe", c)
	}
	for _, s := range e.knowledge {
		assert.Positive(t, s.Size(), "empty sentence left in knowledge base")
		assert.Positive(t, s.Count(), "trivial all-safe sentence left live")
		assert.Greater(t, s.Size(), s.Count(),
			"trivial all-mine sentence left live")
		for c := range s.cells {
			assert.False(t, e.mines.Has(c),
				"sentence %s holds known mine %s", s, c)
			assert.False(t, e.safes.Has(c),
				"sentence %s holds known safe %s", s, c)
		}
	}
}

func TestMarkFanOut(t *testing.T) {
	a := Cell{0, 0}
	b := Cell{0, 1}
	c := Cell{0, 2}

	e := NewEngine(3, 3)
	e.knowledge = append(e.knowledge,
		NewSentence(NewCellSet(a, b), 1),
		NewSentence(NewCellSet(b, c), 1),
	)

	e.MarkMine(b)

	assert.True(t, e.Mines().Equal(NewCellSet(b)))
	assert.True(t, e.knowledge[0].Equal(NewSentence(NewCellSet(a), 0)))
	assert.True(t, e.knowledge[1].Equal(NewSentence(NewCellSet(c), 0)))
}

func TestMarkIdempotence(t *testing.T) {
	a := Cell{1, 1}

	e := NewEngine(3, 3)
	e.knowledge = append(e.knowledge,
		NewSentence(NewCellSet(a, Cell{1, 2}), 2),
	)

	e.MarkMine(a)
	count := e.knowledge[0].Count()
	e.MarkMine(a)

	assert.Equal(t, count, e.knowledge[0].Count())
	assert.True(t, e.Mines().Equal(NewCellSet(a)))

	e.MarkSafe(Cell{2, 2})
	safes := e.Safes()
	e.MarkSafe(Cell{2, 2})
	assert.True(t, e.Safes().Equal(safes))
}

func TestTrivialResolutionAllMines(t *testing.T) {
	a := Cell{0, 0}
	b := Cell{0, 1}

	e := NewEngine(3, 3)
	e.addSentence(t, NewCellSet(a, b), 2)

	assert.True(t, e.Mines().Equal(NewCellSet(a, b)))
	assert.Empty(t, e.Knowledge())
	assertInvariants(t, e)
}

func TestTrivialResolutionAllSafe(t *testing.T) {
	a := Cell{0, 0}
	b := Cell{0, 1}
	c := Cell{0, 2}

	e := NewEngine(3, 3)
	e.addSentence(t, NewCellSet(a, b, c), 0)

	assert.True(t, e.Safes().Equal(NewCellSet(a, b, c)))
	assert.Empty(t, e.Knowledge())
	assertInvariants(t, e)
}

func TestSubsetInference(t *testing.T) {
	a := Cell{0, 0}
	b := Cell{0, 1}
	c := Cell{0, 2}

	e := NewEngine(3, 3)
	e.knowledge = append(e.knowledge,
		NewSentence(NewCellSet(a, b), 1),
		NewSentence(NewCellSet(a, b, c), 2),
	)

	e.inferSubsets()

	// ({a,b,c},2) minus ({a,b},1) leaves ({c},1): c is a mine
	assert.True(t, e.Mines().Equal(NewCellSet(c)))
	assertInvariants(t, e)
}

func TestSubsetInferenceCascades(t *testing.T) {
	a := Cell{0, 0}
	b := Cell{0, 1}
	c := Cell{0, 2}
	d := Cell{1, 0}

	e := NewEngine(3, 3)
	e.knowledge = append(e.knowledge,
		NewSentence(NewCellSet(a, b), 1),
		NewSentence(NewCellSet(a, b, c, d), 1),
	)

	e.inferSubsets()

	// the difference sentence ({c,d},0) proves both cells safe, which
	// shrinks nothing else here but must remove the derived sentence
	assert.True(t, e.Safes().Equal(NewCellSet(c, d)))
	assert.Empty(t, e.Mines())
	assertInvariants(t, e)
}

func TestSubsetInferenceDeduplicates(t *testing.T) {
	a := Cell{0, 0}
	b := Cell{0, 1}
	c := Cell{0, 2}
	d := Cell{1, 0}

	e := NewEngine(3, 3)
	e.knowledge = append(e.knowledge,
		NewSentence(NewCellSet(a, b), 1),
		NewSentence(NewCellSet(a, b, c, d), 2),
	)

	e.inferSubsets()
	size := len(e.Knowledge())
	e.inferSubsets()

	// re-running must not re-append the derived ({c,d},1)
	assert.Equal(t, size, len(e.Knowledge()))
	assertInvariants(t, e)
}

func TestAddKnowledgeBuildsNeighborSentence(t *testing.T) {
	e := NewEngine(3, 3)

	require.NoError(t, e.AddKnowledge(Cell{1, 1}, 1))

	kb := e.Knowledge()
	require.Len(t, kb, 1)
	assert.Equal(t, 8, kb[0].Size())
	assert.Equal(t, 1, kb[0].Count())
	assert.Empty(t, e.Mines())
	assert.True(t, e.Safes().Equal(NewCellSet(Cell{1, 1})))
}

func TestAddKnowledgeDeducesMine(t *testing.T) {
	// single mine at (0,0) on a 3x3 board; the (1,1) observation alone
	// proves nothing, but then opening the rest of the board pins it down
	e := NewEngine(3, 3)
	mine := Cell{0, 0}

	require.NoError(t, e.AddKnowledge(Cell{1, 1}, 1))
	require.Empty(t, e.Mines())

	for _, obs := range []struct {
		cell  Cell
		count int
	}{
		{Cell{0, 2}, 0},
		{Cell{1, 2}, 0},
		{Cell{2, 0}, 0},
		{Cell{2, 1}, 0},
		{Cell{2, 2}, 0},
	} {
		require.NoError(t, e.AddKnowledge(obs.cell, obs.count))
	}

	// every remaining neighbor of (1,1) except the mine is now safe, so
	// the original sentence has collapsed to ({(0:0)},1)
	assert.True(t, e.Mines().Equal(NewCellSet(mine)))
	assertInvariants(t, e)
}

func TestAddKnowledgeAdjustsForKnownMines(t *testing.T) {
	mine := Cell{0, 0}

	e := NewEngine(3, 3)
	e.MarkMine(mine)

	// (1,1) reports one neighboring mine, already known; the resulting
	// sentence is all-safe and the whole neighborhood resolves
	require.NoError(t, e.AddKnowledge(Cell{1, 1}, 1))

	assert.Empty(t, e.Knowledge())
	assert.False(t, e.Safes().Has(mine))
	for _, c := range []Cell{{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}} {
		assert.True(t, e.Safes().Has(c), "cell %s should be safe", c)
	}
	assertInvariants(t, e)
}

func TestAddKnowledgeContractViolations(t *testing.T) {
	e := NewEngine(3, 3)

	assert.Error(t, e.AddKnowledge(Cell{3, 0}, 0))
	assert.Error(t, e.AddKnowledge(Cell{0, -1}, 0))
	assert.Error(t, e.AddKnowledge(Cell{0, 0}, -1))

	require.NoError(t, e.AddKnowledge(Cell{0, 0}, 1))
	assert.Error(t, e.AddKnowledge(Cell{0, 0}, 1), "repeated move")

	// a count that cannot be satisfied by the unclassified neighbors
	// must be rejected, not turned into a bogus all-mine sentence
	assert.Error(t, e.AddKnowledge(Cell{2, 2}, 9))
	assertInvariants(t, e)
}

func TestSafeMove(t *testing.T) {
	e := NewEngine(3, 3)

	_, ok := e.SafeMove()
	assert.False(t, ok)

	safe := Cell{2, 2}
	e.MarkSafe(safe)

	c, ok := e.SafeMove()
	require.True(t, ok)
	assert.Equal(t, safe, c)

	// moves already made do not qualify, and querying must not mutate
	require.NoError(t, e.AddKnowledge(safe, 0))
	before := len(e.Safes())
	_, _ = e.SafeMove()
	assert.Equal(t, before, len(e.Safes()))
}

func TestRandomMove(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	e := NewEngine(2, 2)

	e.MarkMine(Cell{0, 0})
	require.NoError(t, e.AddKnowledge(Cell{1, 1}, 1))

	for range 20 {
		c, ok := e.RandomMove(r)
		require.True(t, ok)
		assert.NotEqual(t, Cell{0, 0}, c, "picked a known mine")
		assert.NotEqual(t, Cell{1, 1}, c, "picked a played cell")
	}

	require.NoError(t, e.AddKnowledge(Cell{0, 1}, 1))
	require.NoError(t, e.AddKnowledge(Cell{1, 0}, 1))

	_, ok := e.RandomMove(r)
	assert.False(t, ok, "only the mine is left")
}

func TestFixpointTerminatesOnDenseKnowledge(t *testing.T) {
	// overlapping observations on a mine-free board collapse everything
	e := NewEngine(5, 5)
	for row := range 5 {
		for col := range 5 {
			require.NoError(t, e.AddKnowledge(Cell{row, col}, 0))
		}
	}
	assert.Empty(t, e.Knowledge())
	assert.Len(t, e.Safes(), 25)
	assertInvariants(t, e)
}
