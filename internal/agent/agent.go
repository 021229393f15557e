package agent

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"minesweeper-agent/internal/board"
	"minesweeper-agent/internal/knowledge"
)

var Log = logrus.New()

// Move records one step of a game: the cell the agent opened, whether the
// cell was deduced safe or picked at random, and what the board answered.
type Move struct {
	Cell    knowledge.Cell `json:"cell"`
	Deduced bool           `json:"deduced"`
	Mine    bool           `json:"mine"`
	Nearby  int            `json:"nearby"`
}

// Outcome summarizes a finished game.
type Outcome struct {
	Won         bool             `json:"won"`
	Lost        bool             `json:"lost"`
	Moves       []Move           `json:"moves"`
	SafeMoves   int              `json:"safe_moves"`
	RandomMoves int              `json:"random_moves"`
	Flagged     []knowledge.Cell `json:"flagged"`
}

/*
Agent plays one game of minesweeper against a board oracle. It keeps its
conclusions in a knowledge engine and only ever consults the board the way
a player could: by opening a cell and reading the reported neighbor count.
*/
type Agent struct {
	board  *board.Board
	engine *knowledge.Engine
	rnd    *rand.Rand

	won, lost bool
	moves     []Move
}

func New(b *board.Board, r *rand.Rand) *Agent {
	return &Agent{
		board:  b,
		engine: knowledge.NewEngine(b.Height(), b.Width()),
		rnd:    r,
	}
}

// Engine exposes the agent's knowledge engine for inspection.
func (a *Agent) Engine() *knowledge.Engine { return a.engine }

func (a *Agent) Won() bool { return a.won }

func (a *Agent) Lost() bool { return a.lost }

func (a *Agent) Moves() []Move { return a.moves }

// Done reports whether the game is over, either by win, by loss, or
// because no playable cell remains.
func (a *Agent) Done() bool {
	if a.won || a.lost {
		return true
	}
	if _, ok := a.engine.SafeMove(); ok {
		return false
	}
	_, ok := a.engine.RandomMove(a.rnd)
	return !ok
}

/*
Step plays one move: a cell proven safe if any is known, a random untried
non-mine cell otherwise. Opening a mine loses the game on the spot; a safe
open feeds the observation back into the engine. The second result is
false when the game is already over or no move is available.
*/
func (a *Agent) Step() (Move, bool, error) {
	if a.won || a.lost {
		return Move{}, false, nil
	}

	cell, ok := a.engine.SafeMove()
	move := Move{Cell: cell, Deduced: true}
	if !ok {
		if cell, ok = a.engine.RandomMove(a.rnd); !ok {
			return Move{}, false, nil
		}
		move = Move{Cell: cell, Deduced: false}
	}

	if a.board.IsMine(move.Cell) {
		move.Mine = true
		a.lost = true
		a.moves = append(a.moves, move)
		Log.WithField("cell", move.Cell.String()).Info("opened a mine")
		return move, true, nil
	}

	move.Nearby = a.board.NearbyMines(move.Cell)
	if err := a.engine.AddKnowledge(move.Cell, move.Nearby); err != nil {
		return Move{}, false, fmt.Errorf("unable to ingest observation: %w", err)
	}
	a.moves = append(a.moves, move)

	Log.WithFields(logrus.Fields{
		"cell":    move.Cell.String(),
		"deduced": move.Deduced,
		"nearby":  move.Nearby,
	}).Debug("opened cell")

	if a.checkWin() {
		a.won = true
	}
	return move, true, nil
}

/*
The agent wins once its proven mine set matches the board's, or when every
non-mine cell has been opened.
*/
func (a *Agent) checkWin() bool {
	if a.engine.Mines().Equal(a.board.Mines()) {
		return true
	}
	opened := len(a.engine.MovesMade())
	return opened == a.board.Height()*a.board.Width()-a.board.MineCount()
}

// Play runs the game to completion and returns its outcome.
func (a *Agent) Play() (*Outcome, error) {
	for {
		_, ok, err := a.Step()
		if err != nil {
			return nil, err
		}
		if !ok || a.won || a.lost {
			break
		}
	}
	return a.Outcome(), nil
}

// Outcome summarizes the game so far.
func (a *Agent) Outcome() *Outcome {
	out := &Outcome{
		Won:     a.won,
		Lost:    a.lost,
		Moves:   a.moves,
		Flagged: a.engine.Mines().Cells(),
	}
	for _, m := range a.moves {
		if m.Mine {
			continue
		}
		if m.Deduced {
			out.SafeMoves++
		} else {
			out.RandomMoves++
		}
	}
	return out
}

// View renders the board as the agent currently sees it.
func (a *Agent) View() string {
	return a.board.View(a.engine.MovesMade(), a.engine.Mines())
}
