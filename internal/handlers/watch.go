package handlers

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"minesweeper-agent/internal/agent"
	"minesweeper-agent/internal/board"
	"minesweeper-agent/internal/config"
	"minesweeper-agent/internal/repository"
)

// pause between streamed moves so a spectator can follow the game
const moveDelay = 150 * time.Millisecond

type WatchClaims struct {
	WatchId string `json:"watch_id"`
	jwt.RegisteredClaims
}

type watchGame struct {
	params CreateWatchDTO
	seed   uint64
}

/*
WatchHandler lets a client set up an agent game and watch it being played
over a WebSocket. Creating a watch session returns an id and a signed
token; connecting with both plays the game server-side, streaming one
message per move, and records the finished game.
*/
type WatchHandler struct {
	log  *logrus.Logger
	repo *repository.Queries
	ws   *config.WebSocket
	jwt  *config.JWT
	rnd  *rand.Rand

	mu      sync.Mutex
	pending map[string]watchGame
}

func NewWatchHandler(
	log *logrus.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	tokens *config.JWT,
	rnd *rand.Rand,
) *WatchHandler {
	return &WatchHandler{
		log:     log,
		repo:    repository.New(db),
		ws:      ws,
		jwt:     tokens,
		rnd:     rnd,
		pending: make(map[string]watchGame),
	}
}

func (h *WatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateWatchDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	h.mu.Lock()
	watchId := fmt.Sprintf("%016x", h.rnd.Uint64())
	seed := h.rnd.Uint64()
	if dto.Seed != nil {
		seed = *dto.Seed
	}
	h.pending[watchId] = watchGame{params: dto, seed: seed}
	h.mu.Unlock()

	now := time.Now()
	token, err := h.jwt.Sign(WatchClaims{
		WatchId: watchId,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.jwt.TokenLifetime())),
		},
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithField("error", err).Error("unable to sign watch token")
		return
	}

	sendJSONOrLog(w, h.log, map[string]string{
		"watch_id": watchId,
		"token":    token,
	})
}

func (h *WatchHandler) take(watchId string) (watchGame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	game, ok := h.pending[watchId]
	if ok {
		delete(h.pending, watchId)
	}
	return game, ok
}

func (h *WatchHandler) Connect(w http.ResponseWriter, r *http.Request) {
	watchId := r.PathValue("id")

	var claims WatchClaims
	if _, err := h.jwt.ParseWithClaims(
		r.URL.Query().Get("token"), &claims,
	); err != nil || claims.WatchId != watchId {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	game, ok := h.take(watchId)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithField("error", err).Error("unable to upgrade connection")
		return
	}
	defer c.Close()

	h.playAndStream(r, c, watchId, game)
}

type moveMessage struct {
	Type string     `json:"type"`
	Move agent.Move `json:"move"`
	View string     `json:"view"`
}

type outcomeMessage struct {
	Type    string         `json:"type"`
	Outcome *agent.Outcome `json:"outcome"`
}

func (h *WatchHandler) playAndStream(
	r *http.Request, c *websocket.Conn, watchId string, game watchGame,
) {
	gameRand := rand.New(rand.NewPCG(game.seed, game.seed))

	b, err := board.New(
		game.params.Height, game.params.Width, game.params.MineCount, gameRand,
	)
	if err != nil {
		h.log.WithField("error", err).Error("unable to create board")
		return
	}

	a := agent.New(b, gameRand)
	started := time.Now()

	for {
		move, ok, err := a.Step()
		if err != nil {
			h.log.WithField("error", err).Error("agent step failed")
			return
		}
		if !ok {
			break
		}
		err = c.WriteJSON(moveMessage{
			Type: "move",
			Move: move,
			View: a.View(),
		})
		if err != nil {
			h.log.WithField("error", err).Warn("spectator gone, abandoning game")
			return
		}
		if a.Won() || a.Lost() {
			break
		}
		time.Sleep(moveDelay)
	}

	outcome := a.Outcome()
	playtime := time.Since(started)

	if err := c.WriteJSON(outcomeMessage{
		Type:    "outcome",
		Outcome: outcome,
	}); err != nil {
		h.log.WithField("error", err).Warn("unable to send outcome")
	}

	_, err = h.repo.CreateAgentGame(r.Context(), repository.CreateAgentGameParams{
		WatchId:         watchId,
		Width:           b.Width(),
		Height:          b.Height(),
		MineCount:       b.MineCount(),
		Seed:            int64(game.seed),
		Won:             outcome.Won,
		MoveCount:       len(outcome.Moves),
		SafeMoveCount:   outcome.SafeMoves,
		RandomMoveCount: outcome.RandomMoves,
		PlaytimeMs:      float64(playtime) / float64(time.Millisecond),
	})
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"watchId": watchId,
			"error":   err,
		}).Error("unable to record agent game")
	}
}
