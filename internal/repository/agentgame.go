package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrDuplicateGame = errors.New("game already recorded")

// AgentGame is one finished game played by the agent.
type AgentGame struct {
	AgentGameId     int                `json:"agent_game_id"`
	WatchId         string             `json:"watch_id"`
	Width           int                `json:"width"`
	Height          int                `json:"height"`
	MineCount       int                `json:"mine_count"`
	Seed            int64              `json:"seed"`
	Won             bool               `json:"won"`
	MoveCount       int                `json:"move_count"`
	SafeMoveCount   int                `json:"safe_move_count"`
	RandomMoveCount int                `json:"random_move_count"`
	PlaytimeMs      float64            `json:"playtime_ms"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

type CreateAgentGameParams struct {
	WatchId         string
	Width           int
	Height          int
	MineCount       int
	Seed            int64
	Won             bool
	MoveCount       int
	SafeMoveCount   int
	RandomMoveCount int
	PlaytimeMs      float64
}

func (q Queries) CreateAgentGame(
	ctx context.Context, params CreateAgentGameParams,
) (*AgentGame, error) {
	args := pgx.NamedArgs{
		"watch_id":          params.WatchId,
		"width":             params.Width,
		"height":            params.Height,
		"mine_count":        params.MineCount,
		"seed":              params.Seed,
		"won":               params.Won,
		"move_count":        params.MoveCount,
		"safe_move_count":   params.SafeMoveCount,
		"random_move_count": params.RandomMoveCount,
		"playtime_ms":       params.PlaytimeMs,
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO agent_game (
			watch_id, width, height, mine_count, seed, won,
			move_count, safe_move_count, random_move_count, playtime_ms
		)
		VALUES (
			@watch_id, @width, @height, @mine_count, @seed, @won,
			@move_count, @safe_move_count, @random_move_count, @playtime_ms
		)
		RETURNING *;`,
		args,
	)
	game, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[AgentGame],
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return nil, ErrDuplicateGame
	}
	return game, err
}

type AgentGameFilter struct {
	Width     *int
	Height    *int
	MineCount *int
	Won       *bool
}

func (f AgentGameFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Width != nil {
		clauses = append(clauses, "width = @width")
		args["width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "height = @height")
		args["height"] = *f.Height
	}
	if f.MineCount != nil {
		clauses = append(clauses, "mine_count = @mineCount")
		args["mineCount"] = *f.MineCount
	}
	if f.Won != nil {
		clauses = append(clauses, "won = @won")
		args["won"] = *f.Won
	}
	return strings.Join(clauses, " AND "), args
}

// ListAgentGames returns finished games matching the filter, wins before
// losses, fastest first.
func (q Queries) ListAgentGames(
	ctx context.Context, filter AgentGameFilter,
) ([]AgentGame, error) {
	query := "SELECT * FROM agent_game"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY won DESC, playtime_ms;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[AgentGame])
}
