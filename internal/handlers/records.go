package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"minesweeper-agent/internal/repository"
)

type RecordsHandler struct {
	log  *logrus.Logger
	repo *repository.Queries
}

func NewRecordsHandler(log *logrus.Logger, db *pgxpool.Pool) *RecordsHandler {
	return &RecordsHandler{
		log:  log,
		repo: repository.New(db),
	}
}

func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseRecordsFilterDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	games, err := h.repo.ListAgentGames(r.Context(), repository.AgentGameFilter{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
		Won:       dto.Won,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithField("error", err).Error("unable to list agent games")
		return
	}

	sendJSONOrLog(w, h.log, games)
}
