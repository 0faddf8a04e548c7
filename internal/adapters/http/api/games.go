package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/pkg/logger"
)

// GamesDependencies defines the read operations over the archive.
type GamesDependencies interface {
	Archives(ctx context.Context, username string) ([]string, error)
	MonthGames(ctx context.Context, username string, year, month int) ([]game.Game, error)
	RecentGames(ctx context.Context, username string) ([]game.Game, error)
}

// GamesHandler handles archive and game listing requests.
type GamesHandler struct {
	deps GamesDependencies
	log  logger.Logger
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GamesDependencies, log logger.Logger) *GamesHandler {
	return &GamesHandler{deps: deps, log: log}
}

type archivesResponse struct {
	Username string   `json:"username"`
	Archives []string `json:"archives"`
}

type gamesResponse struct {
	Username   string      `json:"username"`
	TotalGames int         `json:"total_games"`
	Games      []game.Game `json:"games"`
}

// HandleArchives handles GET /api/archives/{username} requests.
func (h *GamesHandler) HandleArchives(w http.ResponseWriter, r *http.Request) {
	const op = "api.archives"
	username := r.PathValue("username")
	archives, err := h.deps.Archives(r.Context(), username)
	if err != nil {
		fail(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, archivesResponse{Username: username, Archives: archives})
}

// HandleMonth handles GET /api/games/{username}/{year}/{month} requests.
func (h *GamesHandler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	const op = "api.games_month"
	username := r.PathValue("username")
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		fail(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid year %q", r.PathValue("year"))))
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		fail(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid month %q", r.PathValue("month"))))
		return
	}
	games, err := h.deps.MonthGames(r.Context(), username, year, month)
	if err != nil {
		fail(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Username: username, TotalGames: len(games), Games: games})
}

// HandleRecent handles GET /api/games/{username} requests.
func (h *GamesHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	const op = "api.games_recent"
	username := r.PathValue("username")
	games, err := h.deps.RecentGames(r.Context(), username)
	if err != nil {
		fail(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Username: username, TotalGames: len(games), Games: games})
}
