// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/chesscoach/internal/app"
	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Archives(ctx context.Context, username string) ([]string, error)
	MonthGames(ctx context.Context, username string, year, month int) ([]game.Game, error)
	RecentGames(ctx context.Context, username string) ([]game.Game, error)

	AnalysisAvailable() bool
	AnalyzeRecent(ctx context.Context, username string) (Report, error)
	AnalyzeRaw(ctx context.Context, username string, raws []json.RawMessage) (Report, error)
	AnalyzeGame(ctx context.Context, username string, raw json.RawMessage) (string, error)
}

// Report mirrors the analysis result returned by the service.
type Report = service.Report

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	gamesHandler   *GamesHandler
	analyzeHandler *AnalyzeHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		gamesHandler:   NewGamesHandler(deps, log),
		analyzeHandler: NewAnalyzeHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.healthHandler.HandleRoot, "root"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)

	mux.HandleFunc("GET /api/archives/{username}", MetricsMiddleware(s.gamesHandler.HandleArchives, "archives"))
	mux.HandleFunc("GET /api/games/{username}/{year}/{month}", MetricsMiddleware(s.gamesHandler.HandleMonth, "games_month"))
	mux.HandleFunc("GET /api/games/{username}", MetricsMiddleware(s.gamesHandler.HandleRecent, "games_recent"))

	mux.HandleFunc("POST /api/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("POST /api/analyze/game", MetricsMiddleware(s.analyzeHandler.HandleAnalyzeGame, "analyze_game"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps err to a response and logs it; server-side failures log at error.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	status, code := statusFor(err)
	fields := []logger.Field{
		logger.String("op", opOf(err)),
		logger.Int("status", status),
		logger.String("request_id", RequestIDFrom(ctx)),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", fields...)
	} else {
		log.Warn(ctx, "request rejected", fields...)
	}
	writeError(w, status, code, err)
}
