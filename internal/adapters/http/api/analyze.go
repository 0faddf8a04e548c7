package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/chesscoach/pkg/logger"
)

const maxBodyBytes = 8 << 20

// AnalyzeDependencies defines the analysis operations.
type AnalyzeDependencies interface {
	AnalyzeRecent(ctx context.Context, username string) (Report, error)
	AnalyzeRaw(ctx context.Context, username string, raws []json.RawMessage) (Report, error)
	AnalyzeGame(ctx context.Context, username string, raw json.RawMessage) (string, error)
}

// AnalyzeHandler handles coaching requests.
type AnalyzeHandler struct {
	deps AnalyzeDependencies
	log  logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, log: log}
}

// analyzeRequest is the body of POST /api/analyze. Games may be flat or
// nested records; when omitted the recent archive is fetched.
type analyzeRequest struct {
	Username string            `json:"username"`
	Games    []json.RawMessage `json:"games"`
}

type gameRequest struct {
	Username string          `json:"username"`
	Game     json.RawMessage `json:"game"`
}

type gameAnalysisResponse struct {
	Username string `json:"username"`
	Analysis string `json:"analysis"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// HandleAnalyze handles POST /api/analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		fail(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, errors.New("missing username")))
		return
	}

	var (
		report Report
		err    error
	)
	if req.Games == nil {
		report, err = h.deps.AnalyzeRecent(r.Context(), req.Username)
	} else {
		report, err = h.deps.AnalyzeRaw(r.Context(), req.Username, req.Games)
	}
	if err != nil {
		fail(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleAnalyzeGame handles POST /api/analyze/game requests.
func (h *AnalyzeHandler) HandleAnalyzeGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_game"
	var req gameRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, err))
		return
	}
	switch {
	case strings.TrimSpace(req.Username) == "":
		fail(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, errors.New("missing username")))
		return
	case len(req.Game) == 0 || string(req.Game) == "null":
		fail(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, errors.New("missing game")))
		return
	}
	text, err := h.deps.AnalyzeGame(r.Context(), req.Username, req.Game)
	if err != nil {
		fail(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, gameAnalysisResponse{Username: strings.TrimSpace(req.Username), Analysis: text})
}
