// Package service ties archive retrieval, game normalization and the coaching
// pipeline together for the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/chesscoach/internal/adapters/llm"
	"github.com/okian/chesscoach/internal/domain/dedupe"
	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
	"github.com/okian/chesscoach/internal/domain/prompt"
	"github.com/okian/chesscoach/internal/domain/stats"
	"github.com/okian/chesscoach/pkg/logger"
	"github.com/okian/chesscoach/pkg/metrics"
)

const (
	defaultRecentMonths = 12
	defaultDraftTemp    = 0.7
	defaultReviewTemp   = 0.3
	defaultDraftTokens  = 2000
	defaultReviewTokens = 2200

	kindAggregate = "aggregate"
	kindGame      = "game"

	skipMalformed = "malformed"
	skipAmbiguous = "ambiguous"
)

// Fetcher reads raw game records from the archive service.
type Fetcher interface {
	Archives(ctx context.Context, username string) ([]string, error)
	MonthURL(username string, year, month int) string
	MonthGames(ctx context.Context, location string) []json.RawMessage
	FetchRecentGames(ctx context.Context, username string, months int) ([]json.RawMessage, error)
}

// Report is the result of a multi-game analysis.
type Report struct {
	Username   string           `json:"username"`
	Statistics stats.Statistics `json:"statistics"`
	Analysis   string           `json:"analysis"`
}

// Service implements the API dependencies.
type Service struct {
	fetcher Fetcher
	model   llm.Capability
	builder *prompt.Builder

	analysis Pipeline
	single   Pipeline

	recentMonths int
	lossLimit    int
	winLimit     int
	tailMoves    int
	draftTemp    float64
	reviewTemp   float64
	draftTokens  int
	reviewTokens int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecentMonths sets how many archive months a recent fetch covers.
func WithRecentMonths(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentMonths = n
		}
	}
}

// WithSampleLimits bounds how many losses and wins are quoted to the model.
// Limits above stats.DefaultLossLimit and stats.DefaultWinLimit are clamped.
func WithSampleLimits(losses, wins int) Option {
	return func(s *Service) {
		if losses >= 0 {
			s.lossLimit = min(losses, stats.DefaultLossLimit)
		}
		if wins >= 0 {
			s.winLimit = min(wins, stats.DefaultWinLimit)
		}
	}
}

// WithTailMoves sets how many final moves are quoted per loss.
func WithTailMoves(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.tailMoves = n
		}
	}
}

// WithDraftStage sets the sampling parameters of the first model call.
func WithDraftStage(temperature float64, maxTokens int) Option {
	return func(s *Service) {
		s.draftTemp = temperature
		if maxTokens > 0 {
			s.draftTokens = maxTokens
		}
	}
}

// WithReviewStage sets the sampling parameters of the second model call.
func WithReviewStage(temperature float64, maxTokens int) Option {
	return func(s *Service) {
		s.reviewTemp = temperature
		if maxTokens > 0 {
			s.reviewTokens = maxTokens
		}
	}
}

// New constructs a Service. model may be absent; analysis calls then fail
// with ErrAnalysisUnavailable.
func New(fetcher Fetcher, model llm.Capability, opts ...Option) *Service {
	s := &Service{
		fetcher:      fetcher,
		model:        model,
		recentMonths: defaultRecentMonths,
		lossLimit:    stats.DefaultLossLimit,
		winLimit:     stats.DefaultWinLimit,
		draftTemp:    defaultDraftTemp,
		reviewTemp:   defaultReviewTemp,
		draftTokens:  defaultDraftTokens,
		reviewTokens: defaultReviewTokens,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = prompt.NewBuilder(prompt.WithTailMoves(s.tailMoves))
	s.analysis = NewAnalysisPipeline(s.draftTemp, s.reviewTemp, s.draftTokens, s.reviewTokens)
	s.single = NewGamePipeline(s.draftTemp, s.reviewTemp, s.draftTokens, s.reviewTokens)
	return s
}

// AnalysisAvailable reports whether a language model is configured.
func (s *Service) AnalysisAvailable() bool { return s.model.Available() }

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// Archives lists the player's archive locations, oldest first.
func (s *Service) Archives(ctx context.Context, username string) ([]string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Archives(ctx, username)
}

// MonthGames returns the player's normalized games for one month.
func (s *Service) MonthGames(ctx context.Context, username string, year, month int) ([]game.Game, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if year <= 0 || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidMonth, year, month)
	}
	raws := s.fetcher.MonthGames(ctx, s.fetcher.MonthURL(username, year, month))
	return s.normalize(ctx, raws), nil
}

// RecentGames returns the player's normalized games across the configured
// number of recent months.
func (s *Service) RecentGames(ctx context.Context, username string) ([]game.Game, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	raws, err := s.fetcher.FetchRecentGames(ctx, username, s.recentMonths)
	if err != nil {
		return nil, err
	}
	games := s.normalize(ctx, raws)
	s.logger.Info(ctx, "fetched recent games",
		logger.String("username", username),
		logger.Int("games", len(games)),
	)
	return games, nil
}

// normalize decodes raw records of either shape, dropping the malformed ones.
func (s *Service) normalize(ctx context.Context, raws []json.RawMessage) []game.Game {
	games := game.Collect(raws, func(index int, _ json.RawMessage, err error) {
		metrics.RecordGameSkipped(skipMalformed)
		s.logger.Warn(ctx, "skipping malformed game", logger.Int("index", index), logger.Error(err))
	})
	metrics.RecordGamesNormalized(len(games))
	return games
}

// AnalyzeRecent fetches the player's recent games and analyzes them.
func (s *Service) AnalyzeRecent(ctx context.Context, username string) (Report, error) {
	if !s.model.Available() {
		metrics.RecordAnalysis(kindAggregate, "unavailable")
		return Report{}, ErrAnalysisUnavailable
	}
	games, err := s.RecentGames(ctx, username)
	if err != nil {
		return Report{}, err
	}
	return s.Analyze(ctx, username, games)
}

// Analyze builds the statistics and the reviewed coaching text for games.
// The model capability is checked before anything else happens.
func (s *Service) Analyze(ctx context.Context, username string, games []game.Game) (Report, error) {
	completer, ok := s.model.Completer()
	if !ok {
		metrics.RecordAnalysis(kindAggregate, "unavailable")
		return Report{}, ErrAnalysisUnavailable
	}
	username, err := normalizeUsername(username)
	if err != nil {
		return Report{}, err
	}

	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID), logger.String("username", username))

	games = outcome.Attributable(dedupe.ByURL(games), username, func(g game.Game, err error) {
		metrics.RecordGameSkipped(skipAmbiguous)
		log.Warn(ctx, "skipping game", logger.String("url", g.URL), logger.Error(err))
	})

	st, err := stats.Aggregate(games, username)
	if err != nil {
		metrics.RecordAnalysis(kindAggregate, "empty")
		return Report{}, err
	}
	samples := stats.Select(games, username, s.lossLimit, s.winLimit)
	log.Info(ctx, "analyzing games",
		logger.Int("games", st.Total),
		logger.Int("losses_sampled", len(samples.Losses)),
		logger.Int("wins_sampled", len(samples.Wins)),
	)

	text, err := s.analysis.Run(ctx, completer, Input{
		Prompt: s.builder.Analysis(username, st, samples),
		Facts:  prompt.StatisticsBlock(st),
	}, log)
	if err != nil {
		metrics.RecordAnalysis(kindAggregate, "failed")
		return Report{}, err
	}
	metrics.RecordAnalysis(kindAggregate, "ok")
	return Report{Username: username, Statistics: st, Analysis: text}, nil
}

// AnalyzeRaw normalizes raw records and analyzes them.
func (s *Service) AnalyzeRaw(ctx context.Context, username string, raws []json.RawMessage) (Report, error) {
	if !s.model.Available() {
		metrics.RecordAnalysis(kindAggregate, "unavailable")
		return Report{}, ErrAnalysisUnavailable
	}
	return s.Analyze(ctx, username, s.normalize(ctx, raws))
}

// AnalyzeGame coaches the player through a single raw game record.
func (s *Service) AnalyzeGame(ctx context.Context, username string, raw json.RawMessage) (string, error) {
	completer, ok := s.model.Completer()
	if !ok {
		metrics.RecordAnalysis(kindGame, "unavailable")
		return "", ErrAnalysisUnavailable
	}
	username, err := normalizeUsername(username)
	if err != nil {
		return "", err
	}
	g, err := game.Decode(raw)
	if err != nil {
		metrics.RecordAnalysis(kindGame, "rejected")
		return "", err
	}

	log := s.logger.With(logger.String("run_id", uuid.NewString()), logger.String("username", username))
	request, facts, err := s.builder.Game(username, g)
	if err != nil {
		metrics.RecordAnalysis(kindGame, "rejected")
		if errors.Is(err, outcome.ErrAmbiguousAttribution) {
			log.Warn(ctx, "game does not involve player", logger.String("url", g.URL))
		}
		return "", err
	}

	text, err := s.single.Run(ctx, completer, Input{Prompt: request, Facts: facts}, log)
	if err != nil {
		metrics.RecordAnalysis(kindGame, "failed")
		return "", err
	}
	metrics.RecordAnalysis(kindGame, "ok")
	return text, nil
}
