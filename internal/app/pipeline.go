package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/chesscoach/internal/adapters/llm"
	"github.com/okian/chesscoach/internal/domain/prompt"
	"github.com/okian/chesscoach/pkg/logger"
	"github.com/okian/chesscoach/pkg/metrics"
)

// Stage is one model call of the pipeline.
type Stage struct {
	Name        string
	System      string
	Temperature float64
	MaxTokens   int
}

func (s Stage) request(text string) llm.Request {
	return llm.Request{
		System:      s.System,
		Prompt:      text,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}

// Input is what the pipeline works from. Facts are the verifiable parts of
// Prompt that the review stage checks the draft against.
type Input struct {
	Prompt string
	Facts  string
}

// Pipeline drafts an analysis and then has it reviewed. Only the reviewed
// text leaves the pipeline.
type Pipeline struct {
	Draft  Stage
	Review Stage
}

// Default stage names, also used as metric labels.
const (
	StageDraft  = "draft"
	StageReview = "review"
)

// NewAnalysisPipeline returns the pipeline for multi-game reports.
func NewAnalysisPipeline(draftTemp, reviewTemp float64, draftTokens, reviewTokens int) Pipeline {
	return Pipeline{
		Draft:  Stage{Name: StageDraft, System: prompt.CoachPersona, Temperature: draftTemp, MaxTokens: draftTokens},
		Review: Stage{Name: StageReview, System: prompt.ReviewerPersona, Temperature: reviewTemp, MaxTokens: reviewTokens},
	}
}

// NewGamePipeline returns the pipeline for single-game walkthroughs.
func NewGamePipeline(draftTemp, reviewTemp float64, draftTokens, reviewTokens int) Pipeline {
	return Pipeline{
		Draft:  Stage{Name: StageDraft, System: prompt.GameCoachPersona, Temperature: draftTemp, MaxTokens: draftTokens},
		Review: Stage{Name: StageReview, System: prompt.GameReviewerPersona, Temperature: reviewTemp, MaxTokens: reviewTokens},
	}
}

// Run executes both stages in order. Either failure is reported as
// ErrAnalysisFailed wrapping the cause.
func (p Pipeline) Run(ctx context.Context, c llm.Completer, in Input, log logger.Logger) (string, error) {
	draft, err := p.call(ctx, c, p.Draft, in.Prompt, log)
	if err != nil {
		return "", err
	}
	return p.call(ctx, c, p.Review, prompt.Review(in.Facts, draft), log)
}

func (p Pipeline) call(ctx context.Context, c llm.Completer, s Stage, text string, log logger.Logger) (string, error) {
	start := time.Now()
	out, err := c.Complete(ctx, s.request(text))
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordLLMCall(s.Name, "error", float64(elapsed.Milliseconds()))
		log.Error(ctx, "model call failed",
			logger.String("stage", s.Name),
			logger.String("model", c.Name()),
			logger.Error(err),
		)
		return "", fmt.Errorf("%w: %s stage: %w", ErrAnalysisFailed, s.Name, err)
	}
	metrics.RecordLLMCall(s.Name, "ok", float64(elapsed.Milliseconds()))
	log.Debug(ctx, "model call done",
		logger.String("stage", s.Name),
		logger.String("model", c.Name()),
		logger.Duration("elapsed", elapsed),
		logger.Int("chars", len(out)),
	)
	return out, nil
}
