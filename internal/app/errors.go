package service

import (
	"errors"
	"fmt"

	"github.com/okian/chesscoach/internal/adapters/llm"
)

var (
	// ErrAnalysisUnavailable is returned when no language model is configured.
	ErrAnalysisUnavailable = fmt.Errorf("analysis unavailable: %w", llm.ErrNotConfigured)
	// ErrAnalysisFailed wraps a failed model call.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrInvalidUsername is returned for a blank username.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidMonth is returned for a month outside 1-12 or a non-positive year.
	ErrInvalidMonth = errors.New("invalid month")
)
