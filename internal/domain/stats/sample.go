package stats

import (
	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
)

// Sample bounds. Select never exceeds them.
const (
	DefaultLossLimit = 8
	DefaultWinLimit  = 3
)

// SampleSet holds the first losses and wins in input order.
type SampleSet struct {
	Losses []game.Game
	Wins   []game.Game
}

// Len returns the number of sampled games.
func (s SampleSet) Len() int { return len(s.Losses) + len(s.Wins) }

// Select takes the first lossLimit losses and winLimit wins by order of
// appearance. Limits are clamped to [0, DefaultLossLimit] and
// [0, DefaultWinLimit].
func Select(games []game.Game, username string, lossLimit, winLimit int) SampleSet {
	lossLimit = min(max(lossLimit, 0), DefaultLossLimit)
	winLimit = min(max(winLimit, 0), DefaultWinLimit)
	set := SampleSet{
		Losses: make([]game.Game, 0, lossLimit),
		Wins:   make([]game.Game, 0, winLimit),
	}
	for _, g := range games {
		if len(set.Losses) == lossLimit && len(set.Wins) == winLimit {
			break
		}
		o, err := outcome.Classify(g, username)
		if err != nil {
			continue
		}
		switch {
		case o == outcome.Loss && len(set.Losses) < lossLimit:
			set.Losses = append(set.Losses, g)
		case o == outcome.Win && len(set.Wins) < winLimit:
			set.Wins = append(set.Wins, g)
		}
	}
	return set
}
