// Package stats reduces a player's games to outcome counts and picks the
// bounded samples shown to the coaching model.
package stats

import (
	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
)

// Statistics summarizes outcomes. Wins+Losses+Draws always equals Total.
type Statistics struct {
	Total       int     `json:"total"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
	WinPercent  float64 `json:"win_percent"`
	LossPercent float64 `json:"loss_percent"`
	DrawPercent float64 `json:"draw_percent"`
}

// Aggregate counts outcomes for username. Games that cannot be attributed to
// the player are left out of every count. It fails with ErrEmptyGameSet when
// nothing is left to count.
func Aggregate(games []game.Game, username string) (Statistics, error) {
	var s Statistics
	for _, g := range games {
		o, err := outcome.Classify(g, username)
		if err != nil {
			continue
		}
		s.Total++
		switch o {
		case outcome.Win:
			s.Wins++
		case outcome.Loss:
			s.Losses++
		}
	}
	if s.Total == 0 {
		return Statistics{}, ErrEmptyGameSet
	}
	s.Draws = s.Total - s.Wins - s.Losses
	s.WinPercent = percent(s.Wins, s.Total)
	s.LossPercent = percent(s.Losses, s.Total)
	s.DrawPercent = percent(s.Draws, s.Total)
	return s, nil
}

func percent(n, total int) float64 {
	return float64(n) / float64(total) * 100
}
