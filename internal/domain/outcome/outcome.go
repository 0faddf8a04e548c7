// Package outcome classifies games as wins, losses or draws from the point of
// view of one player.
package outcome

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/chesscoach/internal/domain/game"
)

// Side is the colour a player had in a game.
type Side string

const (
	White Side = "white"
	Black Side = "black"
)

// Title returns "White" or "Black".
func (s Side) Title() string {
	if s == White {
		return "White"
	}
	return "Black"
}

// Outcome is a game result for the queried player.
type Outcome int

const (
	Draw Outcome = iota
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "draw"
	}
}

// lossResults are the tokens that count against the player. Everything that
// is neither "win" nor in this set is a draw.
var lossResults = map[game.Result]struct{}{
	game.ResultCheckmated: {},
	game.ResultResigned:   {},
	game.ResultTimeout:    {},
	game.ResultAbandoned:  {},
	game.ResultLose:       {},
}

// Perspective is one game seen from the queried player's side.
type Perspective struct {
	Side           Side
	Result         game.Result
	Rating         int
	Opponent       string
	OpponentRating int
	Outcome        Outcome
}

// SideOf finds the queried player's colour by case-insensitive exact match.
func SideOf(g game.Game, username string) (Side, error) {
	white := strings.EqualFold(g.WhiteUsername, username)
	black := strings.EqualFold(g.BlackUsername, username)
	switch {
	case white && !black:
		return White, nil
	case black && !white:
		return Black, nil
	default:
		return "", fmt.Errorf("%w: %q is not exactly one of %q/%q", ErrAmbiguousAttribution, username, g.WhiteUsername, g.BlackUsername)
	}
}

// View resolves the player's side, result and opponent for g.
func View(g game.Game, username string) (Perspective, error) {
	side, err := SideOf(g, username)
	if err != nil {
		return Perspective{}, err
	}
	p := Perspective{Side: side}
	if side == White {
		p.Result, p.Rating = g.WhiteResult, g.WhiteRating
		p.Opponent, p.OpponentRating = g.BlackUsername, g.BlackRating
	} else {
		p.Result, p.Rating = g.BlackResult, g.BlackRating
		p.Opponent, p.OpponentRating = g.WhiteUsername, g.WhiteRating
	}
	p.Outcome = ofResult(p.Result)
	return p, nil
}

// Classify returns the outcome of g for username.
func Classify(g game.Game, username string) (Outcome, error) {
	p, err := View(g, username)
	if err != nil {
		return Draw, err
	}
	return p.Outcome, nil
}

// ClassifyRaw classifies an externally supplied record of either shape.
func ClassifyRaw(raw json.RawMessage, username string) (Outcome, error) {
	g, err := game.Decode(raw)
	if err != nil {
		return Draw, err
	}
	return Classify(g, username)
}

// IsWin reports whether username won g. Unattributable games are never wins.
func IsWin(g game.Game, username string) bool {
	o, err := Classify(g, username)
	return err == nil && o == Win
}

// IsLoss reports whether username lost g. Unattributable games are never losses.
func IsLoss(g game.Game, username string) bool {
	o, err := Classify(g, username)
	return err == nil && o == Loss
}

// IsLossResult reports whether a single result token is a loss.
func IsLossResult(r game.Result) bool {
	_, ok := lossResults[r]
	return ok
}

func ofResult(r game.Result) Outcome {
	switch {
	case r == game.ResultWin:
		return Win
	case IsLossResult(r):
		return Loss
	default:
		return Draw
	}
}

// SkipFunc receives every game Attributable drops.
type SkipFunc func(g game.Game, err error)

// Attributable keeps the games in which username played exactly one side,
// preserving order.
func Attributable(games []game.Game, username string, skip SkipFunc) []game.Game {
	out := make([]game.Game, 0, len(games))
	for _, g := range games {
		if _, err := SideOf(g, username); err != nil {
			if skip != nil {
				skip(g, err)
			}
			continue
		}
		out = append(out, g)
	}
	return out
}
