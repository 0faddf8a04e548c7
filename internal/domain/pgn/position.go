package pgn

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// Position describes where a replayed game ended.
type Position struct {
	FEN     string
	Outcome string
	Method  string
	Plies   int
}

// FinalPosition replays text and reports the final position.
func FinalPosition(text string) (Position, error) {
	if strings.TrimSpace(text) == "" {
		return Position{}, fmt.Errorf("%w: empty", ErrUndecodable)
	}
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	g := chess.NewGame(opt)
	return Position{
		FEN:     g.Position().String(),
		Outcome: string(g.Outcome()),
		Method:  g.Method().String(),
		Plies:   len(g.Moves()),
	}, nil
}
