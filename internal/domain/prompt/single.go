package prompt

import (
	"fmt"
	"strings"

	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
	"github.com/okian/chesscoach/internal/domain/pgn"
)

// GameFacts renders the verifiable header of a single game: who played
// what, how it ended and, when the move text replays cleanly, the final
// position.
func GameFacts(username string, g game.Game) (string, error) {
	view, err := outcome.View(g, username)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "- Player: %s (%d) as %s\n", username, view.Rating, view.Side.Title())
	fmt.Fprintf(&sb, "- Opponent: %s (%d)\n", view.Opponent, view.OpponentRating)
	fmt.Fprintf(&sb, "- Outcome: %s (%s)\n", view.Outcome, view.Result)
	fmt.Fprintf(&sb, "- Time Control: %s\n", strings.TrimSpace(titleCase(string(g.TimeClass))+" "+g.TimeControl))
	fmt.Fprintf(&sb, "- Opening: %s\n", OpeningLabel(g.ECO))
	fmt.Fprintf(&sb, "- Total Moves: %d\n", pgn.MoveCount(g.PGN))
	if pos, err := pgn.FinalPosition(g.PGN); err == nil {
		fmt.Fprintf(&sb, "- Final Position (FEN): %s\n", pos.FEN)
		if pos.Method != "" && pos.Method != "NoMethod" {
			fmt.Fprintf(&sb, "- Ended by: %s\n", pos.Method)
		}
	}
	fmt.Fprintf(&sb, "- URL: %s", g.URL)
	return sb.String(), nil
}

// Game renders the first-pass request for a single-game walkthrough.
// The returned facts feed the review stage.
func (b *Builder) Game(username string, g game.Game) (request, facts string, err error) {
	facts, err = GameFacts(username, g)
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Review this game played by %q and coach them through it.\n\n", username)
	sb.WriteString("GAME:\n")
	sb.WriteString(facts)
	sb.WriteString("\n\nMOVES:\n")
	sb.WriteString(pgn.Movetext(g.PGN))
	sb.WriteString("\n\n")
	sb.WriteString(gameFormat)
	fmt.Fprintf(&sb, "\n\nWhen you mention the game, link it as [this game](%s).", g.URL)
	return sb.String(), facts, nil
}

const gameFormat = `Provide your coaching in the following format:

**Summary**
One or two sentences on how the game went.

**Turning Points**
The 2-4 moves where the evaluation really changed. Give the move number, what was played and what should have been considered instead.

**The One Lesson**
The single most useful takeaway from this game and one concrete exercise to practise it.`
