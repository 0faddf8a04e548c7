// Package prompt assembles the instruction text sent to the coaching model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
	"github.com/okian/chesscoach/internal/domain/pgn"
	"github.com/okian/chesscoach/internal/domain/stats"
)

const (
	defaultTailMoves = 5
	unknownOpening   = "Unknown"
	openingsSegment  = "/openings/"
)

// Sample is one selected game annotated for the prompt. Number is the
// "Game #N" reference the model is asked to cite.
type Sample struct {
	Number    int
	Game      game.Game
	View      outcome.Perspective
	Opening   string
	MoveCount int
	TailMoves string
}

// Builder renders prompts. The zero value quotes five final moves per loss.
type Builder struct {
	tailMoves int
}

// Option configures a Builder.
type Option func(*Builder)

// WithTailMoves sets how many final numbered moves are quoted per loss.
func WithTailMoves(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.tailMoves = n
		}
	}
}

// NewBuilder returns a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{tailMoves: defaultTailMoves}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OpeningLabel turns an opening reference such as
// "https://www.chess.com/openings/Sicilian-Defense-Open" into "Sicilian Defense Open".
func OpeningLabel(eco string) string {
	eco = strings.TrimSpace(eco)
	if eco == "" {
		return unknownOpening
	}
	if i := strings.LastIndex(eco, openingsSegment); i >= 0 {
		eco = eco[i+len(openingsSegment):]
	} else if i := strings.LastIndex(strings.TrimRight(eco, "/"), "/"); i >= 0 {
		eco = eco[i+1:]
	}
	eco = strings.Trim(eco, "/")
	if eco == "" {
		return unknownOpening
	}
	return strings.ReplaceAll(eco, "-", " ")
}

// Annotate numbers the samples (losses first, then wins) and derives the
// per-game summaries. Games that cannot be attributed to username are skipped.
func (b *Builder) Annotate(username string, set stats.SampleSet) (losses, wins []Sample) {
	n := 0
	annotate := func(games []game.Game) []Sample {
		out := make([]Sample, 0, len(games))
		for _, g := range games {
			view, err := outcome.View(g, username)
			if err != nil {
				continue
			}
			n++
			out = append(out, Sample{
				Number:    n,
				Game:      g,
				View:      view,
				Opening:   OpeningLabel(g.ECO),
				MoveCount: pgn.MoveCount(g.PGN),
				TailMoves: pgn.TailMoves(g.PGN, b.tailMoves),
			})
		}
		return out
	}
	losses = annotate(set.Losses)
	wins = annotate(set.Wins)
	return losses, wins
}

// StatisticsBlock renders the statistics header shared by both stages.
func StatisticsBlock(s stats.Statistics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Total Games: %d\n", s.Total)
	fmt.Fprintf(&sb, "- Wins: %d (%.1f%%)\n", s.Wins, s.WinPercent)
	fmt.Fprintf(&sb, "- Losses: %d (%.1f%%)\n", s.Losses, s.LossPercent)
	fmt.Fprintf(&sb, "- Draws: %d (%.1f%%)", s.Draws, s.DrawPercent)
	return sb.String()
}

// Analysis renders the first-pass request for a set of games.
func (b *Builder) Analysis(username string, s stats.Statistics, set stats.SampleSet) string {
	losses, wins := b.Annotate(username, set)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze these chess games for player %q and identify recurring mistakes with actionable advice.\n\n", username)
	sb.WriteString("STATISTICS:\n")
	sb.WriteString(StatisticsBlock(s))
	sb.WriteString("\n\nSAMPLE LOSSES (with detailed move information):\n")

	for _, smp := range losses {
		fmt.Fprintf(&sb, "\n\nGame #%d:", smp.Number)
		fmt.Fprintf(&sb, "\n  - Time Control: %s", titleCase(string(smp.Game.TimeClass)))
		fmt.Fprintf(&sb, "\n  - Result: Lost by %s", smp.View.Result)
		fmt.Fprintf(&sb, "\n  - Playing as: %s", smp.View.Side.Title())
		fmt.Fprintf(&sb, "\n  - Opponent: %s", smp.View.Opponent)
		fmt.Fprintf(&sb, "\n  - Opening: %s", smp.Opening)
		fmt.Fprintf(&sb, "\n  - Total Moves: %d", smp.MoveCount)
		if smp.TailMoves != "" {
			fmt.Fprintf(&sb, "\n  - Final Moves: %s", smp.TailMoves)
		}
		fmt.Fprintf(&sb, "\n  - URL: %s", smp.Game.URL)
	}

	sb.WriteString("\n\nSAMPLE WINS (for comparison):\n")
	for _, smp := range wins {
		fmt.Fprintf(&sb, "\n\nGame #%d:", smp.Number)
		fmt.Fprintf(&sb, "\n  - Time Control: %s", titleCase(string(smp.Game.TimeClass)))
		fmt.Fprintf(&sb, "\n  - Playing as: %s", smp.View.Side.Title())
		fmt.Fprintf(&sb, "\n  - Opening: %s", smp.Opening)
		fmt.Fprintf(&sb, "\n  - Total Moves: %d", smp.MoveCount)
		fmt.Fprintf(&sb, "\n  - URL: %s", smp.Game.URL)
	}

	sb.WriteString("\n\n")
	sb.WriteString(analysisInstructions(s))
	return sb.String()
}

// Review renders the second-pass request: the facts the draft must agree
// with, the draft itself and the review checklist.
func Review(facts, draft string) string {
	var sb strings.Builder
	sb.WriteString("You are reviewing a chess coach's game analysis. Your job is to improve it if needed, ")
	sb.WriteString("then return the COMPLETE FINAL ANALYSIS that will be shown to the student.\n\n")
	sb.WriteString(reviewChecklist)
	sb.WriteString("\n\nORIGINAL FACTS:\n")
	sb.WriteString(facts)
	sb.WriteString("\n\nANALYSIS TO REVIEW:\n")
	sb.WriteString(draft)
	sb.WriteString("\n\n")
	sb.WriteString(reviewOutputRule)
	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
