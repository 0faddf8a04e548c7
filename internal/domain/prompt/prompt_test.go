package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
	"github.com/okian/chesscoach/internal/domain/prompt"
	"github.com/okian/chesscoach/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func loss(url string) game.Game {
	return game.Game{
		URL:           url,
		PGN:           "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 6. Re1 b5 7. Bb3 d6 0-1",
		TimeClass:     game.Blitz,
		WhiteUsername: "Alice",
		WhiteRating:   1500,
		WhiteResult:   game.ResultResigned,
		BlackUsername: "bob",
		BlackRating:   1520,
		BlackResult:   game.ResultWin,
		ECO:           "https://www.chess.com/openings/Ruy-Lopez-Opening-Morphy-Defense",
	}
}

func win(url string) game.Game {
	return game.Game{
		URL:           url,
		PGN:           "1. d4 d5 2. c4 1-0",
		TimeClass:     game.Rapid,
		WhiteUsername: "carol",
		WhiteResult:   game.ResultCheckmated,
		BlackUsername: "alice",
		BlackResult:   game.ResultWin,
	}
}

func TestOpeningLabel(t *testing.T) {
	Convey("Given opening references", t, func() {
		So(prompt.OpeningLabel("https://www.chess.com/openings/Sicilian-Defense-Open"), ShouldEqual, "Sicilian Defense Open")
		So(prompt.OpeningLabel("Kings-Pawn"), ShouldEqual, "Kings Pawn")
		So(prompt.OpeningLabel("https://example.com/eco/French-Defense/"), ShouldEqual, "French Defense")
		So(prompt.OpeningLabel(""), ShouldEqual, "Unknown")
		So(prompt.OpeningLabel("https://www.chess.com/openings/"), ShouldEqual, "Unknown")
	})
}

func TestAnalysis(t *testing.T) {
	Convey("Given two losses and one win", t, func() {
		set := stats.SampleSet{
			Losses: []game.Game{loss("https://g/1"), loss("https://g/2")},
			Wins:   []game.Game{win("https://g/3")},
		}
		st := stats.Statistics{Total: 3, Wins: 1, Losses: 2, WinPercent: 100.0 / 3, LossPercent: 200.0 / 3}
		text := prompt.NewBuilder(prompt.WithTailMoves(2)).Analysis("alice", st, set)

		Convey("Then statistics use one decimal", func() {
			So(text, ShouldContainSubstring, "- Total Games: 3")
			So(text, ShouldContainSubstring, "- Wins: 1 (33.3%)")
			So(text, ShouldContainSubstring, "- Losses: 2 (66.7%)")
			So(text, ShouldContainSubstring, "- Draws: 0 (0.0%)")
			So(text, ShouldContainSubstring, "Analyzed 3 games: 1 wins (33.3%), 2 losses (66.7%), 0 draws (0.0%)")
		})

		Convey("Then each loss is itemized", func() {
			So(text, ShouldContainSubstring, "Game #1:")
			So(text, ShouldContainSubstring, "Game #2:")
			So(text, ShouldContainSubstring, "- Time Control: Blitz")
			So(text, ShouldContainSubstring, "- Result: Lost by resigned")
			So(text, ShouldContainSubstring, "- Playing as: White")
			So(text, ShouldContainSubstring, "- Opponent: bob")
			So(text, ShouldContainSubstring, "- Opening: Ruy Lopez Opening Morphy Defense")
			So(text, ShouldContainSubstring, "- Total Moves: 7")
			So(text, ShouldContainSubstring, "- Final Moves: 6. Re1 b5 7. Bb3 d6")
			So(text, ShouldContainSubstring, "- URL: https://g/1")
		})

		Convey("Then wins are numbered after the losses", func() {
			winBlock := text[strings.Index(text, "SAMPLE WINS"):]
			So(winBlock, ShouldContainSubstring, "Game #3:")
			So(winBlock, ShouldContainSubstring, "- Playing as: Black")
			So(winBlock, ShouldContainSubstring, "- Opening: Unknown")
			So(winBlock, ShouldNotContainSubstring, "Lost by")
		})

		Convey("Then the instruction template is appended", func() {
			So(text, ShouldContainSubstring, "THE ONE MAIN THING TO WORK ON")
			So(text, ShouldContainSubstring, "at least 5 specific game examples")
			So(text, ShouldContainSubstring, "Additional Patterns & Mistakes")
			So(text, ShouldContainSubstring, "Concrete Practice Plan")
			So(text, ShouldContainSubstring, "Specific Positions to Review")
			So(text, ShouldContainSubstring, "[Game #X](full_game_url)")
		})
	})

	Convey("Given a sample that does not involve the player", t, func() {
		set := stats.SampleSet{Losses: []game.Game{win("https://g/9"), loss("https://g/1")}}
		losses, _ := prompt.NewBuilder().Annotate("alice", set)
		So(len(losses), ShouldEqual, 2)

		stranger := loss("https://g/x")
		stranger.WhiteUsername = "mallory"
		losses, _ = prompt.NewBuilder().Annotate("alice", stats.SampleSet{Losses: []game.Game{stranger}})
		So(losses, ShouldBeEmpty)
	})
}

func TestReview(t *testing.T) {
	Convey("Given facts and a draft", t, func() {
		text := prompt.Review("- Total Games: 3", "DRAFT BODY")
		So(text, ShouldContainSubstring, "ORIGINAL FACTS:\n- Total Games: 3")
		So(text, ShouldContainSubstring, "ANALYSIS TO REVIEW:\nDRAFT BODY")
		So(text, ShouldContainSubstring, "at least 5 specific game examples")
		So(text, ShouldContainSubstring, "Return ONLY the final analysis text")
	})
}

func TestGame(t *testing.T) {
	Convey("Given a single decodable game", t, func() {
		g := loss("https://g/1")
		request, facts, err := prompt.NewBuilder().Game("alice", g)

		So(err, ShouldBeNil)
		So(facts, ShouldContainSubstring, "- Player: alice (1500) as White")
		So(facts, ShouldContainSubstring, "- Opponent: bob (1520)")
		So(facts, ShouldContainSubstring, "- Outcome: loss (resigned)")
		So(facts, ShouldContainSubstring, "- Final Position (FEN): ")
		So(request, ShouldContainSubstring, "MOVES:\n1. e4 e5 2. Nf3 Nc6")
		So(request, ShouldContainSubstring, "[this game](https://g/1)")
	})

	Convey("Given a game the player did not play", t, func() {
		g := loss("https://g/1")
		g.WhiteUsername = "mallory"
		_, _, err := prompt.NewBuilder().Game("alice", g)
		So(errors.Is(err, outcome.ErrAmbiguousAttribution), ShouldBeTrue)
	})
}
