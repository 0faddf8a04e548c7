package pgn_test

import (
	"errors"
	"testing"

	"github.com/okian/chesscoach/internal/domain/pgn"
	. "github.com/smartystreets/goconvey/convey"
)

// archivePGN mirrors the export format of the archive service: tag pairs,
// clock comments and black continuation numbers.
const archivePGN = `[Event "Live Chess"]
[Site "Chess.com"]
[Date "2024.03.05"]
[White "alice"]
[Black "bob"]
[Result "1-0"]

1. e4 {[%clk 0:09:58.1]} 1... e5 {[%clk 0:09:57.3]} 2. Qh5 {[%clk 0:09:55]} 2... Nc6 {[%clk 0:09:50]} 3. Bc4 {[%clk 0:09:52]} 3... Nf6 {[%clk 0:09:41]} 4. Qxf7# {[%clk 0:09:50]} 1-0`

func TestMoveCount(t *testing.T) {
	Convey("Given PGN move text", t, func() {
		So(pgn.MoveCount("1. e4 e5 2. Nf3 Nc6 3. Bb5"), ShouldEqual, 3)
		So(pgn.MoveCount(""), ShouldEqual, 0)
		So(pgn.MoveCount("   "), ShouldEqual, 0)
		So(pgn.MoveCount("no moves here"), ShouldEqual, 0)

		Convey("When tag pairs contain dotted numbers", func() {
			So(pgn.MoveCount(archivePGN), ShouldEqual, 4)
		})

		Convey("When numbers are out of order the highest wins", func() {
			So(pgn.MoveCount("10. Kg2 Kg7 9. h4"), ShouldEqual, 10)
		})
	})
}

func TestTailMoves(t *testing.T) {
	Convey("Given PGN move text", t, func() {
		Convey("When asking for the last two moves", func() {
			So(pgn.TailMoves("1. e4 e5 2. Nf3 Nc6 3. Bb5 a6", 2), ShouldEqual, "2. Nf3 Nc6 3. Bb5 a6")
		})

		Convey("When fewer moves exist than requested", func() {
			So(pgn.TailMoves("1. e4 e5 2. Nf3", 5), ShouldEqual, "1. e4 e5 2. Nf3")
		})

		Convey("When the text is empty", func() {
			So(pgn.TailMoves("", 5), ShouldEqual, "")
			So(pgn.TailMoves("1. e4", 0), ShouldEqual, "")
		})

		Convey("When the text is a full archive export", func() {
			So(pgn.TailMoves(archivePGN, 2), ShouldEqual, "3. Bc4 Nf6 4. Qxf7#")
		})

		Convey("When the text has variations and annotations", func() {
			text := "1. d4 $1 d5 (1... Nf6 2. c4) 2. c4 {Queen's Gambit} e6 0-1"
			So(pgn.TailMoves(text, 5), ShouldEqual, "1. d4 d5 2. c4 e6")
		})
	})
}

func TestFinalPosition(t *testing.T) {
	Convey("Given a decodable game", t, func() {
		pos, err := pgn.FinalPosition(archivePGN)

		Convey("Then the final position is reported", func() {
			So(err, ShouldBeNil)
			So(pos.FEN, ShouldStartWith, "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq")
			So(pos.Outcome, ShouldEqual, "1-0")
			So(pos.Plies, ShouldEqual, 7)
		})
	})

	Convey("Given empty text", t, func() {
		_, err := pgn.FinalPosition("")
		So(errors.Is(err, pgn.ErrUndecodable), ShouldBeTrue)
	})
}

func TestMovetext(t *testing.T) {
	Convey("Given an archive export", t, func() {
		So(pgn.Movetext(archivePGN), ShouldEqual, "1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7#")
		So(pgn.Movetext(""), ShouldEqual, "")
	})
}
