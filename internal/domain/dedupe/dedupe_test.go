package dedupe_test

import (
	"testing"

	"github.com/okian/chesscoach/internal/domain/dedupe"
	"github.com/okian/chesscoach/internal/domain/game"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("Given an empty set", t, func() {
		var s dedupe.Set

		Convey("When an id is recorded twice", func() {
			So(s.SeenAndRecord("a"), ShouldBeFalse)
			So(s.SeenAndRecord("a"), ShouldBeTrue)
			So(s.Size(), ShouldEqual, 1)
		})

		Convey("When ids are blank", func() {
			So(s.SeenAndRecord(""), ShouldBeFalse)
			So(s.SeenAndRecord("  "), ShouldBeFalse)
			So(s.Size(), ShouldEqual, 0)
		})
	})
}

func TestByURL(t *testing.T) {
	Convey("Given games with a repeated URL", t, func() {
		games := []game.Game{
			{URL: "u1", PGN: "first"},
			{URL: "u2"},
			{URL: "u1", PGN: "second"},
			{URL: ""},
			{URL: ""},
		}
		got := dedupe.ByURL(games)

		So(got, ShouldHaveLength, 4)
		So(got[0].PGN, ShouldEqual, "first")
		So(got[1].URL, ShouldEqual, "u2")
		So(got[2].URL, ShouldEqual, "")
		So(got[3].URL, ShouldEqual, "")
	})

	Convey("Given no games", t, func() {
		So(dedupe.ByURL(nil), ShouldBeEmpty)
	})
}
