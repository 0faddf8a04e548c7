package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/okian/chesscoach/internal/adapters/archive"
	"github.com/okian/chesscoach/internal/adapters/llm"
	service "github.com/okian/chesscoach/internal/app"
	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
	"github.com/okian/chesscoach/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeFetcher serves canned months and counts every call.
type fakeFetcher struct {
	mu       sync.Mutex
	calls    int
	archives map[string][]string
	months   map[string][]json.RawMessage
}

func (f *fakeFetcher) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeFetcher) Archives(_ context.Context, username string) ([]string, error) {
	f.hit()
	a, ok := f.archives[strings.ToLower(username)]
	if !ok {
		return nil, archive.ErrUserNotFound
	}
	return a, nil
}

func (f *fakeFetcher) MonthURL(username string, year, month int) string {
	return fmt.Sprintf("m/%s/%d/%02d", strings.ToLower(username), year, month)
}

func (f *fakeFetcher) MonthGames(_ context.Context, location string) []json.RawMessage {
	f.hit()
	return f.months[location]
}

func (f *fakeFetcher) FetchRecentGames(ctx context.Context, username string, months int) ([]json.RawMessage, error) {
	a, err := f.Archives(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(a) == 0 {
		return nil, archive.ErrNoArchives
	}
	if len(a) > months {
		a = a[len(a)-months:]
	}
	var out []json.RawMessage
	for _, loc := range a {
		out = append(out, f.MonthGames(ctx, loc)...)
	}
	return out, nil
}

// fakeCompleter records requests and answers from a script.
type fakeCompleter struct {
	requests []llm.Request
	replies  []string
	failOn   int
}

func (c *fakeCompleter) Name() string { return "fake" }

func (c *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	c.requests = append(c.requests, req)
	if c.failOn == len(c.requests) {
		return "", errors.New("provider down")
	}
	return c.replies[len(c.requests)-1], nil
}

func nested(url, whiteUser, whiteResult, blackUser, blackResult string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"url": %q,
		"pgn": "1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0",
		"time_class": "blitz",
		"end_time": 1700000000,
		"white": {"username": %q, "rating": 1500, "result": %q},
		"black": {"username": %q, "rating": 1510, "result": %q}
	}`, url, whiteUser, whiteResult, blackUser, blackResult))
}

func aliceMonth() []json.RawMessage {
	return []json.RawMessage{
		nested("https://g/1", "alice", "win", "bob", "checkmated"),
		nested("https://g/2", "carol", "win", "Alice", "checkmated"),
		nested("https://g/3", "alice", "stalemate", "dave", "stalemate"),
	}
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		archives: map[string][]string{
			"alice":  {"m/alice/2024/01"},
			"newbie": {},
		},
		months: map[string][]json.RawMessage{
			"m/alice/2024/01": aliceMonth(),
		},
	}
}

func TestService_MonthGames(t *testing.T) {
	Convey("Given a month with three nested games", t, func() {
		svc := service.New(newFetcher(), llm.Absent())
		ctx := context.Background()

		Convey("When the month is requested", func() {
			games, err := svc.MonthGames(ctx, "Alice", 2024, 1)
			So(err, ShouldBeNil)
			So(games, ShouldHaveLength, 3)
			So(games[1].BlackUsername, ShouldEqual, "Alice")
			So(games[0].Rules, ShouldEqual, "chess")
		})

		Convey("When the month is out of range", func() {
			_, err := svc.MonthGames(ctx, "alice", 2024, 13)
			So(errors.Is(err, service.ErrInvalidMonth), ShouldBeTrue)
		})

		Convey("When the username is blank", func() {
			_, err := svc.MonthGames(ctx, "  ", 2024, 1)
			So(errors.Is(err, service.ErrInvalidUsername), ShouldBeTrue)
		})
	})

	Convey("Given a month with a malformed record", t, func() {
		f := newFetcher()
		f.months["m/alice/2024/01"] = append(aliceMonth(), json.RawMessage(`[1,2]`), json.RawMessage(`{"white":{"rating":"high"}}`))
		games, err := service.New(f, llm.Absent()).MonthGames(context.Background(), "alice", 2024, 1)
		So(err, ShouldBeNil)
		So(games, ShouldHaveLength, 3)
	})
}

func TestService_RecentGames(t *testing.T) {
	Convey("Given the archive service", t, func() {
		svc := service.New(newFetcher(), llm.Absent(), service.WithRecentMonths(6))
		ctx := context.Background()

		games, err := svc.RecentGames(ctx, "alice")
		So(err, ShouldBeNil)
		So(games, ShouldHaveLength, 3)

		_, err = svc.RecentGames(ctx, "ghost")
		So(errors.Is(err, archive.ErrUserNotFound), ShouldBeTrue)

		_, err = svc.RecentGames(ctx, "newbie")
		So(errors.Is(err, archive.ErrNoArchives), ShouldBeTrue)
	})
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given alice's month and a configured model", t, func() {
		completer := &fakeCompleter{replies: []string{"DRAFT TEXT", "FINAL TEXT"}}
		svc := service.New(newFetcher(), llm.Present(completer))

		Convey("When her recent games are analyzed", func() {
			report, err := svc.AnalyzeRecent(ctx, "alice")

			Convey("Then the statistics split evenly", func() {
				So(err, ShouldBeNil)
				So(report.Username, ShouldEqual, "alice")
				So(report.Statistics.Total, ShouldEqual, 3)
				So(report.Statistics.Wins, ShouldEqual, 1)
				So(report.Statistics.Losses, ShouldEqual, 1)
				So(report.Statistics.Draws, ShouldEqual, 1)
				So(report.Statistics.WinPercent, ShouldAlmostEqual, 33.3, 0.1)
				So(report.Statistics.LossPercent, ShouldAlmostEqual, 33.3, 0.1)
				So(report.Statistics.DrawPercent, ShouldAlmostEqual, 33.3, 0.1)
			})

			Convey("Then only the reviewed text is returned", func() {
				So(report.Analysis, ShouldEqual, "FINAL TEXT")
				So(completer.requests, ShouldHaveLength, 2)
			})

			Convey("Then the draft runs warm and the review runs cool", func() {
				draft, review := completer.requests[0], completer.requests[1]
				So(draft.Temperature, ShouldEqual, 0.7)
				So(draft.MaxTokens, ShouldEqual, 2000)
				So(draft.Prompt, ShouldContainSubstring, "Game #1:")
				So(draft.Prompt, ShouldContainSubstring, "https://g/2")
				So(review.Temperature, ShouldEqual, 0.3)
				So(review.MaxTokens, ShouldEqual, 2200)
				So(review.Prompt, ShouldContainSubstring, "DRAFT TEXT")
				So(review.Prompt, ShouldContainSubstring, "- Total Games: 3")
				So(review.System, ShouldNotEqual, draft.System)
			})
		})

		Convey("When games include duplicates and strangers", func() {
			games := game.Collect(append(aliceMonth(),
				nested("https://g/1", "alice", "win", "bob", "checkmated"),
				nested("https://g/9", "erin", "win", "frank", "resigned"),
			), nil)
			report, err := svc.Analyze(ctx, "alice", games)
			So(err, ShouldBeNil)
			So(report.Statistics.Total, ShouldEqual, 3)
		})

		Convey("When no game involves the player", func() {
			games := game.Collect([]json.RawMessage{nested("https://g/9", "erin", "win", "frank", "resigned")}, nil)
			_, err := svc.Analyze(ctx, "alice", games)
			So(errors.Is(err, stats.ErrEmptyGameSet), ShouldBeTrue)
			So(completer.requests, ShouldBeEmpty)
		})

		Convey("When raw records of both shapes are supplied", func() {
			flat := json.RawMessage(`{"url":"https://g/7","white_username":"alice","white_result":"resigned","black_username":"zed","black_result":"win"}`)
			report, err := svc.AnalyzeRaw(ctx, "alice", append(aliceMonth(), flat))
			So(err, ShouldBeNil)
			So(report.Statistics.Total, ShouldEqual, 4)
			So(report.Statistics.Losses, ShouldEqual, 2)
		})
	})

	Convey("Given a model that fails on the review", t, func() {
		completer := &fakeCompleter{replies: []string{"DRAFT", ""}, failOn: 2}
		svc := service.New(newFetcher(), llm.Present(completer))

		_, err := svc.AnalyzeRecent(ctx, "alice")
		So(errors.Is(err, service.ErrAnalysisFailed), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "provider down")
		So(err.Error(), ShouldContainSubstring, "review")
	})

	Convey("Given a model that fails on the draft", t, func() {
		completer := &fakeCompleter{failOn: 1}
		svc := service.New(newFetcher(), llm.Present(completer))

		_, err := svc.AnalyzeRecent(ctx, "alice")
		So(errors.Is(err, service.ErrAnalysisFailed), ShouldBeTrue)
		So(completer.requests, ShouldHaveLength, 1)
	})

	Convey("Given no configured model", t, func() {
		f := newFetcher()
		svc := service.New(f, llm.Absent())
		So(svc.AnalysisAvailable(), ShouldBeFalse)

		Convey("Then analysis fails before any fetch", func() {
			_, err := svc.AnalyzeRecent(ctx, "alice")
			So(errors.Is(err, service.ErrAnalysisUnavailable), ShouldBeTrue)
			So(errors.Is(err, llm.ErrNotConfigured), ShouldBeTrue)

			_, err = svc.AnalyzeRaw(ctx, "alice", aliceMonth())
			So(errors.Is(err, service.ErrAnalysisUnavailable), ShouldBeTrue)

			_, err = svc.AnalyzeGame(ctx, "alice", aliceMonth()[0])
			So(errors.Is(err, service.ErrAnalysisUnavailable), ShouldBeTrue)

			So(f.calls, ShouldEqual, 0)
		})
	})
}

func TestService_AnalyzeGame(t *testing.T) {
	ctx := context.Background()

	Convey("Given a configured model", t, func() {
		completer := &fakeCompleter{replies: []string{"GAME DRAFT", "GAME FINAL"}}
		svc := service.New(newFetcher(), llm.Present(completer), service.WithDraftStage(0.9, 1500))

		Convey("When a game the player lost is analyzed", func() {
			text, err := svc.AnalyzeGame(ctx, "Alice", aliceMonth()[1])
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "GAME FINAL")
			So(completer.requests[0].Temperature, ShouldEqual, 0.9)
			So(completer.requests[0].MaxTokens, ShouldEqual, 1500)
			So(completer.requests[0].Prompt, ShouldContainSubstring, "as Black")
			So(completer.requests[1].Prompt, ShouldContainSubstring, "GAME DRAFT")
		})

		Convey("When the game does not involve the player", func() {
			_, err := svc.AnalyzeGame(ctx, "alice", nested("u", "erin", "win", "frank", "resigned"))
			So(errors.Is(err, outcome.ErrAmbiguousAttribution), ShouldBeTrue)
			So(completer.requests, ShouldBeEmpty)
		})

		Convey("When the record is malformed", func() {
			_, err := svc.AnalyzeGame(ctx, "alice", json.RawMessage(`"nope"`))
			So(errors.Is(err, game.ErrMalformedRecord), ShouldBeTrue)
		})
	})
}

func TestService_SampleLimits(t *testing.T) {
	Convey("Given forty games and limits above the sample bounds", t, func() {
		var raws []json.RawMessage
		for i := 0; i < 40; i++ {
			result, other := "win", "resigned"
			if i%2 == 1 {
				result, other = "checkmated", "win"
			}
			raws = append(raws, nested(fmt.Sprintf("https://g/%d", i), "alice", result, "bob", other))
		}
		completer := &fakeCompleter{replies: []string{"DRAFT", "FINAL"}}
		svc := service.New(newFetcher(), llm.Present(completer), service.WithSampleLimits(50, 20))

		report, err := svc.AnalyzeRaw(context.Background(), "alice", raws)

		So(err, ShouldBeNil)
		So(report.Statistics.Total, ShouldEqual, 40)
		draft := completer.requests[0].Prompt
		So(draft, ShouldContainSubstring, "Game #11:")
		So(draft, ShouldNotContainSubstring, "Game #12:")
	})
}
