package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithLLMBuckets([]float64{100, 1000}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors should be registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.gamesNormalized.Add(2)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_games_normalized_total")
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given a configured global manager", t, func() {
		Configure(WithNamespace("coach"), WithSubsystem("api"))
		defer Configure()

		RecordGamesNormalized(1)

		Convey("Then its collectors are served from the new registry", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "coach_api_games_normalized_total")
		})
	})
}

func TestRecordFunctions(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording archive and pipeline activity", func() {
			beforeMonths := testutil.ToFloat64(globalManager.monthsFailed)
			beforeSkipped := testutil.ToFloat64(globalManager.gamesSkipped.WithLabelValues("malformed"))
			beforeCalls := testutil.ToFloat64(globalManager.llmCalls.WithLabelValues("draft", "ok"))

			RecordMonthFailed()
			RecordGameSkipped("malformed")
			RecordLLMCall("draft", "ok", 1200)
			RecordArchiveRequest("archives", "ok")
			RecordMonthFetched()
			RecordGamesNormalized(3)
			RecordAnalysis("aggregate", "ok")
			RecordHTTPRequest("analyze", "POST", "200")
			RecordHTTPRequestDuration("analyze", "POST", "200", 12)
			RecordErrorByEndpoint("analyze", "POST", "server_error")

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(globalManager.monthsFailed), ShouldEqual, beforeMonths+1)
				So(testutil.ToFloat64(globalManager.gamesSkipped.WithLabelValues("malformed")), ShouldEqual, beforeSkipped+1)
				So(testutil.ToFloat64(globalManager.llmCalls.WithLabelValues("draft", "ok")), ShouldEqual, beforeCalls+1)
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}

func TestSystemGauges(t *testing.T) {
	Convey("Given the global manager", t, func() {
		UpdateSystemMemoryUsage(2048)
		UpdateSystemGoroutineCount(7)
		RecordSystemGCPauseTime(0.5)

		So(testutil.ToFloat64(globalManager.memoryUsage), ShouldEqual, 2048)
		So(testutil.ToFloat64(globalManager.goroutineCount), ShouldEqual, 7)
		So(testutil.ToFloat64(globalManager.gcPause), ShouldEqual, 0.5)
	})
}
