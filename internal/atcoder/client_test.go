package atcoder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atcoder_bingo/internal/atcoder"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/problem-models.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"abc100_a": {"difficulty": 250, "is_experimental": false},
			"abc100_b": {"difficulty": 900, "is_experimental": true},
			"abc100_c": {"is_experimental": false},
			"abc100_d": {}
		}`))
	})
	mux.HandleFunc("/problems.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "abc100_a", "contest_id": "abc100", "title": "Happy Birthday!"},
			{"id": "abc100_b", "contest_id": "abc100", "title": "Ringo's Favorite Numbers"}
		]`))
	})
	mux.HandleFunc("/v3/from/1500000000", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "epoch_second": 1500000100, "problem_id": "abc100_a", "user_id": "u1", "result": "AC"},
			{"id": 2, "epoch_second": 1500000200, "problem_id": "abc100_b", "user_id": "u2", "result": "WA"}
		]`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a feed server", t, func() {
		server := newTestServer()
		defer server.Close()
		client := atcoder.NewClient(server.URL, server.URL, 0)

		Convey("When fetching the difficulty feed", func() {
			estimates, err := client.FetchDifficulties(ctx)

			Convey("Then every raw entry comes back, optional fields preserved", func() {
				So(err, ShouldBeNil)
				So(estimates, ShouldHaveLength, 4)
				So(*estimates["abc100_a"].Difficulty, ShouldEqual, 250)
				So(*estimates["abc100_b"].IsExperimental, ShouldBeTrue)
				So(estimates["abc100_c"].Difficulty, ShouldBeNil)
				So(estimates["abc100_d"].IsExperimental, ShouldBeNil)
			})
		})

		Convey("When fetching the metadata feed", func() {
			infos, err := client.FetchProblemInfo(ctx)

			So(err, ShouldBeNil)
			So(infos, ShouldHaveLength, 2)
			So(infos[0].ID, ShouldEqual, "abc100_a")
			So(infos[0].ContestID, ShouldEqual, "abc100")
			So(infos[0].Title, ShouldEqual, "Happy Birthday!")
		})

		Convey("When fetching a submissions page", func() {
			submissions, err := client.FetchSubmissionsFrom(ctx, time.Unix(1500000000, 0))

			Convey("Then epoch seconds and verdicts are converted", func() {
				So(err, ShouldBeNil)
				So(submissions, ShouldHaveLength, 2)
				So(submissions[0].ID, ShouldEqual, 1)
				So(submissions[0].SubmissionTime.Unix(), ShouldEqual, 1500000100)
				So(submissions[0].Accepted, ShouldBeTrue)
				So(submissions[1].Accepted, ShouldBeFalse)
			})
		})

		Convey("When the server answers with an error status", func() {
			_, err := client.FetchSubmissionsFrom(ctx, time.Unix(42, 0))

			Convey("Then the fetch fails instead of decoding garbage", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
