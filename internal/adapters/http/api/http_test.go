package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/grandseiken/wiispace-board/internal/adapters/http/api"
	service "github.com/grandseiken/wiispace-board/internal/app"
	"github.com/grandseiken/wiispace-board/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// testServer wires the full API over an in-memory service.
type testServer struct {
	svc *service.Service
	mux *http.ServeMux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	svc := service.New(service.WithReplaysPerPage(5), service.WithCommentsPerPage(3))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return &testServer{svc: svc, mux: mux}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	ts.mux.ServeHTTP(w, req)
	return w
}

func (ts *testServer) register(name string) int64 {
	w := ts.do(http.MethodPost, "/players", fmt.Sprintf(`{"name":%q}`, name))
	var resp struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.ID
}

func (ts *testServer) submit(uploaderID, seed, score int64) api.SubmitResult {
	body := fmt.Sprintf(
		`{"uploader_id":%d,"seed":%d,"version":"1.3","mode":"GAME","players":1,"score":%d,"team_name":"seiken"}`,
		uploaderID, seed, score)
	w := ts.do(http.MethodPost, "/replays", body)
	var result api.SubmitResult
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func TestSubmitEndpoint(t *testing.T) {
	Convey("Given the API over a fresh board", t, func() {
		ts := newTestServer(t)
		playerID := ts.register("seiken")
		So(playerID, ShouldBeGreaterThan, 0)

		Convey("When posting a valid submission", func() {
			body := fmt.Sprintf(
				`{"uploader_id":%d,"seed":42,"version":"1.3","mode":"GAME","players":1,"score":1000,"team_name":"seiken"}`,
				playerID)
			w := ts.do(http.MethodPost, "/replays", body)

			Convey("Then it is created at rank one", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var result api.SubmitResult
				So(json.Unmarshal(w.Body.Bytes(), &result), ShouldBeNil)
				So(result.ID, ShouldBeGreaterThan, 0)
				So(result.Rank, ShouldEqual, 1)
				So(result.Total, ShouldEqual, 1000)
			})

			Convey("And posting it again conflicts with the stored record", func() {
				first := w
				So(first.Code, ShouldEqual, http.StatusCreated)
				var created api.SubmitResult
				So(json.Unmarshal(first.Body.Bytes(), &created), ShouldBeNil)

				second := ts.do(http.MethodPost, "/replays", body)
				So(second.Code, ShouldEqual, http.StatusConflict)

				var dup struct {
					Code       string `json:"code"`
					ExistingID int64  `json:"existing_id"`
				}
				So(json.Unmarshal(second.Body.Bytes(), &dup), ShouldBeNil)
				So(dup.Code, ShouldEqual, "duplicate")
				So(dup.ExistingID, ShouldEqual, created.ID)
			})
		})

		Convey("When the payload is malformed", func() {
			w := ts.do(http.MethodPost, "/replays", `{"uploader_id":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the mode tag is unknown", func() {
			body := fmt.Sprintf(
				`{"uploader_id":%d,"seed":1,"version":"1.3","mode":"COOP","players":1,"score":1,"team_name":"x"}`,
				playerID)
			w := ts.do(http.MethodPost, "/replays", body)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the uploader does not exist", func() {
			w := ts.do(http.MethodPost, "/replays",
				`{"uploader_id":999,"seed":1,"version":"1.3","mode":"GAME","players":1,"score":1,"team_name":"x"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is wrong", func() {
			w := ts.do(http.MethodGet, "/replays", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestBoardEndpoints(t *testing.T) {
	Convey("Given a board with records", t, func() {
		ts := newTestServer(t)
		playerID := ts.register("seiken")
		for i, score := range []int64{500, 900, 100} {
			result := ts.submit(playerID, int64(i), score)
			So(result.ID, ShouldBeGreaterThan, 0)
		}

		Convey("When fetching the category page", func() {
			w := ts.do(http.MethodGet, "/boards/0", "")

			Convey("Then it returns the ordered page", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var page api.ScoreboardPage
				So(json.Unmarshal(w.Body.Bytes(), &page), ShouldBeNil)
				So(page.Total, ShouldEqual, 3)
				So(len(page.Entries), ShouldEqual, 3)
				So(page.Entries[0].Score, ShouldEqual, 900)
				So(page.Entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When requesting worst-first order", func() {
			w := ts.do(http.MethodGet, "/boards/0?order=1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var page api.ScoreboardPage
			So(json.Unmarshal(w.Body.Bytes(), &page), ShouldBeNil)
			So(page.Entries[0].Score, ShouldEqual, 100)
		})

		Convey("When the category index is out of range", func() {
			w := ts.do(http.MethodGet, "/boards/30", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the index is not a number", func() {
			w := ts.do(http.MethodGet, "/boards/abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching the unlocked modes", func() {
			w := ts.do(http.MethodGet, "/boards/modes", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var modes map[string]bool
			So(json.Unmarshal(w.Body.Bytes(), &modes), ShouldBeNil)
			So(modes["GAME"], ShouldBeTrue)
			So(modes["BOSS"], ShouldBeFalse)
		})
	})
}

func TestReplayEndpoints(t *testing.T) {
	Convey("Given a stored record", t, func() {
		ts := newTestServer(t)
		alice := ts.register("alice")
		bob := ts.register("bob")
		result := ts.submit(alice, 42, 1000)

		Convey("When fetching its detail", func() {
			w := ts.do(http.MethodGet, fmt.Sprintf("/replays/%d", result.ID), "")

			So(w.Code, ShouldEqual, http.StatusOK)
			var detail api.ReplayDetail
			So(json.Unmarshal(w.Body.Bytes(), &detail), ShouldBeNil)
			So(detail.Entry.ID, ShouldEqual, result.ID)
			So(detail.Entry.PlayerName, ShouldEqual, "alice")
			So(detail.Seed, ShouldEqual, 42)
		})

		Convey("When the record does not exist", func() {
			w := ts.do(http.MethodGet, "/replays/999", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the id is malformed", func() {
			w := ts.do(http.MethodGet, "/replays/abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When downloading it", func() {
			w := ts.do(http.MethodGet, fmt.Sprintf("/replays/%d/download", result.ID), "")

			So(w.Code, ShouldEqual, http.StatusOK)
			var dl struct {
				Downloads int64 `json:"downloads"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &dl), ShouldBeNil)
			So(dl.Downloads, ShouldEqual, 1)
		})

		Convey("When asking for a random record", func() {
			w := ts.do(http.MethodGet, "/replays/random", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var resp map[string]int64
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["id"], ShouldEqual, result.ID)
		})

		Convey("When the uploader edits the record text", func() {
			body := fmt.Sprintf(`{"uploader_id":%d,"text":"route notes"}`, alice)
			w := ts.do(http.MethodPatch, fmt.Sprintf("/replays/%d/comment", result.ID), body)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When anyone else edits the record text", func() {
			body := fmt.Sprintf(`{"uploader_id":%d,"text":"sabotage"}`, bob)
			w := ts.do(http.MethodPatch, fmt.Sprintf("/replays/%d/comment", result.ID), body)
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})
	})
}

func TestPlayerEndpoints(t *testing.T) {
	Convey("Given two registered players", t, func() {
		ts := newTestServer(t)
		alice := ts.register("alice")
		_ = ts.register("bob")
		ts.submit(alice, 1, 1000)

		Convey("When listing players by score", func() {
			w := ts.do(http.MethodGet, "/players", "")

			So(w.Code, ShouldEqual, http.StatusOK)
			var page api.PlayerListPage
			So(json.Unmarshal(w.Body.Bytes(), &page), ShouldBeNil)
			So(page.Total, ShouldEqual, 2)
			So(page.Entries[0].Name, ShouldEqual, "alice")
			So(page.Entries[0].Rank, ShouldEqual, 1)
		})

		Convey("When listing players by name", func() {
			w := ts.do(http.MethodGet, "/players?by=name", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var page api.PlayerListPage
			So(json.Unmarshal(w.Body.Bytes(), &page), ShouldBeNil)
			So(page.ByName, ShouldBeTrue)
		})

		Convey("When fetching a profile", func() {
			w := ts.do(http.MethodGet, fmt.Sprintf("/players/%d", alice), "")

			So(w.Code, ShouldEqual, http.StatusOK)
			var profile api.Profile
			So(json.Unmarshal(w.Body.Bytes(), &profile), ShouldBeNil)
			So(profile.Name, ShouldEqual, "alice")
			So(profile.TotalScore, ShouldEqual, 1000)
			So(profile.Uploads, ShouldEqual, 1)
		})

		Convey("When updating the profile blurb", func() {
			w := ts.do(http.MethodPatch, fmt.Sprintf("/players/%d/about", alice), `{"about":"speedrunner"}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			detail := ts.do(http.MethodGet, fmt.Sprintf("/players/%d", alice), "")
			var profile api.Profile
			So(json.Unmarshal(detail.Body.Bytes(), &profile), ShouldBeNil)
			So(profile.About, ShouldEqual, "speedrunner")
		})

		Convey("When registering a blank name", func() {
			w := ts.do(http.MethodPost, "/players", `{"name":""}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the profile does not exist", func() {
			w := ts.do(http.MethodGet, "/players/999", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCommentEndpoints(t *testing.T) {
	Convey("Given a record to discuss", t, func() {
		ts := newTestServer(t)
		alice := ts.register("alice")
		bob := ts.register("bob")
		result := ts.submit(alice, 42, 1000)

		postComment := func(authorID int64, text string) *httptest.ResponseRecorder {
			body := fmt.Sprintf(`{"author_id":%d,"replay_id":%d,"text":%q}`, authorID, result.ID, text)
			return ts.do(http.MethodPost, "/comments", body)
		}

		Convey("When posting a comment", func() {
			w := postComment(bob, "nice run")

			So(w.Code, ShouldEqual, http.StatusCreated)
			var entry struct {
				ID   int64 `json:"id"`
				Rank int   `json:"rank"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &entry), ShouldBeNil)
			So(entry.Rank, ShouldEqual, 1)

			Convey("And the author can edit it", func() {
				body := fmt.Sprintf(`{"author_id":%d,"text":"even nicer"}`, bob)
				edit := ts.do(http.MethodPatch, fmt.Sprintf("/comments/%d", entry.ID), body)
				So(edit.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And nobody else can", func() {
				body := fmt.Sprintf(`{"author_id":%d,"text":"mine now"}`, alice)
				edit := ts.do(http.MethodPatch, fmt.Sprintf("/comments/%d", entry.ID), body)
				So(edit.Code, ShouldEqual, http.StatusForbidden)
			})

			Convey("And its thread page resolves for jump links", func() {
				w := ts.do(http.MethodGet, fmt.Sprintf("/comments/%d/page?replay_id=%d", entry.ID, result.ID), "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp map[string]int
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["page"], ShouldEqual, 0)
			})
		})

		Convey("When the comment is too short", func() {
			w := postComment(bob, "a")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the comment targets a missing record", func() {
			body := fmt.Sprintf(`{"author_id":%d,"replay_id":999,"text":"hello"}`, bob)
			w := ts.do(http.MethodPost, "/comments", body)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the page query lacks a replay id", func() {
			w := ts.do(http.MethodGet, "/comments/1/page", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the wired API", t, func() {
		ts := newTestServer(t)

		Convey("When probing the health endpoint", func() {
			w := ts.do(http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When reading the stats endpoint", func() {
			w := ts.do(http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("When any request passes the middleware", func() {
			w := ts.do(http.MethodGet, "/healthz", "")

			Convey("Then it carries a request id", func() {
				So(w.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
			})
		})
	})
}
