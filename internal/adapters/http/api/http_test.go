package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/betalog/betalog/internal/adapters/http/api"
	"github.com/betalog/betalog/internal/adapters/store"
	service "github.com/betalog/betalog/internal/app"
	"github.com/betalog/betalog/internal/auth"
	"github.com/betalog/betalog/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestMux(t *testing.T, creds auth.Source) *http.ServeMux {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	routes := []model.ClimbingRoute{
		{ID: "v1", Name: "Slab Start", Color: "green", Difficulty: 2, PanelType: "Verticale", IsActive: true},
		{ID: "v2", Name: "Crimp Ladder", Color: "red", Difficulty: 6, PanelType: "Verticale", IsActive: true},
		{ID: "s1", Name: "Roof Monster", Color: "black", Difficulty: 6, PanelType: "Strapiombo", IsActive: true},
	}
	for _, route := range routes {
		if err := mem.Put(ctx, "routes/"+route.PanelType+"/"+route.ID, route); err != nil {
			t.Fatalf("seeding route %s: %v", route.ID, err)
		}
	}

	svc := service.New(mem, creds)
	server := api.NewServer(svc, svc)
	mux := http.NewServeMux()
	server.Register(ctx, mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServerRegister(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(t, auth.NewStatic("user-1", "tok-1"))

		Convey("Then the health endpoint serves metrics", func() {
			w := doJSON(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "betalog_core")
		})

		Convey("Then the stats endpoint returns service counters", func() {
			w := doJSON(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var stats map[string]interface{}
			So(json.NewDecoder(w.Body).Decode(&stats), ShouldBeNil)
			So(stats, ShouldContainKey, "recorder_active")
		})

		Convey("Then the panels endpoint lists panel types sorted", func() {
			w := doJSON(mux, "GET", "/panels", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var panels []string
			So(json.NewDecoder(w.Body).Decode(&panels), ShouldBeNil)
			So(panels, ShouldResemble, []string{"Strapiombo", "Verticale"})
		})

		Convey("Then the routes endpoint filters by panel", func() {
			w := doJSON(mux, "GET", "/routes?panel=Verticale", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var routes []model.ClimbingRoute
			So(json.NewDecoder(w.Body).Decode(&routes), ShouldBeNil)
			So(len(routes), ShouldEqual, 2)
			So(routes[0].Difficulty, ShouldBeLessThanOrEqualTo, routes[1].Difficulty)
		})

		Convey("Then unfiltered routes return every panel's routes", func() {
			w := doJSON(mux, "GET", "/routes", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var routes []model.ClimbingRoute
			So(json.NewDecoder(w.Body).Decode(&routes), ShouldBeNil)
			So(len(routes), ShouldEqual, 3)
		})

		Convey("Then the dashboard endpoint returns all aggregations", func() {
			w := doJSON(mux, "GET", "/dashboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var dash map[string]json.RawMessage
			So(json.NewDecoder(w.Body).Decode(&dash), ShouldBeNil)
			So(dash, ShouldContainKey, "summary")
			So(dash, ShouldContainKey, "frequency")
			So(dash, ShouldContainKey, "timeByWeekday")
		})

		Convey("Then an unknown path is a 404", func() {
			w := doJSON(mux, "GET", "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestTrainingEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(t, auth.NewStatic("user-1", "tok-1"))

		Convey("When no training is running", func() {
			Convey("Then the state endpoint conflicts", func() {
				w := doJSON(mux, "GET", "/training", "")
				So(w.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When starting a training", func() {
			w := doJSON(mux, "POST", "/training/start", `{"panelType":"Verticale"}`)

			Convey("Then the recorder state is returned", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)

				var status struct {
					State  string `json:"state"`
					Routes []struct {
						Route model.ClimbingRoute `json:"route"`
					} `json:"routes"`
				}
				So(json.NewDecoder(w.Body).Decode(&status), ShouldBeNil)
				So(status.State, ShouldEqual, "idle")
				So(len(status.Routes), ShouldEqual, 2)
			})

			Convey("And a second start conflicts", func() {
				w2 := doJSON(mux, "POST", "/training/start", `{"panelType":"Strapiombo"}`)
				So(w2.Code, ShouldEqual, http.StatusConflict)
			})

			Convey("And selecting a route activates the recorder", func() {
				w2 := doJSON(mux, "POST", "/training/select", `{"routeId":"v1"}`)
				So(w2.Code, ShouldEqual, http.StatusOK)

				var status struct {
					State string `json:"state"`
				}
				So(json.NewDecoder(w2.Body).Decode(&status), ShouldBeNil)
				So(status.State, ShouldEqual, "active")
			})

			Convey("And selecting an unknown route is rejected", func() {
				w2 := doJSON(mux, "POST", "/training/select", `{"routeId":"ghost"}`)
				So(w2.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And attempt deltas other than one are rejected", func() {
				w2 := doJSON(mux, "POST", "/training/attempts", `{"routeId":"v1","delta":3}`)
				So(w2.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And ending with a completed route saves a session", func() {
				So(doJSON(mux, "POST", "/training/select", `{"routeId":"v1"}`).Code, ShouldEqual, http.StatusOK)
				So(doJSON(mux, "POST", "/training/toggle", `{"routeId":"v1"}`).Code, ShouldEqual, http.StatusOK)

				w2 := doJSON(mux, "POST", "/training/end", `{"save":true}`)
				So(w2.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Status  string                 `json:"status"`
					Session *model.TrainingSession `json:"session"`
				}
				So(json.NewDecoder(w2.Body).Decode(&resp), ShouldBeNil)
				So(resp.Status, ShouldEqual, "saved")
				So(resp.Session, ShouldNotBeNil)
				So(len(resp.Session.CompletedRoutes), ShouldEqual, 1)

				sessions := doJSON(mux, "GET", "/sessions", "")
				So(sessions.Code, ShouldEqual, http.StatusOK)
				var list []model.TrainingSession
				So(json.NewDecoder(sessions.Body).Decode(&list), ShouldBeNil)
				So(len(list), ShouldEqual, 1)
			})

			Convey("And ending with nothing selected discards", func() {
				w2 := doJSON(mux, "POST", "/training/end", `{"save":true}`)
				So(w2.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Status string `json:"status"`
				}
				So(json.NewDecoder(w2.Body).Decode(&resp), ShouldBeNil)
				So(resp.Status, ShouldEqual, "discarded")
			})
		})

		Convey("When sending malformed JSON to a training command", func() {
			w := doJSON(mux, "POST", "/training/start", `{broken`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSessionEndpoints(t *testing.T) {
	Convey("Given a server with one saved session", t, func() {
		mux := newTestMux(t, auth.NewStatic("user-1", "tok-1"))
		So(doJSON(mux, "POST", "/training/start", `{"panelType":"Verticale"}`).Code, ShouldEqual, http.StatusCreated)
		So(doJSON(mux, "POST", "/training/select", `{"routeId":"v2"}`).Code, ShouldEqual, http.StatusOK)

		var resp struct {
			Session *model.TrainingSession `json:"session"`
		}
		end := doJSON(mux, "POST", "/training/end", `{"save":true}`)
		So(end.Code, ShouldEqual, http.StatusOK)
		So(json.NewDecoder(end.Body).Decode(&resp), ShouldBeNil)
		So(resp.Session, ShouldNotBeNil)

		Convey("When deleting it", func() {
			w := doJSON(mux, "DELETE", "/sessions/"+resp.Session.ID, "")

			Convey("Then the history is empty afterwards", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				list := doJSON(mux, "GET", "/sessions", "")
				So(list.Code, ShouldEqual, http.StatusOK)
				var sessions []model.TrainingSession
				So(json.NewDecoder(list.Body).Decode(&sessions), ShouldBeNil)
				So(sessions, ShouldBeEmpty)
			})
		})

		Convey("When deleting with an empty id", func() {
			w := doJSON(mux, "DELETE", "/sessions/", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAuthorizationResponses(t *testing.T) {
	Convey("Given a server with no signed-in user", t, func() {
		mux := newTestMux(t, auth.NewStatic("", ""))

		Convey("Then user-scoped endpoints prompt for sign-in", func() {
			for _, target := range []string{"/dashboard", "/sessions"} {
				w := doJSON(mux, "GET", target, "")
				So(w.Code, ShouldEqual, http.StatusUnauthorized)

				var resp struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				}
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "unauthorized")
				So(resp.Message, ShouldContainSubstring, "sign-in")
			}
		})

		Convey("Then starting a training prompts for sign-in too", func() {
			w := doJSON(mux, "POST", "/training/start", `{"panelType":"Verticale"}`)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("But the public catalog stays reachable", func() {
			w := doJSON(mux, "GET", "/panels", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}
