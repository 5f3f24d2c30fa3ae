package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	store "github.com/betalog/betalog/internal/adapters/store"
	"github.com/betalog/betalog/internal/auth"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRESTStore(t *testing.T) {
	Convey("Given a REST store against a fake backend", t, func() {
		ctx := context.Background()

		Convey("When getting an existing document", func(c C) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.URL.Path, ShouldEqual, "/routes/Verticale/r1.json")
				c.So(r.URL.Query().Get("auth"), ShouldEqual, "tok-1")
				w.Write([]byte(`{"id":"r1","difficulty":4}`))
			}))
			defer backend.Close()

			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "tok-1"))
			raw, err := s.Get(ctx, "routes/Verticale/r1")

			Convey("Then the document comes back", func() {
				So(err, ShouldBeNil)
				var doc map[string]any
				So(json.Unmarshal(raw, &doc), ShouldBeNil)
				So(doc["id"], ShouldEqual, "r1")
			})
		})

		Convey("When the backend answers null for a path", func() {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("null"))
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "tok-1"))

			Convey("Then Get reports not found", func() {
				_, err := s.Get(ctx, "routes/Verticale/missing")
				So(store.IsNotFound(err), ShouldBeTrue)
			})

			Convey("And GetAll yields an empty slice", func() {
				docs, err := s.GetAll(ctx, "routes/Verticale")
				So(err, ShouldBeNil)
				So(docs, ShouldBeEmpty)
			})

			Convey("And ListChildKeys yields an empty slice", func() {
				keys, err := s.ListChildKeys(ctx, "routes")
				So(err, ShouldBeNil)
				So(keys, ShouldBeEmpty)
			})
		})

		Convey("When no credential is available", func() {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("request should not reach the backend without a token")
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("", ""))

			_, err := s.Get(ctx, "routes/Verticale/r1")

			Convey("Then the call fails with an authorization error", func() {
				So(store.IsUnauthorized(err), ShouldBeTrue)
			})
		})

		Convey("When the backend rejects the credential", func() {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "expired"))

			_, err := s.Get(ctx, "routes/Verticale/r1")

			Convey("Then the error is an authorization failure, not empty data", func() {
				So(store.IsUnauthorized(err), ShouldBeTrue)
			})
		})

		Convey("When the backend is unreachable", func() {
			s := store.NewREST("http://127.0.0.1:1", auth.NewStatic("user-1", "tok-1"))

			_, err := s.Get(ctx, "routes/Verticale/r1")

			Convey("Then the error is a transport failure", func() {
				So(store.IsTransport(err), ShouldBeTrue)
			})
		})

		Convey("When posting a document", func(c C) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.Method, ShouldEqual, http.MethodPost)
				w.Write([]byte(`{"name":"-Nabc123"}`))
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "tok-1"))

			key, err := s.Post(ctx, "trainingSessions/user-1", map[string]any{"duration": 1800})

			Convey("Then the generated key is returned", func() {
				So(err, ShouldBeNil)
				So(key, ShouldEqual, "-Nabc123")
			})
		})

		Convey("When listing child keys", func(c C) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.URL.Query().Get("shallow"), ShouldEqual, "true")
				w.Write([]byte(`{"Verticale":true,"Strapiombo":true}`))
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "tok-1"))

			keys, err := s.ListChildKeys(ctx, "routes")

			Convey("Then keys come back sorted", func() {
				So(err, ShouldBeNil)
				So(keys, ShouldResemble, []string{"Strapiombo", "Verticale"})
			})
		})

		Convey("When getting all children", func() {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"r2":{"id":"r2"},"r1":{"id":"r1"}}`))
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "tok-1"))

			docs, err := s.GetAll(ctx, "routes/Verticale")

			Convey("Then documents are ordered by key", func() {
				So(err, ShouldBeNil)
				So(len(docs), ShouldEqual, 2)
				So(docs[0].Key, ShouldEqual, "r1")
				So(docs[1].Key, ShouldEqual, "r2")
			})
		})

		Convey("When deleting an absent path", func() {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "tok-1"))

			Convey("Then delete still succeeds", func() {
				So(s.Delete(ctx, "gyms/gone"), ShouldBeNil)
			})
		})

		Convey("When the auth token needs escaping", func() {
			var seenToken string
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenToken = r.URL.Query().Get("auth")
				w.Write([]byte(`{"ok":true}`))
			}))
			defer backend.Close()
			s := store.NewREST(backend.URL, auth.NewStatic("user-1", "a b&c"))

			_, err := s.Get(ctx, "gyms/g1")

			Convey("Then the token survives the round trip", func() {
				So(err, ShouldBeNil)
				So(seenToken, ShouldEqual, "a b&c")
				So(strings.Contains(seenToken, "%"), ShouldBeFalse)
			})
		})
	})
}
