package store_test

import (
	"context"
	"encoding/json"
	"testing"

	store "github.com/betalog/betalog/internal/adapters/store"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		m := store.NewMemory()
		ctx := context.Background()

		Convey("When getting a missing path", func() {
			_, err := m.Get(ctx, "routes/Verticale/r1")

			Convey("Then it should report not found", func() {
				So(err, ShouldNotBeNil)
				So(store.IsNotFound(err), ShouldBeTrue)
			})
		})

		Convey("When putting and getting a document", func() {
			doc := map[string]any{"name": "Crimpy", "difficulty": 5}
			err := m.Put(ctx, "routes/Verticale/r1", doc)
			So(err, ShouldBeNil)

			raw, err := m.Get(ctx, "routes/Verticale/r1")

			Convey("Then the stored document should round-trip", func() {
				So(err, ShouldBeNil)
				var got map[string]any
				So(json.Unmarshal(raw, &got), ShouldBeNil)
				So(got["name"], ShouldEqual, "Crimpy")
			})
		})

		Convey("When posting documents", func() {
			key1, err1 := m.Post(ctx, "trainingSessions/user-1", map[string]any{"n": 1})
			key2, err2 := m.Post(ctx, "trainingSessions/user-1", map[string]any{"n": 2})

			Convey("Then each post should yield a distinct generated key", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(key1, ShouldNotBeEmpty)
				So(key2, ShouldNotBeEmpty)
				So(key1, ShouldNotEqual, key2)
			})

			Convey("And the documents should be listed under the path", func() {
				docs, err := m.GetAll(ctx, "trainingSessions/user-1")
				So(err, ShouldBeNil)
				So(len(docs), ShouldEqual, 2)
			})
		})

		Convey("When listing child keys", func() {
			So(m.Put(ctx, "routes/Verticale/r1", map[string]any{"d": 1}), ShouldBeNil)
			So(m.Put(ctx, "routes/Strapiombo/r2", map[string]any{"d": 2}), ShouldBeNil)
			So(m.Put(ctx, "routes/Diedro/r3", map[string]any{"d": 3}), ShouldBeNil)

			keys, err := m.ListChildKeys(ctx, "routes")

			Convey("Then the panel names should come back sorted", func() {
				So(err, ShouldBeNil)
				So(keys, ShouldResemble, []string{"Diedro", "Strapiombo", "Verticale"})
			})
		})

		Convey("When listing a missing path", func() {
			keys, err := m.ListChildKeys(ctx, "nothing/here")

			Convey("Then it should be empty, not an error", func() {
				So(err, ShouldBeNil)
				So(keys, ShouldBeEmpty)
			})
		})

		Convey("When deleting", func() {
			So(m.Put(ctx, "gyms/g1", map[string]any{"name": "Boulder Hall"}), ShouldBeNil)

			Convey("And the path exists", func() {
				So(m.Delete(ctx, "gyms/g1"), ShouldBeNil)
				_, err := m.Get(ctx, "gyms/g1")
				So(store.IsNotFound(err), ShouldBeTrue)
			})

			Convey("And the path is already absent", func() {
				So(m.Delete(ctx, "gyms/never-existed"), ShouldBeNil)
			})
		})

		Convey("When getting a branch path", func() {
			So(m.Put(ctx, "users/u1/profile", map[string]any{"name": "Anna"}), ShouldBeNil)

			raw, err := m.Get(ctx, "users/u1")

			Convey("Then the whole subtree should be returned", func() {
				So(err, ShouldBeNil)
				var got map[string]json.RawMessage
				So(json.Unmarshal(raw, &got), ShouldBeNil)
				So(got, ShouldContainKey, "profile")
			})
		})
	})
}
