package seed

import (
	"testing"

	"github.com/betalog/betalog/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGeneratePanels(t *testing.T) {
	Convey("Given the panel generator", t, func() {
		Convey("When asking for fewer panels than known names", func() {
			panels := generatePanels(3)

			Convey("Then the first names are used as-is", func() {
				So(panels, ShouldResemble, []string{"Verticale", "Strapiombo", "Placca"})
			})
		})

		Convey("When asking for more panels than known names", func() {
			panels := generatePanels(len(panelNames) + 2)

			Convey("Then overflow names get a numeric suffix", func() {
				So(len(panels), ShouldEqual, len(panelNames)+2)
				So(panels[len(panelNames)], ShouldEqual, panelNames[0]+" 2")
				So(panels[len(panelNames)+1], ShouldEqual, panelNames[1]+" 2")
			})
		})
	})
}

func TestGenerateRoute(t *testing.T) {
	Convey("Given the route generator", t, func() {
		Convey("When generating many routes", func() {
			for i := 0; i < 100; i++ {
				route := generateRoute("Verticale", i)

				So(route.ID, ShouldNotBeEmpty)
				So(route.Name, ShouldNotBeEmpty)
				So(route.PanelType, ShouldEqual, "Verticale")
				So(route.Difficulty, ShouldBeBetweenOrEqual, 1, 9)
				So(route.ColorHex, ShouldStartWith, "#")
				So(route.IsActive, ShouldBeTrue)
			}
		})
	})
}

func TestGenerateSession(t *testing.T) {
	Convey("Given the session generator", t, func() {
		panelRoutes := []model.ClimbingRoute{
			{ID: "r1", PanelType: "Verticale", Difficulty: 2},
			{ID: "r2", PanelType: "Verticale", Difficulty: 5},
			{ID: "r3", PanelType: "Verticale", Difficulty: 7},
		}

		Convey("When generating many sessions", func() {
			for i := 0; i < 50; i++ {
				session := generateSession("user-1", "Verticale", panelRoutes, 30)

				So(session.UserID, ShouldEqual, "user-1")
				So(session.PanelType, ShouldEqual, "Verticale")
				So(len(session.CompletedRoutes), ShouldBeBetweenOrEqual, 1, len(panelRoutes))
				So(session.Duration.Minutes(), ShouldBeBetweenOrEqual, 30, 120)
				for _, cr := range session.CompletedRoutes {
					So(cr.Attempts, ShouldBeBetweenOrEqual, 1, 5)
					So(cr.RouteID, ShouldNotBeEmpty)
				}
			}
		})
	})
}
