package config_test

import (
	"testing"

	"github.com/betalog/betalog/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.StoreTimeoutMS, convey.ShouldEqual, 10_000)
			convey.So(cfg.CatalogTTLMinutes, convey.ShouldEqual, 10)
			convey.So(cfg.FrequencyWindowDays, convey.ShouldEqual, 30)
			convey.So(cfg.RecentSessionsLimit, convey.ShouldEqual, 5)
			convey.So(cfg.Offline, convey.ShouldBeFalse)
		})
	})
}
