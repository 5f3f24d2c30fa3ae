package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/betalog/betalog/internal/adapters/http/api"
	"github.com/betalog/betalog/internal/adapters/store"
	service "github.com/betalog/betalog/internal/app"
	"github.com/betalog/betalog/internal/auth"
	"github.com/betalog/betalog/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("BETALOG_ADDR", ":8080")
			_ = os.Setenv("BETALOG_OFFLINE", "true")
			_ = os.Setenv("BETALOG_CATALOG_TTL_MINUTES", "5")
			defer func() {
				_ = os.Unsetenv("BETALOG_ADDR")
				_ = os.Unsetenv("BETALOG_OFFLINE")
				_ = os.Unsetenv("BETALOG_CATALOG_TTL_MINUTES")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Offline, convey.ShouldBeTrue)
				convey.So(cfg.CatalogTTLMinutes, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When testing service creation", func() {
			creds := auth.NewStatic("user-1", "tok-1")

			convey.Convey("Then service should be creatable with default options", func() {
				svc := service.New(store.NewMemory(), creds)
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := service.New(store.NewMemory(), creds,
					service.WithCatalogTTL(5*time.Minute),
					service.WithFrequencyWindow(14),
					service.WithRecentSessionsLimit(3),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := service.New(store.NewMemory(), auth.NewStatic("user-1", "tok-1"))
			mux := http.NewServeMux()
			apiServer := api.NewServer(svc, svc)
			apiServer.Register(context.Background(), mux)

			srv := &http.Server{
				Addr:              ":0",
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			convey.Convey("Then the server should carry the expected timeouts", func() {
				convey.So(srv.ReadTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.IdleTimeout, convey.ShouldEqual, 60*time.Second)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, 5*time.Second)
			})
		})
	})
}
