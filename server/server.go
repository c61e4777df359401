package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/knipselapp/knipsel/internal/profile"
	"github.com/knipselapp/knipsel/plugin/knowledge"
	"github.com/knipselapp/knipsel/server/internal/observability"
	apiv1 "github.com/knipselapp/knipsel/server/router/api/v1"
	"github.com/knipselapp/knipsel/server/router/rss"
	"github.com/knipselapp/knipsel/server/service/snippet"
	"github.com/knipselapp/knipsel/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer     *echo.Echo
	snippetService *snippet.Service
	apiV1Service   *apiv1.APIV1Service
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(observability.Middleware())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			observability.Logger(c.Request().Context()).Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64(observability.LogFieldDuration, v.Latency.Milliseconds()),
			)
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	snippetService := snippet.NewService(store, knowledge.NewEngine(store))

	s := &Server{
		Profile:        profile,
		Store:          store,
		echoServer:     e,
		snippetService: snippetService,
	}

	s.apiV1Service = apiv1.NewAPIV1Service(profile, store, snippetService)
	s.apiV1Service.RegisterRoutes(e)

	rss.NewRSSService(profile, store).RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "Service ready.")
	})

	return s, nil
}

func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address), slog.String("version", s.Profile.Version))
	return s.echoServer.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.Any("error", err))
	}

	// Let in-flight learning finish so no observed tag pair is lost.
	s.snippetService.DrainLearning()
	s.apiV1Service.Close()

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.Any("error", err))
	}

	slog.Info("server stopped")
}
