package observability

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestLoggerFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), Logger(context.Background()))
}

func TestLoggerRoundTrip(t *testing.T) {
	logger := slog.Default().With(slog.String("component", "test"))
	ctx := WithLogger(context.Background(), logger)
	require.Equal(t, logger, Logger(ctx))
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/", func(c echo.Context) error {
		require.NotEqual(t, slog.Default(), Logger(c.Request().Context()))
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestMiddlewareKeepsUpstreamRequestID(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "upstream-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, "upstream-id", rec.Header().Get(echo.HeaderXRequestID))
}
