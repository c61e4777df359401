// Package v1 exposes the JSON REST API under /api/v1.
package v1

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/knipselapp/knipsel/internal/profile"
	"github.com/knipselapp/knipsel/server/middleware"
	"github.com/knipselapp/knipsel/server/service/snippet"
	"github.com/knipselapp/knipsel/store"
)

type APIV1Service struct {
	Profile        *profile.Profile
	Store          *store.Store
	SnippetService *snippet.Service

	suggestionLimiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, snippetService *snippet.Service) *APIV1Service {
	return &APIV1Service{
		Profile:        profile,
		Store:          store,
		SnippetService: snippetService,
		// Suggestions fire on every keystroke pause in the editor, so they
		// get a per-client budget instead of the global one.
		suggestionLimiter: middleware.NewRateLimiter(rate.Limit(10), 20),
	}
}

func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/snippets", s.CreateSnippet)
	g.GET("/snippets", s.ListSnippets)
	g.GET("/snippets/:uid", s.GetSnippet)
	g.PATCH("/snippets/:uid", s.UpdateSnippet)
	g.DELETE("/snippets/:uid", s.DeleteSnippet)

	g.POST("/suggestions", s.GetSuggestions, s.suggestionLimiter.Middleware())

	g.GET("/tags", s.ListTags)
}

// Close releases background resources held by the API layer.
func (s *APIV1Service) Close() {
	s.suggestionLimiter.Stop()
}
