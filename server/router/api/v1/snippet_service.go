package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/knipselapp/knipsel/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Snippet struct {
	UID       string `json:"uid"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
	Content   string `json:"content"`
}

type CreateSnippetRequest struct {
	Content string `json:"content"`
}

type UpdateSnippetRequest struct {
	Content string `json:"content"`
}

type ListSnippetsResponse struct {
	Snippets []*Snippet `json:"snippets"`
}

func (s *APIV1Service) CreateSnippet(c echo.Context) error {
	ctx := c.Request().Context()
	request := &CreateSnippetRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if strings.TrimSpace(request.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	created, err := s.SnippetService.Create(ctx, request.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create snippet").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertSnippet(created))
}

func (s *APIV1Service) ListSnippets(c echo.Context) error {
	ctx := c.Request().Context()
	limit := defaultPageSize
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = min(parsed, maxPageSize)
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
		offset = parsed
	}

	snippets, err := s.SnippetService.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list snippets").SetInternal(err)
	}
	response := &ListSnippetsResponse{Snippets: []*Snippet{}}
	for _, snippet := range snippets {
		response.Snippets = append(response.Snippets, convertSnippet(snippet))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) GetSnippet(c echo.Context) error {
	ctx := c.Request().Context()
	snippet, err := s.SnippetService.Get(ctx, c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get snippet").SetInternal(err)
	}
	if snippet == nil {
		return echo.NewHTTPError(http.StatusNotFound, "snippet not found")
	}
	return c.JSON(http.StatusOK, convertSnippet(snippet))
}

func (s *APIV1Service) UpdateSnippet(c echo.Context) error {
	ctx := c.Request().Context()
	request := &UpdateSnippetRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if strings.TrimSpace(request.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	uid := c.Param("uid")
	existing, err := s.SnippetService.Get(ctx, uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get snippet").SetInternal(err)
	}
	if existing == nil {
		return echo.NewHTTPError(http.StatusNotFound, "snippet not found")
	}

	updated, err := s.SnippetService.Update(ctx, uid, request.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update snippet").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertSnippet(updated))
}

func (s *APIV1Service) DeleteSnippet(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")
	existing, err := s.SnippetService.Get(ctx, uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get snippet").SetInternal(err)
	}
	if existing == nil {
		return echo.NewHTTPError(http.StatusNotFound, "snippet not found")
	}
	if err := s.SnippetService.Delete(ctx, uid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete snippet").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func convertSnippet(snippet *store.Snippet) *Snippet {
	return &Snippet{
		UID:       snippet.UID,
		CreatedTs: snippet.CreatedTs,
		UpdatedTs: snippet.UpdatedTs,
		Content:   snippet.Content,
	}
}
