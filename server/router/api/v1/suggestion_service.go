package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/knipselapp/knipsel/plugin/knowledge"
)

type GetSuggestionsRequest struct {
	// Content is a draft snippet. When set, tags and domain are parsed
	// out of it and Tags/Domain below are ignored.
	Content string `json:"content"`

	Tags   []string `json:"tags"`
	Domain string   `json:"domain"`
}

type GetSuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (s *APIV1Service) GetSuggestions(c echo.Context) error {
	ctx := c.Request().Context()
	request := &GetSuggestionsRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	var suggestions []string
	var err error
	if request.Content != "" {
		suggestions, err = s.SnippetService.Suggest(ctx, request.Content)
	} else {
		suggestions, err = s.SnippetService.SuggestForTags(ctx, request.Tags, request.Domain)
	}
	if err != nil {
		if errors.Is(err, knowledge.ErrMalformedTag) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get suggestions").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &GetSuggestionsResponse{Suggestions: suggestions})
}
