package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ListTagsResponse struct {
	Tags []string `json:"tags"`
}

func (s *APIV1Service) ListTags(c echo.Context) error {
	ctx := c.Request().Context()
	tags, err := s.Store.ListTagNames(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list tags").SetInternal(err)
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, &ListTagsResponse{Tags: tags})
}
