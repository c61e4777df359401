// Package rss serves the public snippet feed.
package rss

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/knipselapp/knipsel/internal/profile"
	"github.com/knipselapp/knipsel/store"
)

const maxFeedItems = 32

type RSSService struct {
	Profile *profile.Profile
	Store   *store.Store
}

func NewRSSService(profile *profile.Profile, store *store.Store) *RSSService {
	return &RSSService{
		Profile: profile,
		Store:   store,
	}
}

func (s *RSSService) RegisterRoutes(e *echo.Echo) {
	e.GET("/explore/rss.xml", s.GetExploreRSS)
}

func (s *RSSService) GetExploreRSS(c echo.Context) error {
	ctx := c.Request().Context()
	limit := maxFeedItems
	snippets, err := s.Store.ListSnippets(ctx, &store.FindSnippet{Limit: &limit})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list snippets").SetInternal(err)
	}

	baseURL := strings.TrimSuffix(s.Profile.InstanceURL, "/")
	feed := &feeds.Feed{
		Title:       "Knipsels",
		Link:        &feeds.Link{Href: baseURL + "/explore"},
		Description: "Recent snippets",
		Created:     time.Now(),
	}
	for _, snippet := range snippets {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       feedItemTitle(snippet.Content),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/s/%s", baseURL, snippet.UID)},
			Description: snippet.Content,
			Created:     time.Unix(snippet.CreatedTs, 0),
			Updated:     time.Unix(snippet.UpdatedTs, 0),
			Id:          snippet.UID,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed").SetInternal(err)
	}
	return c.Blob(http.StatusOK, "application/rss+xml", []byte(rss))
}

// feedItemTitle uses the first non-empty line, clipped to a sane length.
func feedItemTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 100 {
			return line[:100] + "..."
		}
		return line
	}
	return "Untitled snippet"
}
