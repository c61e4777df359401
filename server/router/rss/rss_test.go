package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/knipselapp/knipsel/internal/profile"
	"github.com/knipselapp/knipsel/store"
	"github.com/knipselapp/knipsel/store/test"
)

func TestGetExploreRSS(t *testing.T) {
	ctx := context.Background()
	ts := test.NewTestingStore(ctx, t)

	now := time.Now().Unix()
	_, err := ts.CreateSnippet(ctx, &store.Snippet{
		UID:       "abc123",
		CreatedTs: now,
		UpdatedTs: now,
		Content:   "Soep met #balletjes\nhttps://ah.nl/recept",
	})
	require.NoError(t, err)

	e := echo.New()
	NewRSSService(&profile.Profile{InstanceURL: "https://knipsel.test"}, ts).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/explore/rss.xml", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "<rss")
	require.Contains(t, body, "Soep met #balletjes")
	require.Contains(t, body, "https://knipsel.test/s/abc123")
}

func TestFeedItemTitleUsesFirstLine(t *testing.T) {
	require.Equal(t, "Eerste regel", feedItemTitle("\n\nEerste regel\ntweede regel"))
	require.Equal(t, "Untitled snippet", feedItemTitle("   \n  "))
}
