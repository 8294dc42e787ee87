package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/palmithor/scorebrawl/internal/db/dbtest"
	"github.com/palmithor/scorebrawl/internal/events"
	"github.com/palmithor/scorebrawl/internal/metrics"
	"github.com/palmithor/scorebrawl/internal/middleware"
	"github.com/palmithor/scorebrawl/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPublisher struct{}

func (nopPublisher) PublishMatchCreated(ctx context.Context, event events.MatchCreated) error {
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mock := clock.NewMock()
	mock.Set(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	a := newApp(dbtest.New(t), store.New(), mock, nopPublisher{}, metrics.New(prometheus.NewRegistry()), slog.Default())
	server := httptest.NewServer(a.routes(scs.New(), middleware.NewRateLimiter(1000, 1000, mock)))
	t.Cleanup(server.Close)
	return server
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, server *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: server.URL, http: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes the response into out when it is non-nil.
func (c *client) do(method, path string, body, out any) int {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *client) guest(name string) uuid.UUID {
	c.t.Helper()
	var user struct {
		ID uuid.UUID `json:"id"`
	}
	require.Equal(c.t, http.StatusCreated, c.do(http.MethodPost, "/auth/guest", map[string]string{"name": name}, &user))
	return user.ID
}

func TestRoutes_MatchFlow(t *testing.T) {
	server := newTestServer(t)
	owner := newClient(t, server)
	rival := newClient(t, server)

	assert.Equal(t, http.StatusUnauthorized, owner.do(http.MethodGet, "/notifications", nil, nil))

	ownerID := owner.guest("Ann")
	rivalID := rival.guest("Bob")

	var l struct {
		ID   uuid.UUID `json:"id"`
		Code string    `json:"code"`
	}
	require.Equal(t, http.StatusCreated, owner.do(http.MethodPost, "/leagues", map[string]string{"name": "Office Foosball", "visibility": "private"}, &l))

	// private leagues are hidden from non-members
	assert.Equal(t, http.StatusNotFound, rival.do(http.MethodGet, "/leagues/"+l.ID.String(), nil, nil))
	require.Equal(t, http.StatusOK, rival.do(http.MethodPost, "/leagues/join", map[string]string{"code": l.Code}, nil))

	var season struct {
		ID uuid.UUID `json:"id"`
	}
	require.Equal(t, http.StatusCreated, owner.do(http.MethodPost, "/leagues/"+l.ID.String()+"/seasons", map[string]any{
		"name":      "Spring",
		"scoreType": "elo",
		"startDate": "2026-01-01T00:00:00Z",
	}, &season))
	seasonPath := "/seasons/" + season.ID.String()

	var players []struct {
		ID     uuid.UUID `json:"id"`
		UserID uuid.UUID `json:"userId"`
	}
	require.Equal(t, http.StatusOK, owner.do(http.MethodGet, seasonPath+"/players", nil, &players))
	require.Len(t, players, 2)
	byUser := map[uuid.UUID]uuid.UUID{}
	for _, p := range players {
		byUser[p.UserID] = p.ID
	}

	var match struct {
		ID uuid.UUID `json:"id"`
	}
	require.Equal(t, http.StatusCreated, rival.do(http.MethodPost, seasonPath+"/matches", map[string]any{
		"homeTeamSeasonPlayerIds": []uuid.UUID{byUser[ownerID]},
		"awayTeamSeasonPlayerIds": []uuid.UUID{byUser[rivalID]},
		"homeScore":               3,
		"awayScore":               1,
	}, &match))

	var rows []struct {
		ID    uuid.UUID `json:"id"`
		Score int       `json:"score"`
	}
	require.Equal(t, http.StatusOK, owner.do(http.MethodGet, seasonPath+"/standing", nil, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, byUser[ownerID], rows[0].ID)
	assert.Equal(t, 1216, rows[0].Score)
	assert.Equal(t, 1184, rows[1].Score)

	var diff struct {
		PointDiff int `json:"pointDiff"`
	}
	require.Equal(t, http.StatusOK, owner.do(http.MethodGet, "/season-players/"+byUser[ownerID].String()+"/point-diff", nil, &diff))
	assert.Equal(t, 16, diff.PointDiff)
	assert.Equal(t, http.StatusBadRequest, owner.do(http.MethodGet, "/season-players/"+byUser[ownerID].String()+"/point-diff?from=yesterday", nil, nil))

	require.Equal(t, http.StatusNoContent, owner.do(http.MethodDelete, "/matches/"+match.ID.String(), nil, nil))
	require.Equal(t, http.StatusOK, owner.do(http.MethodGet, seasonPath+"/standing", nil, &rows))
	for _, row := range rows {
		assert.Equal(t, 1200, row.Score)
	}
}

func TestRoutes_Errors(t *testing.T) {
	server := newTestServer(t)
	c := newClient(t, server)
	c.guest("")

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/seasons/not-a-uuid/standing", nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/seasons/"+uuid.NewString()+"/standing", nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/matches/"+uuid.NewString(), nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/leagues", map[string]string{"unknown": "field"}, nil))

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "scorebrawl_matches_reverted_total"))
}
