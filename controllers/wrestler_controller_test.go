package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringstats-backend/middleware"
	"ringstats-backend/models"
	"ringstats-backend/wrestlers"
)

type listResponse struct {
	Wrestlers []models.Wrestler `json:"wrestlers"`
	Total     int               `json:"total"`
}

func wrestlerApp(t *testing.T, repo wrestlers.Repository) *fiber.App {
	t.Helper()
	app := newApp()
	wc := NewWrestlerController(repo)
	wc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	hc := NewHealthController("test")
	sc := NewStatsController(repo, time.Minute)
	api := app.Group("/api")
	api.Get("/health", hc.GetHealth)
	api.Get("/stats", sc.GetDashboard)
	api.Get("/wrestlers", wc.GetWrestlers)
	api.Get("/wrestlers/filter", wc.FilterWrestlers)
	api.Get("/wrestlers/filter/options", wc.GetFilterOptions)
	api.Get("/wrestlers/daily", wc.GetDailyWrestler)
	api.Get("/wrestlers/:id/stats", wc.GetWrestlerStats)
	api.Get("/wrestlers/:id", wc.GetWrestler)
	app.Use(middleware.NotFound)
	return app
}

func TestGetWrestlers(t *testing.T) {
	app := wrestlerApp(t, newWrestlerRepo(t))

	status, body := do(t, app, http.MethodGet, "/api/wrestlers", nil, "")
	require.Equal(t, http.StatusOK, status)
	all := decodeJSON[listResponse](t, body)
	assert.Equal(t, 3, all.Total)
	assert.Len(t, all.Wrestlers, 3)

	status, body = do(t, app, http.MethodGet, "/api/wrestlers?search=OMEGA", nil, "")
	require.Equal(t, http.StatusOK, status)
	found := decodeJSON[listResponse](t, body)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "3", found.Wrestlers[0].ID)
}

func TestGetWrestler(t *testing.T) {
	app := wrestlerApp(t, newWrestlerRepo(t))

	status, body := do(t, app, http.MethodGet, "/api/wrestlers/1", nil, "")
	require.Equal(t, http.StatusOK, status)
	w := decodeJSON[models.Wrestler](t, body)
	assert.Equal(t, "Cody Rhodes", w.Name)
	assert.Equal(t, 1, w.CareerStats.Wins)
	assert.Equal(t, 0, w.CareerStats.Draws)
	assert.Equal(t, 40, w.MomentumScore)

	status, body = do(t, app, http.MethodGet, "/api/wrestlers/unknown-id", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Wrestler not found"}`, string(body))
}

func TestFilterOptionsAndDaily(t *testing.T) {
	app := wrestlerApp(t, newWrestlerRepo(t))

	status, body := do(t, app, http.MethodGet, "/api/wrestlers/filter?promotion=WWE&minAge=37", nil, "")
	require.Equal(t, http.StatusOK, status)
	filtered := decodeJSON[listResponse](t, body)
	require.Equal(t, 1, filtered.Total)
	assert.Equal(t, "1", filtered.Wrestlers[0].ID)

	status, body = do(t, app, http.MethodGet, "/api/wrestlers/filter/options", nil, "")
	require.Equal(t, http.StatusOK, status)
	opts := decodeJSON[wrestlers.FilterOptions](t, body)
	assert.Equal(t, []string{"AEW", "WWE"}, opts.Promotions)

	status, _ = do(t, app, http.MethodGet, "/api/wrestlers/daily", nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestGetWrestlerStats(t *testing.T) {
	app := wrestlerApp(t, newWrestlerRepo(t))

	status, body := do(t, app, http.MethodGet, "/api/wrestlers/1/stats", nil, "")
	require.Equal(t, http.StatusOK, status)
	stats := decodeJSON[wrestlers.WrestlerStats](t, body)
	assert.Equal(t, 1, stats.UnclassifiedMatches)
	require.Len(t, stats.YearlyRatings, 2)
	assert.Equal(t, "2024", stats.YearlyRatings[0].Year)

	status, _ = do(t, app, http.MethodGet, "/api/wrestlers/nope/stats", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

// failingRepo fails every call.
type failingRepo struct{ err error }

func (f failingRepo) List(context.Context, string) ([]models.Wrestler, error) { return nil, f.err }
func (f failingRepo) Get(context.Context, string) (models.Wrestler, error) {
	return models.Wrestler{}, f.err
}
func (f failingRepo) Daily(context.Context, time.Time) (models.Wrestler, error) {
	return models.Wrestler{}, f.err
}

func TestDatastoreErrorsReturnRawMessage(t *testing.T) {
	app := wrestlerApp(t, failingRepo{err: errors.New("connection refused")})

	status, body := do(t, app, http.MethodGet, "/api/wrestlers", nil, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"connection refused"}`, string(body))

	status, _ = do(t, app, http.MethodGet, "/api/stats", nil, "")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestDailyNotScheduled(t *testing.T) {
	app := wrestlerApp(t, failingRepo{err: wrestlers.ErrNotFound})
	status, _ := do(t, app, http.MethodGet, "/api/wrestlers/daily", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	app := wrestlerApp(t, newWrestlerRepo(t))

	status, body := do(t, app, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, status)
	health := decodeJSON[map[string]string](t, body)
	assert.Equal(t, "RingStats API is running successfully!", health["message"])
	assert.Equal(t, "test", health["environment"])
	_, err := time.Parse(time.RFC3339Nano, health["timestamp"])
	assert.NoError(t, err)

	status, body = do(t, app, http.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Route not found"}`, string(body))
}

func TestEscapedWrestlerIDIsDecoded(t *testing.T) {
	app := wrestlerApp(t, newWrestlerRepo(t))

	status, body := do(t, app, http.MethodGet, "/api/wrestlers/%31", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1", decodeJSON[models.Wrestler](t, body).ID)

	status, body = do(t, app, http.MethodGet, "/api/wrestlers/%31/stats", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1", decodeJSON[wrestlers.WrestlerStats](t, body).ID)
}
