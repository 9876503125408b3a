package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringstats-backend/mail"
	"ringstats-backend/middleware"
	"ringstats-backend/models"
	"ringstats-backend/news"
	"ringstats-backend/users"
)

func adminApp(t *testing.T, repo *memoryNews) *fiber.App {
	t.Helper()
	ac := NewAdminController(repo, news.NewIngester(repo, news.NewFetcher(news.FetcherOptions{}), nil))
	app := newApp()
	admin := app.Group("/api/admin", middleware.RequireAuth(testSecret), middleware.RequireAdmin)
	admin.Get("/sources", ac.ListSources)
	admin.Post("/sources", ac.CreateSource)
	admin.Post("/ingest", ac.RunIngest)
	return app
}

func TestAdminRequiresAdmin(t *testing.T) {
	app := adminApp(t, newMemoryNews())

	status, _ := do(t, app, http.MethodGet, "/api/admin/sources", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, app, http.MethodGet, "/api/admin/sources", nil, tokenFor(t, 1, false))
	assert.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{"error":"Admin access required"}`, string(body))
}

func TestAdminSources(t *testing.T) {
	repo := newMemoryNews()
	app := adminApp(t, repo)
	token := tokenFor(t, 1, true)

	status, body := do(t, app, http.MethodPost, "/api/admin/sources", map[string]any{
		"name": "Ring Feed", "rssUrl": "https://ring.example/feed",
	}, token)
	require.Equal(t, http.StatusCreated, status)
	src := decodeJSON[models.Source](t, body)
	assert.Equal(t, 0.5, src.SourceScore)
	assert.True(t, src.IsActive)

	status, _ = do(t, app, http.MethodPost, "/api/admin/sources", map[string]any{
		"name": "Ring Feed", "rssUrl": "https://ring.example/feed",
	}, token)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, app, http.MethodPost, "/api/admin/sources", map[string]any{"name": "No urls"}, token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/api/admin/sources", map[string]any{
		"name": "Bad score", "baseUrl": "https://x.example", "sourceScore": 1.5,
	}, token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, app, http.MethodGet, "/api/admin/sources", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeJSON[[]models.Source](t, body), 1)
}

func TestAdminIngestWithNoSources(t *testing.T) {
	app := adminApp(t, newMemoryNews())

	status, body := do(t, app, http.MethodPost, "/api/admin/ingest", nil, tokenFor(t, 1, true))
	require.Equal(t, http.StatusOK, status)
	res := decodeJSON[news.Result](t, body)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 0, res.Sources)
}

func tipsApp(t *testing.T, mailer mail.Mailer) (*fiber.App, *users.MemoryRepository) {
	t.Helper()
	repo := users.NewMemoryRepository()
	tc := NewTipsController(repo, mailer)
	app := newApp()
	app.Post("/api/news/tips", middleware.RequireAuth(testSecret), tc.SubmitTip)
	return app, repo
}

func TestSubmitTip(t *testing.T) {
	mailer := &recordingMailer{}
	app, repo := tipsApp(t, mailer)
	u, err := repo.Create(context.Background(), "fan@example.com", "hash", "")
	require.NoError(t, err)
	token := tokenFor(t, u.ID, false)

	tip := map[string]string{
		"name":     "Fan",
		"headline": "Big return at Raw",
		"link":     "https://news.example/return",
		"message":  "Heard from a reliable source backstage.",
	}
	status, _ := do(t, app, http.MethodPost, "/api/news/tips", tip, token)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, mailer.tips, 1)
	assert.Equal(t, "fan@example.com", mailer.tips[0].FromEmail)
	assert.Equal(t, "Big return at Raw", mailer.tips[0].Headline)

	short := map[string]string{"headline": "x", "message": "too short"}
	status, body := do(t, app, http.MethodPost, "/api/news/tips", short, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Message is too short")

	status, _ = do(t, app, http.MethodPost, "/api/news/tips", tip, tokenFor(t, 99, false))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSubmitTipMailFailure(t *testing.T) {
	app, repo := tipsApp(t, &recordingMailer{err: errors.New("sendgrid down")})
	u, _ := repo.Create(context.Background(), "fan@example.com", "hash", "")

	status, body := do(t, app, http.MethodPost, "/api/news/tips", map[string]string{
		"headline": "Scoop", "message": "A long enough message body",
	}, tokenFor(t, u.ID, false))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Failed to send message"}`, string(body))
}
