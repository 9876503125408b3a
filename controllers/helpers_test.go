package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"ringstats-backend/mail"
	"ringstats-backend/middleware"
	"ringstats-backend/wrestlers"
)

const testSecret = "test-secret"

const testDatabase = `{"wrestlers": [
	{"id": "1", "name": "Cody Rhodes", "promotion": "WWE", "age": 39, "average_rating": 8.9,
	 "recent_matches": [{"opponent": "Roman Reigns", "result": "Win"}, {"opponent": "Gunther", "result": "Draw"}],
	 "yearly_ratings": {"2023": {"rating": 8.5, "votes": 10}, "2024": {"rating": 8.9, "votes": 12}}},
	{"id": "2", "name": "Bianca Belair", "promotion": "WWE", "age": 36, "average_rating": 7.8},
	{"id": "3", "name": "Kenny Omega", "promotion": "AEW", "age": 41, "average_rating": 9.4}
]}`

func newWrestlerRepo(t *testing.T) *wrestlers.FileRepository {
	t.Helper()
	repo, err := wrestlers.NewFileRepository([]byte(testDatabase))
	require.NoError(t, err)
	return repo
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, body any, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeJSON[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func tokenFor(t *testing.T, userID int, admin bool) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, userID, admin)
	require.NoError(t, err)
	return tok
}

// recordingMailer keeps every message instead of sending it.
type recordingMailer struct {
	mu            sync.Mutex
	verifications []string
	tips          []mail.Tip
	err           error
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, to, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, url)
	return m.err
}

func (m *recordingMailer) SendNewsTip(_ context.Context, tip mail.Tip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tips = append(m.tips, tip)
	return m.err
}

var _ mail.Mailer = (*recordingMailer)(nil)

