package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringstats-backend/models"
	"ringstats-backend/wrestlers"
)

var collection = []models.Wrestler{
	{ID: "1", Name: "Cody Rhodes", Promotion: "WWE", Age: 39, AverageRating: 8.9,
		RecentMatches: []models.Match{{Opponent: "Roman Reigns", Result: "Win"}}},
	{ID: "7", Name: "Kenny Omega", Nickname: "The Cleaner", Promotion: "AEW", Age: 41, AverageRating: 9.4},
	{ID: "9", Name: "Kazuchika Okada", Nickname: "The Rainmaker", Promotion: "AEW", Age: 37, AverageRating: 9.3},
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	find := func(id string) (models.Wrestler, bool) {
		for _, w := range collection {
			if w.ID == id {
				return w, true
			}
		}
		return models.Wrestler{}, false
	}

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, map[string]string{"message": "RingStats API is running successfully!", "environment": "test"})
	})
	mux.HandleFunc("GET /api/wrestlers", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, map[string]any{"wrestlers": collection, "total": len(collection)})
	})
	mux.HandleFunc("GET /api/wrestlers/{id}", func(w http.ResponseWriter, r *http.Request) {
		wr, ok := find(r.PathValue("id"))
		if !ok {
			reply(w, 404, map[string]string{"error": "Wrestler not found"})
			return
		}
		reply(w, 200, wr)
	})
	mux.HandleFunc("GET /api/wrestlers/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
		wr, _ := find(r.PathValue("id"))
		reply(w, 200, wrestlers.StatsFor(wr))
	})
	mux.HandleFunc("GET /api/articles", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, []models.Article{{ID: 1, Title: "Main event confirmed", SourceName: "PWI", CredibilityLabel: models.LabelConfirmed}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, srv *httptest.Server, home string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--api", srv.URL + "/api", "--home", home}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestHealth(t *testing.T) {
	out, err := run(t, fakeAPI(t), t.TempDir(), "health")
	require.NoError(t, err)
	assert.Contains(t, out, "running successfully")
}

func TestWrestlerProfile(t *testing.T) {
	out, err := run(t, fakeAPI(t), t.TempDir(), "wrestler", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cody Rhodes")
	assert.Contains(t, out, "Roman Reigns")
}

func TestWrestlerNotFound(t *testing.T) {
	_, err := run(t, fakeAPI(t), t.TempDir(), "wrestler", "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFilterLocal(t *testing.T) {
	out, err := run(t, fakeAPI(t), t.TempDir(), "--json", "filter", "--promotion", "AEW", "--min-rating", "9.35")
	require.NoError(t, err)

	var ws []models.Wrestler
	require.NoError(t, json.Unmarshal([]byte(out), &ws))
	require.Len(t, ws, 1)
	assert.Equal(t, "7", ws[0].ID)
}

func TestDashboardLocal(t *testing.T) {
	out, err := run(t, fakeAPI(t), t.TempDir(), "--json", "dashboard")
	require.NoError(t, err)

	var got struct {
		Dashboard *wrestlers.Dashboard `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Dashboard)
	assert.Equal(t, 3, got.Dashboard.TotalWrestlers)
	assert.Equal(t, "7", got.Dashboard.TopRatedWrestler.ID)
}

func TestFavoritesLifecycle(t *testing.T) {
	srv := fakeAPI(t)
	home := t.TempDir()

	out, err := run(t, srv, home, "favorites", "add", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Kazuchika Okada")

	_, err = run(t, srv, home, "favorites", "add", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already a favorite")

	data, err := os.ReadFile(filepath.Join(home, "favorites.json"))
	require.NoError(t, err)
	var saved []models.Wrestler
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 1)

	_, err = run(t, srv, home, "favorites", "remove", "9")
	require.NoError(t, err)

	out, err = run(t, srv, home, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No wrestlers found.")
}

func TestNews(t *testing.T) {
	out, err := run(t, fakeAPI(t), t.TempDir(), "news", "--tag", "Confirmed")
	require.NoError(t, err)
	assert.Contains(t, out, "Main event confirmed")
}
