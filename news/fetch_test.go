package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherMakesOneAttempt(t *testing.T) {
	for _, status := range []int{http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusNotFound} {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
		}))

		_, err := NewFetcher(FetcherOptions{}).Get(context.Background(), srv.URL)
		srv.Close()
		assert.Error(t, err, "status %d", status)
		assert.Equal(t, int32(1), calls.Load(), "status %d", status)
	}
}

func TestFetcherSendsUserAgentAndLimitsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.UserAgent() + "-padding-padding"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{UserAgent: "agent", MaxBody: 5})
	body, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "agent", string(body))
}

func TestFetcherRespectsRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.Write([]byte("page"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{RespectRobots: true})
	_, err := f.Get(context.Background(), srv.URL+"/private/story")
	assert.True(t, errors.Is(err, ErrDisallowed))

	body, err := f.Get(context.Background(), srv.URL+"/public")
	require.NoError(t, err)
	assert.Equal(t, "page", string(body))
}

func TestFetcherRejectsInvalidURL(t *testing.T) {
	_, err := NewFetcher(FetcherOptions{}).Get(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestHostLimiterHonoursContext(t *testing.T) {
	h := newHostLimiter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.wait(ctx, "a.example"))
	cancel()
	assert.Error(t, h.wait(ctx, "a.example"))
}
