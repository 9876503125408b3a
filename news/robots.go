package news

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/temoto/robotstxt"

	"ringstats-backend/logger"
)

const (
	robotsAgent   = "RingStatsBot"
	robotsTimeout = 6 * time.Second
	robotsTTL     = time.Hour
)

// robotsCache remembers each host's robots.txt for an hour. A host whose
// robots.txt cannot be fetched is treated as allowing everything.
type robotsCache struct {
	client *http.Client
	ua     string
	cache  *expirable.LRU[string, *robotstxt.RobotsData]
}

func newRobotsCache(client *http.Client, ua string) *robotsCache {
	return &robotsCache{
		client: client,
		ua:     ua,
		cache:  expirable.NewLRU[string, *robotstxt.RobotsData](256, nil, robotsTTL),
	}
}

func (r *robotsCache) allowed(ctx context.Context, u *url.URL) bool {
	key := u.Scheme + "://" + u.Host
	data, ok := r.cache.Get(key)
	if !ok {
		data = r.fetch(ctx, key)
		r.cache.Add(key, data)
	}
	if data == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, robotsAgent)
}

func (r *robotsCache) fetch(ctx context.Context, origin string) *robotstxt.RobotsData {
	ctx, cancel := context.WithTimeout(ctx, robotsTimeout)
	defer cancel()

	log := logger.Log.WithField("origin", origin)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.ua)
	resp, err := r.client.Do(req)
	if err != nil {
		log.Debugf("robots.txt unavailable: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		log.Debugf("robots.txt unparseable: %v", err)
		return nil
	}
	return data
}
