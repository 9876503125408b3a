// Package apiclient is a typed client for the RingStats HTTP API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ringstats-backend/models"
	"ringstats-backend/wrestlers"
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL, e.g.
// http://localhost:5000/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	c := &Client{baseURL: u, http: &http.Client{Timeout: 20 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type Health struct {
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

type wrestlerList struct {
	Wrestlers []models.Wrestler `json:"wrestlers"`
	Total     int               `json:"total"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.get(ctx, "/health", nil, &h)
	return h, err
}

// Wrestlers lists the collection, optionally narrowed by a name substring.
func (c *Client) Wrestlers(ctx context.Context, search string) ([]models.Wrestler, error) {
	q := url.Values{}
	if search = strings.TrimSpace(search); search != "" {
		q.Set("search", search)
	}
	var out wrestlerList
	if err := c.get(ctx, "/wrestlers", q, &out); err != nil {
		return nil, err
	}
	return out.Wrestlers, nil
}

func (c *Client) Wrestler(ctx context.Context, id string) (models.Wrestler, error) {
	var w models.Wrestler
	err := c.get(ctx, "/wrestlers/"+url.PathEscape(id), nil, &w)
	return w, err
}

func (c *Client) WrestlerStats(ctx context.Context, id string) (wrestlers.WrestlerStats, error) {
	var s wrestlers.WrestlerStats
	err := c.get(ctx, "/wrestlers/"+url.PathEscape(id)+"/stats", nil, &s)
	return s, err
}

func (c *Client) FilterOptions(ctx context.Context) (wrestlers.FilterOptions, error) {
	var o wrestlers.FilterOptions
	err := c.get(ctx, "/wrestlers/filter/options", nil, &o)
	return o, err
}

// Filter runs the advanced filter on the server.
func (c *Client) Filter(ctx context.Context, f wrestlers.Filter) ([]models.Wrestler, error) {
	var out wrestlerList
	if err := c.get(ctx, "/wrestlers/filter", f.Values(), &out); err != nil {
		return nil, err
	}
	return out.Wrestlers, nil
}

func (c *Client) Daily(ctx context.Context) (models.Wrestler, error) {
	var w models.Wrestler
	err := c.get(ctx, "/wrestlers/daily", nil, &w)
	return w, err
}

// Dashboard fetches the server-computed dashboard. A nil result means the
// collection is empty.
func (c *Client) Dashboard(ctx context.Context) (*wrestlers.Dashboard, error) {
	var out struct {
		Dashboard *wrestlers.Dashboard `json:"dashboard"`
	}
	if err := c.get(ctx, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return out.Dashboard, nil
}

type ArticleQuery struct {
	Tag      string
	SourceID int64
	Q        string
	Sort     string
	Limit    int
}

func (q ArticleQuery) values() url.Values {
	v := url.Values{}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.SourceID > 0 {
		v.Set("source_id", strconv.FormatInt(q.SourceID, 10))
	}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) Articles(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	var out []models.Article
	if err := c.get(ctx, "/articles", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// get requests path below the base url. path is in escaped form.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	// A response that lands after cancellation is dropped.
	if err := ctx.Err(); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &payload)
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
