package news

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"ringstats-backend/logger"
)

// ThumbnailFinder discovers an article's lead image from its page, caching
// results (including misses) for a day.
type ThumbnailFinder struct {
	fetcher *Fetcher
	cache   *expirable.LRU[string, string]
}

func NewThumbnailFinder(f *Fetcher, size int) *ThumbnailFinder {
	return &ThumbnailFinder{
		fetcher: f,
		cache:   expirable.NewLRU[string, string](size, nil, 24*time.Hour),
	}
}

// Find returns the og:image of pageURL, falling back to the first image
// matched by imageSelector. It returns "" when nothing is found.
func (t *ThumbnailFinder) Find(ctx context.Context, pageURL, imageSelector string) string {
	if thumb, ok := t.cache.Get(pageURL); ok {
		return thumb
	}
	body, err := t.fetcher.Get(ctx, pageURL)
	if err != nil {
		logger.Log.WithField("url", pageURL).Debugf("Thumbnail lookup failed: %v", err)
		if ctx.Err() == nil {
			t.cache.Add(pageURL, "")
		}
		return ""
	}
	thumb := ExtractThumbnail(body, pageURL, imageSelector)
	t.cache.Add(pageURL, thumb)
	return thumb
}

func ExtractThumbnail(body []byte, pageURL, imageSelector string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	for _, sel := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			return resolve(base, content)
		}
	}
	if imageSelector == "" {
		imageSelector = "img"
	}
	if src, ok := doc.Find(imageSelector).First().Attr("src"); ok && strings.TrimSpace(src) != "" {
		return resolve(base, src)
	}
	return ""
}
