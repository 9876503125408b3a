package news

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Item is one candidate article found by a feed or a site scrape.
type Item struct {
	Title          string
	CanonicalURL   string
	ContentSnippet string
	ThumbnailURL   string
	PublishedAt    *time.Time
}

// FetchFeed downloads and parses an RSS, Atom or JSON feed.
func FetchFeed(ctx context.Context, f *Fetcher, feedURL string) ([]Item, error) {
	body, err := f.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return ParseFeed(body)
}

func ParseFeed(body []byte) ([]Item, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		summary := it.Description
		if summary == "" {
			summary = it.Content
		}
		item := Item{
			Title:          strings.TrimSpace(it.Title),
			CanonicalURL:   strings.TrimSpace(it.Link),
			ContentSnippet: Snippet(summary),
			ThumbnailURL:   feedThumbnail(it),
		}
		switch {
		case it.PublishedParsed != nil:
			t := it.PublishedParsed.UTC()
			item.PublishedAt = &t
		case it.UpdatedParsed != nil:
			t := it.UpdatedParsed.UTC()
			item.PublishedAt = &t
		}
		items = append(items, item)
	}
	return items, nil
}

// feedThumbnail looks for an image in the item itself: the item image, media
// extensions, then image enclosures.
func feedThumbnail(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	if media, ok := it.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}
