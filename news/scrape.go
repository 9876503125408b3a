package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// SiteProfile describes how to pull headline links off a news index page for
// sources that publish no feed.
type SiteProfile struct {
	Name string
	// Match reports whether a source base URL belongs to this site.
	Match func(baseURL string) bool
	// Selectors are tried in order; every match is a headline candidate.
	Selectors []string
	// LinkPatterns restrict accepted links to article-looking paths. Empty
	// accepts any link.
	LinkPatterns []string
	// SkipWords reject navigation text such as "next page".
	SkipWords []string
	MinTitle  int
	// ImageSelector picks a fallback thumbnail on the article page.
	ImageSelector string
}

var siteProfiles = []SiteProfile{
	{
		Name:  "wwe",
		Match: func(u string) bool { return strings.Contains(u, "wwe.com") },
		Selectors: []string{
			".news-card a, .article-card a, .story-card a",
			"main h1 a, main h2 a, main h3 a, .main-content h1 a, .main-content h2 a",
			".content a[href*='/news/'], .news-section a, .articles a",
			"article a",
		},
		LinkPatterns:  []string{"/news/", "/articles/"},
		SkipWords:     []string{"page", "next", "previous", "last", "first", ">>", "<<"},
		MinTitle:      10,
		ImageSelector: "main img, .content img, article img",
	},
	{
		Name:  "aew",
		Match: func(u string) bool { return strings.Contains(u, "allelitewrestling.com") },
		Selectors: []string{
			".news-item a, .article-card a, .post-card a, .story-card a",
			"main h1 a, main h2 a, main h3 a, .main-content h1 a, .main-content h2 a, .main-content h3 a",
			".content-area a[href*='news'], .news-section a, .articles a, .posts a",
			".entry-title a, .post-title a, .headline a",
			"main a",
		},
		LinkPatterns: []string{"/news", "/post", "/article", "/story", "/aew-"},
		SkipWords: []string{
			"partners", "press only", "contact", "about", "privacy", "terms", "menu",
			"home", "shop", "tickets", "watch", "subscribe", "login", "read more",
			"learn more", "click here",
		},
		MinTitle:      10,
		ImageSelector: "main img, .content img, article img, .post-content img",
	},
	{
		Name:          "pwi",
		Match:         func(u string) bool { return strings.Contains(u, "pwi") },
		Selectors:     []string{"article a, h2 a, h3 a"},
		MinTitle:      1,
		ImageSelector: "img",
	},
}

// ProfileFor returns the scrape profile for a source without a feed.
func ProfileFor(baseURL string) (SiteProfile, bool) {
	lower := strings.ToLower(baseURL)
	for _, p := range siteProfiles {
		if p.Match(lower) {
			return p, true
		}
	}
	return SiteProfile{}, false
}

// ScrapeIndex fetches an index page and extracts headline links.
func ScrapeIndex(ctx context.Context, f *Fetcher, p SiteProfile, indexURL string) ([]Item, error) {
	body, err := f.Get(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	return ExtractHeadlines(body, p, indexURL)
}

func ExtractHeadlines(body []byte, p SiteProfile, indexURL string) ([]Item, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("parse index url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	seen := map[string]struct{}{}
	var items []Item
	for _, sel := range p.Selectors {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			title := strings.Join(strings.Fields(a.Text()), " ")
			if !p.acceptTitle(title) {
				return
			}
			link := resolve(base, href)
			if link == "" || !p.acceptLink(link) {
				return
			}
			if _, dup := seen[link]; dup {
				return
			}
			seen[link] = struct{}{}
			items = append(items, Item{Title: title, CanonicalURL: link})
		})
	}
	return items, nil
}

func (p SiteProfile) acceptTitle(title string) bool {
	if title == "" || len(title) < p.MinTitle || isDigits(title) {
		return false
	}
	lower := strings.ToLower(title)
	for _, w := range p.SkipWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

func (p SiteProfile) acceptLink(link string) bool {
	if strings.Contains(link, "#") {
		return false
	}
	if len(p.LinkPatterns) == 0 {
		return true
	}
	lower := strings.ToLower(link)
	for _, pat := range p.LinkPatterns {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolve makes href absolute against base. Non-http links resolve to "".
func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
