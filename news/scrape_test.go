package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wweIndex = `<html><body><main>
  <div class="news-card"><a href="/news/cody-rhodes-retains-title">Cody Rhodes retains the title at WrestleMania</a></div>
  <div class="news-card"><a href="/news/cody-rhodes-retains-title">Cody Rhodes retains the title at WrestleMania</a></div>
  <div class="news-card"><a href="/news/page/2">Next page of stories</a></div>
  <div class="news-card"><a href="/shows/raw">Monday Night Raw results here</a></div>
  <div class="news-card"><a href="/news/short">Short</a></div>
  <article><a href="https://www.wwe.com/articles/rhea-ripley-injury-update">Rhea Ripley injury update from the doctor</a></article>
  <article><a href="#top">Back to the top of this story</a></article>
</main></body></html>`

func TestExtractHeadlinesWWE(t *testing.T) {
	p, ok := ProfileFor("https://www.WWE.com/news")
	require.True(t, ok)

	items, err := ExtractHeadlines([]byte(wweIndex), p, "https://www.wwe.com/news")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://www.wwe.com/news/cody-rhodes-retains-title", items[0].CanonicalURL)
	assert.Equal(t, "Cody Rhodes retains the title at WrestleMania", items[0].Title)
	assert.Equal(t, "https://www.wwe.com/articles/rhea-ripley-injury-update", items[1].CanonicalURL)
}

func TestProfileForUnknownSite(t *testing.T) {
	_, ok := ProfileFor("https://example.org")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	items, err := ExtractHeadlines(
		[]byte(`<article><a href="javascript:void(0)">A long enough title</a><a href="story/1">Another long title</a></article>`),
		SiteProfile{Selectors: []string{"article a"}, MinTitle: 1},
		"https://pwi.example/news/",
	)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://pwi.example/news/story/1", items[0].CanonicalURL)
}
