package news

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ringstats-backend/models"
)

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrSourceNotFound   = errors.New("source not found")
	ErrSourceExists     = errors.New("source already exists")
	ErrInvalidDirection = errors.New("invalid direction")
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	// neutralSourceScore is used when an article has no linked source.
	neutralSourceScore = 0.5
)

type Sort string

const (
	SortLatest  Sort = "latest"
	SortTopWeek Sort = "top_week"
	SortTopAll  Sort = "top_all"
)

// ArticleQuery filters the article list.
type ArticleQuery struct {
	Label    models.CredibilityLabel
	SourceID int64
	Q        string
	Sort     Sort
	Limit    int
}

// ParseArticleQuery reads list parameters from a query lookup, applying the
// defaults and the limit cap.
func ParseArticleQuery(get func(string) string) ArticleQuery {
	q := ArticleQuery{
		Q:     strings.TrimSpace(get("q")),
		Sort:  SortLatest,
		Limit: defaultListLimit,
	}
	switch tag := strings.TrimSpace(get("tag")); strings.ToLower(tag) {
	case "", "undefined", "null", "none":
	default:
		q.Label = models.CredibilityLabel(tag)
	}
	if id, err := strconv.ParseInt(get("source_id"), 10, 64); err == nil && id > 0 {
		q.SourceID = id
	}
	switch s := Sort(get("sort")); s {
	case SortTopWeek, SortTopAll:
		q.Sort = s
	}
	if n, err := strconv.Atoi(get("limit")); err == nil && n > 0 {
		q.Limit = min(n, maxListLimit)
	}
	return q
}

type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionClear Direction = "clear"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown, DirectionClear:
		return d, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidDirection, s)
	}
}

// ApplyVote moves a user's vote on an article. prev is the user's current
// vote (nil for none, true for up); the returned next is the vote to store.
// Repeating the same vote changes nothing.
func ApplyVote(up, down int, prev *bool, dir Direction) (newUp, newDown int, next *bool) {
	newUp, newDown = up, down
	if prev != nil {
		if *prev {
			newUp--
		} else {
			newDown--
		}
	}
	switch dir {
	case DirectionUp:
		newUp++
		v := true
		next = &v
	case DirectionDown:
		newDown++
		v := false
		next = &v
	}
	return newUp, newDown, next
}

// ArticleSourceLink ties a submitted article to one of its sources.
type ArticleSourceLink struct {
	SourceID int64  `json:"sourceId" validate:"required,gt=0"`
	URL      string `json:"url" validate:"required,url"`
}

// NewArticle is a manually submitted article.
type NewArticle struct {
	Title          string              `json:"title" validate:"required,max=500"`
	CanonicalURL   string              `json:"canonicalUrl" validate:"required,url"`
	ContentSnippet string              `json:"contentSnippet" validate:"max=2000"`
	ThumbnailURL   string              `json:"thumbnailUrl" validate:"omitempty,url"`
	PublishedAt    *time.Time          `json:"publishedAt"`
	Sources        []ArticleSourceLink `json:"sources" validate:"dive"`
}

// Repository is the article store behind the news routes.
type Repository interface {
	ListArticles(ctx context.Context, q ArticleQuery) ([]models.Article, error)
	GetArticle(ctx context.Context, id int64) (models.Article, error)
	CreateArticle(ctx context.Context, a NewArticle) (models.Article, error)
	Vote(ctx context.Context, userID int, articleID int64, dir Direction) (models.VoteResult, error)
	ListComments(ctx context.Context, articleID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, articleID int64, userID int, body string) (models.Comment, error)
	SourceStore
}

// SourceStore manages news sources and the articles ingest finds for them.
type SourceStore interface {
	ListSources(ctx context.Context, activeOnly bool) ([]models.Source, error)
	CreateSource(ctx context.Context, s models.Source) (models.Source, error)
	// SeedSources inserts sources whose name is not yet known and reports
	// how many were added.
	SeedSources(ctx context.Context, sources []models.Source) (int, error)
	// InsertIngested stores item for src unless an article with the same
	// canonical URL or fingerprint exists. It reports whether it inserted.
	InsertIngested(ctx context.Context, src models.Source, item Item, fingerprint string) (bool, error)
}
