package models

import "time"

type CredibilityLabel string

const (
	LabelConfirmed  CredibilityLabel = "Confirmed"
	LabelDeveloping CredibilityLabel = "Developing"
	LabelRumor      CredibilityLabel = "Rumor"
)

type Article struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	CanonicalURL     string           `json:"canonicalUrl"`
	ContentSnippet   string           `json:"contentSnippet,omitempty"`
	ThumbnailURL     string           `json:"thumbnailUrl,omitempty"`
	PublishedAt      *time.Time       `json:"publishedAt"`
	DedupGroupID     string           `json:"-"`
	Upvotes          int              `json:"upvotes"`
	Downvotes        int              `json:"downvotes"`
	CredibilityScore float64          `json:"credibilityScore"`
	CredibilityLabel CredibilityLabel `json:"credibilityLabel"`
	SourceID         *int64           `json:"sourceId"`
	SourceName       string           `json:"sourceName"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type Source struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	RSSURL      string    `json:"rssUrl,omitempty"`
	BaseURL     string    `json:"baseUrl,omitempty"`
	SourceScore float64   `json:"sourceScore"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"articleId"`
	UserID    int       `json:"userId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type VoteResult struct {
	ArticleID        int64            `json:"articleId"`
	Upvotes          int              `json:"upvotes"`
	Downvotes        int              `json:"downvotes"`
	CredibilityScore float64          `json:"credibilityScore"`
	CredibilityLabel CredibilityLabel `json:"credibilityLabel"`
}
