package news

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ringstats-backend/database"
	"ringstats-backend/models"
)

type PostgresRepository struct {
	db     *sql.DB
	scorer Scorer
}

func NewPostgresRepository(db *sql.DB, scorer Scorer) *PostgresRepository {
	return &PostgresRepository{db: db, scorer: scorer}
}

// The first linked source (lowest id) names the article.
const articleColumns = `
	a.id, a.title, a.canonical_url, COALESCE(a.content_snippet, ''), COALESCE(a.thumbnail_url, ''),
	a.published_at, COALESCE(a.dedup_group_id, ''), a.upvotes, a.downvotes,
	a.credibility_score, a.credibility_label, a.created_at,
	src.id, COALESCE(src.name, 'Unknown')`

const articleFrom = `
	FROM articles a
	LEFT JOIN LATERAL (
		SELECT s.id, s.name
		FROM article_sources asrc
		JOIN sources s ON s.id = asrc.source_id
		WHERE asrc.article_id = a.id
		ORDER BY s.id
		LIMIT 1
	) src ON TRUE`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (models.Article, error) {
	var a models.Article
	var label string
	var sourceID sql.NullInt64
	var published sql.NullTime
	if err := row.Scan(
		&a.ID, &a.Title, &a.CanonicalURL, &a.ContentSnippet, &a.ThumbnailURL,
		&published, &a.DedupGroupID, &a.Upvotes, &a.Downvotes,
		&a.CredibilityScore, &label, &a.CreatedAt,
		&sourceID, &a.SourceName,
	); err != nil {
		return models.Article{}, err
	}
	a.CredibilityLabel = models.CredibilityLabel(label)
	if published.Valid {
		t := published.Time
		a.PublishedAt = &t
	}
	if sourceID.Valid {
		id := sourceID.Int64
		a.SourceID = &id
	}
	return a, nil
}

func (r *PostgresRepository) ListArticles(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Label != "" {
		where = append(where, "a.credibility_label = "+arg(string(q.Label)))
	}
	if q.SourceID > 0 {
		where = append(where, "EXISTS (SELECT 1 FROM article_sources x WHERE x.article_id = a.id AND x.source_id = "+arg(q.SourceID)+")")
	}
	if q.Q != "" {
		p := arg("%" + likeEscaper.Replace(q.Q) + "%")
		where = append(where, "(a.title ILIKE "+p+" OR a.content_snippet ILIKE "+p+")")
	}

	order := "a.created_at DESC"
	switch q.Sort {
	case SortTopWeek:
		where = append(where, "a.created_at >= NOW() - INTERVAL '7 days'")
		order = "(a.upvotes - a.downvotes) DESC, a.created_at DESC"
	case SortTopAll:
		order = "(a.upvotes - a.downvotes) DESC, a.created_at DESC"
	}

	limit := q.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	query := "SELECT " + articleColumns + articleFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + order + " LIMIT " + arg(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresRepository) GetArticle(ctx context.Context, id int64) (models.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+articleFrom+" WHERE a.id = $1", id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, ErrArticleNotFound
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("query article %d: %w", id, err)
	}
	return a, nil
}

// CreateArticle stores a submitted article. Submitting a known canonical URL
// returns the existing article.
func (r *PostgresRepository) CreateArticle(ctx context.Context, in NewArticle) (models.Article, error) {
	var existing int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM articles WHERE canonical_url = $1`, in.CanonicalURL).Scan(&existing)
	if err == nil {
		return r.GetArticle(ctx, existing)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, fmt.Errorf("query article by url: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Article{}, fmt.Errorf("begin article transaction: %w", err)
	}
	defer tx.Rollback()

	total := 0.0
	for _, s := range in.Sources {
		var score float64
		err := tx.QueryRowContext(ctx, `SELECT source_score FROM sources WHERE id = $1`, s.SourceID).Scan(&score)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Article{}, fmt.Errorf("source %d: %w", s.SourceID, ErrSourceNotFound)
		}
		if err != nil {
			return models.Article{}, fmt.Errorf("query source %d: %w", s.SourceID, err)
		}
		total += score
	}
	sourceScore := neutralSourceScore
	if len(in.Sources) > 0 {
		sourceScore = total / float64(len(in.Sources))
	}
	score, label := r.scorer.Score(0, 0, sourceScore)

	var id int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO articles (title, canonical_url, content_snippet, thumbnail_url, published_at,
			dedup_group_id, credibility_score, credibility_label)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8)
		RETURNING id
	`, in.Title, in.CanonicalURL, in.ContentSnippet, in.ThumbnailURL, in.PublishedAt,
		Fingerprint(in.Title), score, string(label)).Scan(&id); err != nil {
		return models.Article{}, fmt.Errorf("insert article: %w", err)
	}

	for _, s := range in.Sources {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO article_sources (article_id, source_id, url) VALUES ($1, $2, $3)
			ON CONFLICT (article_id, source_id) DO NOTHING
		`, id, s.SourceID, s.URL); err != nil {
			return models.Article{}, fmt.Errorf("link article source %d: %w", s.SourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Article{}, fmt.Errorf("commit article transaction: %w", err)
	}
	return r.GetArticle(ctx, id)
}

// Vote applies a user's vote and recomputes the article's credibility in one
// transaction. The article row is locked so concurrent votes serialise.
func (r *PostgresRepository) Vote(ctx context.Context, userID int, articleID int64, dir Direction) (models.VoteResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("begin vote transaction: %w", err)
	}
	defer tx.Rollback()

	var up, down int
	err = tx.QueryRowContext(ctx,
		`SELECT upvotes, downvotes FROM articles WHERE id = $1 FOR UPDATE`, articleID,
	).Scan(&up, &down)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoteResult{}, ErrArticleNotFound
	}
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("lock article %d: %w", articleID, err)
	}

	var prev *bool
	var isUp bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_upvote FROM votes WHERE article_id = $1 AND user_id = $2`, articleID, userID,
	).Scan(&isUp)
	switch {
	case err == nil:
		prev = &isUp
	case !errors.Is(err, sql.ErrNoRows):
		return models.VoteResult{}, fmt.Errorf("query vote: %w", err)
	}

	up, down, next := ApplyVote(up, down, prev, dir)
	if next == nil {
		_, err = tx.ExecContext(ctx, `DELETE FROM votes WHERE article_id = $1 AND user_id = $2`, articleID, userID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO votes (article_id, user_id, is_upvote) VALUES ($1, $2, $3)
			ON CONFLICT (user_id, article_id) DO UPDATE SET is_upvote = EXCLUDED.is_upvote
		`, articleID, userID, *next)
	}
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("store vote: %w", err)
	}

	var sourceScore sql.NullFloat64
	if err := tx.QueryRowContext(ctx, `
		SELECT AVG(s.source_score)
		FROM article_sources asrc JOIN sources s ON s.id = asrc.source_id
		WHERE asrc.article_id = $1
	`, articleID).Scan(&sourceScore); err != nil {
		return models.VoteResult{}, fmt.Errorf("query source score: %w", err)
	}
	avg := neutralSourceScore
	if sourceScore.Valid {
		avg = sourceScore.Float64
	}
	score, label := r.scorer.Score(up, down, avg)

	if _, err := tx.ExecContext(ctx, `
		UPDATE articles SET upvotes = $2, downvotes = $3, credibility_score = $4, credibility_label = $5
		WHERE id = $1
	`, articleID, up, down, score, string(label)); err != nil {
		return models.VoteResult{}, fmt.Errorf("update article credibility: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.VoteResult{}, fmt.Errorf("commit vote transaction: %w", err)
	}
	return models.VoteResult{
		ArticleID:        articleID,
		Upvotes:          up,
		Downvotes:        down,
		CredibilityScore: score,
		CredibilityLabel: label,
	}, nil
}

func (r *PostgresRepository) articleExists(ctx context.Context, id int64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM articles WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrArticleNotFound
	}
	if err != nil {
		return fmt.Errorf("query article %d: %w", id, err)
	}
	return nil
}

func (r *PostgresRepository) ListComments(ctx context.Context, articleID int64) ([]models.Comment, error) {
	if err := r.articleExists(ctx, articleID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, article_id, user_id, body, created_at
		FROM comments WHERE article_id = $1
		ORDER BY created_at ASC, id ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *PostgresRepository) AddComment(ctx context.Context, articleID int64, userID int, body string) (models.Comment, error) {
	if err := r.articleExists(ctx, articleID); err != nil {
		return models.Comment{}, err
	}
	c := models.Comment{ArticleID: articleID, UserID: userID, Body: body}
	if err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (article_id, user_id, body) VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, articleID, userID, body).Scan(&c.ID, &c.CreatedAt); err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListSources(ctx context.Context, activeOnly bool) ([]models.Source, error) {
	query := `SELECT id, name, COALESCE(rss_url, ''), COALESCE(base_url, ''), source_score, is_active, created_at FROM sources`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	sources := []models.Source{}
	for rows.Next() {
		var s models.Source
		if err := rows.Scan(&s.ID, &s.Name, &s.RSSURL, &s.BaseURL, &s.SourceScore, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *PostgresRepository) CreateSource(ctx context.Context, s models.Source) (models.Source, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sources (name, rss_url, base_url, source_score, is_active)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, TRUE)
		RETURNING id, is_active, created_at
	`, s.Name, s.RSSURL, s.BaseURL, s.SourceScore).Scan(&s.ID, &s.IsActive, &s.CreatedAt)
	if database.IsUniqueViolation(err) {
		return models.Source{}, ErrSourceExists
	}
	if err != nil {
		return models.Source{}, fmt.Errorf("insert source: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) SeedSources(ctx context.Context, sources []models.Source) (int, error) {
	added := 0
	for _, s := range sources {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO sources (name, rss_url, base_url, source_score, is_active)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, TRUE)
			ON CONFLICT (name) DO NOTHING
		`, s.Name, s.RSSURL, s.BaseURL, s.SourceScore)
		if err != nil {
			return added, fmt.Errorf("seed source %q: %w", s.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

func (r *PostgresRepository) InsertIngested(ctx context.Context, src models.Source, item Item, fingerprint string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin ingest transaction: %w", err)
	}
	defer tx.Rollback()

	var dup int
	err = tx.QueryRowContext(ctx, `
		SELECT 1 FROM articles WHERE canonical_url = $1 OR dedup_group_id = $2 LIMIT 1
	`, item.CanonicalURL, fingerprint).Scan(&dup)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("query duplicate article: %w", err)
	}

	score, label := r.scorer.Score(0, 0, src.SourceScore)
	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO articles (title, canonical_url, content_snippet, thumbnail_url, published_at,
			dedup_group_id, credibility_score, credibility_label)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT (canonical_url) DO NOTHING
		RETURNING id
	`, item.Title, item.CanonicalURL, item.ContentSnippet, item.ThumbnailURL, item.PublishedAt,
		fingerprint, score, string(label)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert ingested article: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO article_sources (article_id, source_id, url) VALUES ($1, $2, $3)
	`, id, src.ID, item.CanonicalURL); err != nil {
		return false, fmt.Errorf("link ingested article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit ingest transaction: %w", err)
	}
	return true, nil
}

var _ Repository = (*PostgresRepository)(nil)
