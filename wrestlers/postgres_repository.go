package wrestlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ringstats-backend/models"
)

// PostgresRepository keeps each scraped record verbatim in a JSONB column and
// normalizes on read, so both payload shapes can live in the same table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresRepository) List(ctx context.Context, search string) ([]models.Wrestler, error) {
	query := `SELECT id, data FROM wrestlers ORDER BY name, id`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		query = `SELECT id, data FROM wrestlers WHERE name ILIKE $1 ORDER BY name, id`
		args = append(args, "%"+likeEscaper.Replace(s)+"%")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query wrestlers: %w", err)
	}
	defer rows.Close()

	wrestlers := []models.Wrestler{}
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan wrestler: %w", err)
		}
		w, err := decodeRecord(data, id)
		if err != nil {
			return nil, fmt.Errorf("wrestler %s: %w", id, err)
		}
		w.ID = id
		wrestlers = append(wrestlers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wrestlers: %w", err)
	}
	return wrestlers, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Wrestler, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM wrestlers WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Wrestler{}, ErrNotFound
	}
	if err != nil {
		return models.Wrestler{}, fmt.Errorf("query wrestler %s: %w", id, err)
	}
	w, err := decodeRecord(data, id)
	if err != nil {
		return models.Wrestler{}, fmt.Errorf("wrestler %s: %w", id, err)
	}
	w.ID = id
	return w, nil
}

func (r *PostgresRepository) Daily(ctx context.Context, day time.Time) (models.Wrestler, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT wrestler_id FROM daily_wrestlers WHERE day = $1::date`,
		day.UTC().Format("2006-01-02"),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Wrestler{}, ErrNotFound
	}
	if err != nil {
		return models.Wrestler{}, fmt.Errorf("query daily wrestler: %w", err)
	}
	return r.Get(ctx, id)
}

// Upsert stores raw records as-is. The id and name columns are taken from the
// normalized view, falling back to the record key for the id; the record
// itself is what gets served.
func (r *PostgresRepository) Upsert(ctx context.Context, records []Record) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin wrestler import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wrestlers (id, name, data, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare wrestler upsert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for i, rec := range records {
		w, err := decodeRecord(rec.Raw, rec.Key)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		if w.ID == "" {
			return 0, fmt.Errorf("record %d: missing id", i)
		}
		if _, err := stmt.ExecContext(ctx, w.ID, w.Name, []byte(rec.Raw)); err != nil {
			return 0, fmt.Errorf("upsert wrestler id=%s: %w", w.ID, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit wrestler import transaction: %w", err)
	}
	return n, nil
}

// AppendMatches adds match rows to the stored recent_matches of each wrestler.
func (r *PostgresRepository) AppendMatches(ctx context.Context, rows []MatchRow) (int, error) {
	grouped := map[string][]models.Match{}
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.WrestlerID]; !ok {
			order = append(order, row.WrestlerID)
		}
		grouped[row.WrestlerID] = append(grouped[row.WrestlerID], row.Match)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin match import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE wrestlers
		SET data = jsonb_set(data, '{recent_matches}', COALESCE(data->'recent_matches', '[]'::jsonb) || $2::jsonb),
		    updated_at = NOW()
		WHERE id = $1
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare match append: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, id := range order {
		payload, err := json.Marshal(grouped[id])
		if err != nil {
			return 0, fmt.Errorf("encode matches for wrestler_id=%s: %w", id, err)
		}
		res, err := stmt.ExecContext(ctx, id, payload)
		if err != nil {
			return 0, fmt.Errorf("append matches wrestler_id=%s: %w", id, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return 0, fmt.Errorf("append matches wrestler_id=%s: %w", id, ErrNotFound)
		}
		n += len(grouped[id])
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit match import transaction: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) IDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM wrestlers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query wrestler ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wrestler id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ScheduleDaily assigns ids to consecutive days starting at start, replacing
// any existing assignment for those days.
func (r *PostgresRepository) ScheduleDaily(ctx context.Context, start time.Time, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin daily schedule transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_wrestlers (day, wrestler_id)
		VALUES ($1::date, $2)
		ON CONFLICT (day) DO UPDATE SET wrestler_id = EXCLUDED.wrestler_id
	`)
	if err != nil {
		return fmt.Errorf("prepare daily schedule insert: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		day := start.UTC().AddDate(0, 0, i).Format("2006-01-02")
		if _, err := stmt.ExecContext(ctx, day, id); err != nil {
			return fmt.Errorf("schedule wrestler_id=%s on %s: %w", id, day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit daily schedule transaction: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
