package wrestlers

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestPostgresGetMissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM wrestlers WHERE id = $1`)).
		WithArgs("404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresGetNormalizesStoredRecord(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM wrestlers WHERE id = $1`)).
		WithArgs("16").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"wrestler_id": 99, "parsed_data": {"profile": {"name": "Kenny Omega"}}}`)))

	w, err := repo.Get(context.Background(), "16")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.ID != "16" || w.Name != "Kenny Omega" {
		t.Fatalf("expected row id and normalized name, got %q %q", w.ID, w.Name)
	}
}

func TestPostgresGetWrapsQueryErrors(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM wrestlers WHERE id = $1`)).
		WithArgs("1").
		WillReturnError(boom)

	_, err := repo.Get(context.Background(), "1")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestPostgresListEscapesLikeWildcards(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM wrestlers WHERE name ILIKE $1 ORDER BY name, id`)).
		WithArgs(`%50\%\_off\\%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("3", []byte(`{"name": "50%_off\\"}`)))

	ws, err := repo.List(context.Background(), `  50%_off\ `)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ws) != 1 || ws[0].ID != "3" {
		t.Fatalf("expected the single matching row, got %+v", ws)
	}
}

func TestPostgresListWithoutSearchReturnsAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM wrestlers ORDER BY name, id`)).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	ws, err := repo.List(context.Background(), "   ")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ws == nil || len(ws) != 0 {
		t.Fatalf("expected an empty non-nil slice, got %#v", ws)
	}
}

func TestPostgresDailyLooksUpScheduledWrestler(t *testing.T) {
	repo, mock := newMockRepository(t)
	day := time.Date(2025, 3, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT wrestler_id FROM daily_wrestlers WHERE day = $1::date`)).
		WithArgs("2025-03-02").
		WillReturnRows(sqlmock.NewRows([]string{"wrestler_id"}).AddRow("7"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM wrestlers WHERE id = $1`)).
		WithArgs("7").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"name": "Jon Moxley"}`)))

	w, err := repo.Daily(context.Background(), day)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if w.ID != "7" || w.Name != "Jon Moxley" {
		t.Fatalf("expected Jon Moxley, got %+v", w)
	}
}

func TestPostgresDailyUnscheduledIsNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT wrestler_id FROM daily_wrestlers WHERE day = $1::date`)).
		WithArgs("2025-03-01").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Daily(context.Background(), time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
