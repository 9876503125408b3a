package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"ringstats-backend/models"
)

// MemoryPersistence keeps the list in process memory.
type MemoryPersistence struct {
	mu    sync.Mutex
	items []models.Wrestler
	Saves int
}

func (m *MemoryPersistence) Load(context.Context) ([]models.Wrestler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Wrestler(nil), m.items...), nil
}

func (m *MemoryPersistence) Save(_ context.Context, favorites []models.Wrestler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]models.Wrestler(nil), favorites...)
	m.Saves++
	return nil
}

// FilePersistence stores the list as a JSON array in a single file. Writes go
// to a temporary file that is renamed over the old one.
type FilePersistence struct {
	Path string
}

func (f FilePersistence) Load(context.Context) ([]models.Wrestler, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Wrestler{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read favorites file: %w", err)
	}
	return decode(data)
}

func (f FilePersistence) Save(_ context.Context, favorites []models.Wrestler) error {
	data, err := json.MarshalIndent(favorites, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create favorites dir: %w", err)
	}
	tempPath := f.Path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("write temporary favorites: %w", err)
	}
	if err := os.Rename(tempPath, f.Path); err != nil {
		return fmt.Errorf("replace favorites file: %w", err)
	}
	return nil
}

// RedisPersistence stores the list as one JSON value under Key.
type RedisPersistence struct {
	Client *redis.Client
	Key    string
}

func (r RedisPersistence) Load(ctx context.Context) ([]models.Wrestler, error) {
	data, err := r.Client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Wrestler{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.Key, err)
	}
	return decode(data)
}

func (r RedisPersistence) Save(ctx context.Context, favorites []models.Wrestler) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := r.Client.Set(ctx, r.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.Key, err)
	}
	return nil
}

// SQLiteDB is a local key/value table of favorites lists.
type SQLiteDB struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS favorites (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate favorites: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error { return s.db.Close() }

// Port returns the persistence for one key.
func (s *SQLiteDB) Port(key string) SQLitePersistence {
	return SQLitePersistence{db: s.db, key: key}
}

type SQLitePersistence struct {
	db  *sql.DB
	key string
}

func (p SQLitePersistence) Load(ctx context.Context) ([]models.Wrestler, error) {
	var data string
	err := p.db.QueryRowContext(ctx, `SELECT data FROM favorites WHERE key = ?`, p.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Wrestler{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query favorites %s: %w", p.key, err)
	}
	return decode([]byte(data))
}

func (p SQLitePersistence) Save(ctx context.Context, favorites []models.Wrestler) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO favorites (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, p.key, string(data))
	if err != nil {
		return fmt.Errorf("upsert favorites %s: %w", p.key, err)
	}
	return nil
}

func decode(data []byte) ([]models.Wrestler, error) {
	var out []models.Wrestler
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	if out == nil {
		out = []models.Wrestler{}
	}
	return out, nil
}

var (
	_ Persistence = (*MemoryPersistence)(nil)
	_ Persistence = FilePersistence{}
	_ Persistence = RedisPersistence{}
	_ Persistence = SQLitePersistence{}
)
