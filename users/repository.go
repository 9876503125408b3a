package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ringstats-backend/database"
	"ringstats-backend/models"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

// Repository stores accounts. Emails are compared case-insensitively.
type Repository interface {
	Create(ctx context.Context, email, passwordHash, verificationToken string) (models.User, error)
	ByEmail(ctx context.Context, email string) (models.User, error)
	ByID(ctx context.Context, id int) (models.User, error)
	// Verify marks the account verified when token matches. It reports
	// whether an unverified account was updated.
	Verify(ctx context.Context, email, token string) (bool, error)
	SetVerificationToken(ctx context.Context, email, token string) error
	SetAdmin(ctx context.Context, id int, admin bool) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, email, passwordHash, token string) (models.User, error) {
	u := models.User{Email: normalizeEmail(email), PasswordHash: passwordHash, VerificationToken: token}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, verified, verification_token)
		VALUES ($1, $2, FALSE, $3)
		RETURNING id
	`, u.Email, passwordHash, token).Scan(&u.ID)
	if database.IsUniqueViolation(err) {
		return models.User{}, ErrExists
	}
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

const userColumns = `id, email, password_hash, verified, is_admin, COALESCE(verification_token, '')`

func (r *PostgresRepository) scan(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Verified, &u.IsAdmin, &u.VerificationToken)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) ByEmail(ctx context.Context, email string) (models.User, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
}

func (r *PostgresRepository) ByID(ctx context.Context, id int) (models.User, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresRepository) Verify(ctx context.Context, email, token string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET verified = TRUE, verification_token = NULL
		WHERE email = $1 AND verification_token = $2 AND verified = FALSE
	`, normalizeEmail(email), token)
	if err != nil {
		return false, fmt.Errorf("verify user: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *PostgresRepository) SetVerificationToken(ctx context.Context, email, token string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET verification_token = $1 WHERE email = $2`, token, normalizeEmail(email),
	); err != nil {
		return fmt.Errorf("update verification token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetAdmin(ctx context.Context, id int, admin bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, id, admin)
	if err != nil {
		return fmt.Errorf("update admin flag: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)

// MemoryRepository keeps accounts in process memory. It backs the file
// datastore, where there is no database.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: map[int]*models.User{}}
}

func (m *MemoryRepository) find(email string) *models.User {
	email = normalizeEmail(email)
	for _, u := range m.byID {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *MemoryRepository) Create(ctx context.Context, email, passwordHash, token string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(email) != nil {
		return models.User{}, ErrExists
	}
	u := &models.User{ID: m.nextID, Email: normalizeEmail(email), PasswordHash: passwordHash, VerificationToken: token}
	m.byID[u.ID] = u
	m.nextID++
	return *u, nil
}

func (m *MemoryRepository) ByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.find(email); u != nil {
		return *u, nil
	}
	return models.User{}, ErrNotFound
}

func (m *MemoryRepository) ByID(ctx context.Context, id int) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return *u, nil
	}
	return models.User{}, ErrNotFound
}

func (m *MemoryRepository) Verify(ctx context.Context, email, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.find(email)
	if u == nil || u.Verified || u.VerificationToken == "" || u.VerificationToken != token {
		return false, nil
	}
	u.Verified = true
	u.VerificationToken = ""
	return true, nil
}

func (m *MemoryRepository) SetVerificationToken(ctx context.Context, email, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.find(email); u != nil {
		u.VerificationToken = token
	}
	return nil
}

func (m *MemoryRepository) SetAdmin(ctx context.Context, id int, admin bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.IsAdmin = admin
	return nil
}

var _ Repository = (*MemoryRepository)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
