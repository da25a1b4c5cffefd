package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelar/ghostwriter-backend/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row or document.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// PostgresStore handles users and password-reset tokens against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email           VARCHAR(255) UNIQUE NOT NULL,
			name            VARCHAR(100) NOT NULL,
			password        VARCHAR(255) NOT NULL,
			posts_generated INTEGER      NOT NULL DEFAULT 0,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS password_reset_tokens (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id    UUID         NOT NULL REFERENCES users(id),
			token_hash VARCHAR(64)  UNIQUE NOT NULL,
			expires_at TIMESTAMPTZ  NOT NULL,
			used       BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

func (s *PostgresStore) CreateUser(ctx context.Context, email, name, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password)
		 VALUES (LOWER($1), $2, $3)
		 RETURNING id, email, name, password, posts_generated, created_at`,
		email, name, hashedPassword,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.PostsGenerated, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail matches the email case-insensitively.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, password, posts_generated, created_at
		 FROM users WHERE email = LOWER($1)`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.PostsGenerated, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, password, posts_generated, created_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.PostsGenerated, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password = $2 WHERE id = $1`, userID, hashedPassword)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementPostsGenerated bumps the lifetime counter atomically in SQL so
// concurrent generations for the same user never lose updates.
func (s *PostgresStore) IncrementPostsGenerated(ctx context.Context, userID string, n int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET posts_generated = posts_generated + $2 WHERE id = $1`, userID, n)
	return err
}

// CreateResetToken deletes any prior reset records for the user and inserts
// the new one, keeping at most one active record per user.
func (s *PostgresStore) CreateResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear reset tokens: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)`, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return tx.Commit(ctx)
}

// GetResetTokenByHash returns the unused record matching the hash, if any.
// Used records are filtered out so a consumed secret can never match again.
func (s *PostgresStore) GetResetTokenByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, used, created_at
		 FROM password_reset_tokens
		 WHERE token_hash = $1 AND used = FALSE`, tokenHash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) MarkResetTokenUsed(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE id = $1`, id)
	return err
}
