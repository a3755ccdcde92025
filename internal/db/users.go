package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User is a row of the users table. The hash and résumé columns never leave
// the service layer, so they carry no JSON names.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	PasswordSet  bool      `json:"password_set"`
	ResumeRaw    string    `json:"-"`
	ResumeText   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasResume reports whether an upload produced any stored text.
func (u *User) HasResume() bool { return u.ResumeRaw != "" }

const selectUser = `SELECT id, name, email, phone, password_hash, password_set,
	COALESCE(resume_raw, ''), COALESCE(resume_text, ''), created_at, updated_at
	FROM users`

// findUser runs a single-row user query. A missing row is (nil, nil).
func (db *DB) findUser(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx, selectUser+" WHERE "+where, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.PasswordSet,
		&u.ResumeRaw, &u.ResumeText, &u.CreatedAt, &u.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &u, nil
}

// execOne runs a statement that must touch exactly the row of id.
func (db *DB) execOne(ctx context.Context, id uuid.UUID, sql string, args ...any) error {
	tag, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// CreateUser inserts a user with no password yet and returns the new ID.
func (db *DB) CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, phone) VALUES ($1, $2, $3) RETURNING id`,
		name, email, phone,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// GetUser returns nil, nil for an unknown id.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := db.findUser(ctx, "id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("select user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail returns nil, nil for an unknown or empty email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, nil
	}
	u, err := db.findUser(ctx, "email = $1", email)
	if err != nil {
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return u, nil
}

func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var exists bool
	if err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// UpdateUser writes the profile fields of u.
func (db *DB) UpdateUser(ctx context.Context, u *User) error {
	err := db.execOne(ctx, u.ID,
		`UPDATE users SET name = $1, email = $2, phone = $3, updated_at = NOW() WHERE id = $4`,
		u.Name, u.Email, u.Phone, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePassword stores hash and flags the password as set.
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	err := db.execOne(ctx, id,
		`UPDATE users SET password_hash = $1, password_set = TRUE, updated_at = NOW() WHERE id = $2`,
		hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := db.execOne(ctx, id, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// UpdateResume replaces both résumé columns in one statement, so readers
// never see raw and text from different uploads. text is a prefix of raw.
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, raw, text string) error {
	err := db.execOne(ctx, id,
		`UPDATE users SET resume_raw = $1, resume_text = $2, updated_at = NOW() WHERE id = $3`,
		raw, text, id)
	if err != nil {
		return fmt.Errorf("update resume: %w", err)
	}
	return nil
}

// GetResumeRaw returns the full stored text, "" when the user has none or
// does not exist.
func (db *DB) GetResumeRaw(ctx context.Context, id uuid.UUID) (string, error) {
	var raw string
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(resume_raw, '') FROM users WHERE id = $1`, id).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("select resume text: %w", err)
	}
	return raw, nil
}
