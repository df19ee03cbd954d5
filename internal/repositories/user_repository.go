package repositories

import (
	"database/sql"
	"strings"

	"translinka-backend/internal/domain"
)

// UserRepository wraps DB access for user accounts.
type UserRepository struct {
	DB *sql.DB
}

// EnsureSchema creates the users table when missing.
func (r UserRepository) EnsureSchema() error {
	ddl := `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(64) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'user',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

// Insert stores a new user with their password hash.
func (r UserRepository) Insert(u domain.User, passwordHash string) error {
	_, err := r.DB.Exec(`
		INSERT INTO users (id, name, email, phone, password_hash, role)
		VALUES (?,?,?,?,?,?)`,
		u.ID,
		u.Name,
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.Phone,
		passwordHash,
		u.Role,
	)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return domain.InternalError{Msg: "insert user", Err: err}
	}
	return nil
}

// GetByEmail loads a user and their password hash.
func (r UserRepository) GetByEmail(email string) (domain.User, string, error) {
	var (
		u    domain.User
		hash string
	)
	err := r.DB.QueryRow(`
		SELECT id, name, email, phone, password_hash, role
		FROM users WHERE email=? LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email))).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&hash,
		&u.Role,
	)
	if err == sql.ErrNoRows {
		return domain.User{}, "", domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return domain.User{}, "", domain.InternalError{Msg: "query user", Err: err}
	}
	return u, hash, nil
}
