package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// User is one authorized mailbox owner together with the OAuth grant
// obtained for them during the web flow.
type User struct {
	ID           string
	Email        string
	Name         string
	Picture      string
	AccessToken  string
	RefreshToken string
	TokenURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuditLog is one executed cleanup action. The audit trail is append-only;
// rows are never updated or deleted.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Target    string
	Affected  int
	Status    string
	CreatedAt time.Time
}

// SQLiteStore persists users and the action audit trail in a local SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and
// runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	picture       TEXT NOT NULL DEFAULT '',
	access_token  TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	token_url     TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	action     TEXT NOT NULL,
	target     TEXT NOT NULL DEFAULT '',
	affected   INTEGER NOT NULL DEFAULT 0,
	status     TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_user_created
	ON audit_logs (user_id, created_at DESC);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertUser inserts the user keyed by email, or refreshes the profile and
// tokens of an existing row. The returned user carries the canonical ID
// and timestamps.
func (s *SQLiteStore) UpsertUser(ctx context.Context, u User) (*User, error) {
	if u.Email == "" {
		return nil, errors.New("user email is required")
	}

	now := time.Now().UTC()
	id := u.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, picture, access_token, refresh_token, token_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name          = excluded.name,
			picture       = excluded.picture,
			access_token  = excluded.access_token,
			refresh_token = CASE WHEN excluded.refresh_token != '' THEN excluded.refresh_token ELSE users.refresh_token END,
			token_url     = excluded.token_url,
			updated_at    = excluded.updated_at
	`, id, u.Email, u.Name, u.Picture, u.AccessToken, u.RefreshToken, u.TokenURL,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return s.GetUserByEmail(ctx, u.Email)
}

// GetUserByEmail loads a user by mailbox address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUser loads a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, picture, access_token, refresh_token, token_url, created_at, updated_at
		FROM users WHERE `+column+` = ?
	`, value)

	var u User
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.AccessToken, &u.RefreshToken, &u.TokenURL, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &u, nil
}

// AppendAudit records one executed action. The ID and timestamp are
// assigned here; callers only describe what happened.
func (s *SQLiteStore) AppendAudit(ctx context.Context, entry AuditLog) (*AuditLog, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, user_id, action, target, affected, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, entry.Action, entry.Target, entry.Affected, entry.Status,
		entry.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("append audit log: %w", err)
	}
	return &entry, nil
}

// ListAudit returns a user's most recent audit entries, newest first.
func (s *SQLiteStore) ListAudit(ctx context.Context, userID string, limit int) ([]AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, action, target, affected, status, created_at
		FROM audit_logs WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []AuditLog
	for rows.Next() {
		var e AuditLog
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Target, &e.Affected, &e.Status, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
