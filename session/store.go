// Package session keeps the dashboard's local key/value state (session
// token and last known profile) in a single SQLite file.
package session

import (
	"YouthHealth/models"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	tokenKey   = "session_token"
	profileKey = "last_profile"
)

// Store is a small key/value table backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "dashboard-session.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns the value under key; ok is false when the key is absent.
func (s *Store) Get(key string) (value []byte, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) SaveToken(token string) error {
	return s.Set(tokenKey, []byte(token))
}

// Token returns the stored session token or "" when none is stored.
func (s *Store) Token() (string, error) {
	v, ok, err := s.Get(tokenKey)
	if err != nil || !ok {
		return "", err
	}
	return string(v), nil
}

func (s *Store) SaveProfile(user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.Set(profileKey, data)
}

// LastProfile returns the last stored profile or nil when none is stored.
func (s *Store) LastProfile() (*models.User, error) {
	v, ok, err := s.Get(profileKey)
	if err != nil || !ok {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(v, &user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &user, nil
}

// Clear removes the token and profile.
func (s *Store) Clear() error {
	if err := s.Delete(tokenKey); err != nil {
		return err
	}
	return s.Delete(profileKey)
}
