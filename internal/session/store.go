package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is the console's local persistent key-value storage, standing in for
// the mobile platform's async storage. Single process, no concurrent writers.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS session_kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Open creates the backing database and schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value, or "" when the key is absent.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM session_kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// SaveSession persists a login result. Optional name fields are only written
// when present so a later partial update cannot leave stale values paired with
// a fresh token.
func (s *Store) SaveSession(sess *AdminSession) error {
	pairs := map[string]string{
		KeyToken:        sess.Token,
		KeyAdminID:      sess.AdminID,
		KeyUsername:     sess.Username,
		KeyRole:         sess.Role,
		KeyIsSuperAdmin: boolString(sess.IsSuperAdmin),
		KeyStaySignedIn: boolString(sess.StaySignedIn),
	}
	for key, value := range pairs {
		if err := s.Set(key, value); err != nil {
			return err
		}
	}

	if sess.FirstName != "" {
		if err := s.Set(KeyFirstName, sess.FirstName); err != nil {
			return err
		}
	}
	if sess.LastName != "" {
		if err := s.Set(KeyLastName, sess.LastName); err != nil {
			return err
		}
	}

	return nil
}

// LoadSession reads the stored session. Returns nil when no token is stored.
func (s *Store) LoadSession() (*AdminSession, error) {
	token, err := s.Get(KeyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	sess := &AdminSession{Token: token}
	reads := []struct {
		key  string
		dest *string
	}{
		{KeyAdminID, &sess.AdminID},
		{KeyUsername, &sess.Username},
		{KeyRole, &sess.Role},
		{KeyFirstName, &sess.FirstName},
		{KeyLastName, &sess.LastName},
	}
	for _, r := range reads {
		if *r.dest, err = s.Get(r.key); err != nil {
			return nil, err
		}
	}

	superAdmin, err := s.Get(KeyIsSuperAdmin)
	if err != nil {
		return nil, err
	}
	sess.IsSuperAdmin = superAdmin == "true"

	stay, err := s.Get(KeyStaySignedIn)
	if err != nil {
		return nil, err
	}
	sess.StaySignedIn = stay == "true"

	return sess, nil
}

// ClearSession removes every session key, used on logout and when token
// verification fails at startup.
func (s *Store) ClearSession() error {
	keys := []string{
		KeyToken, KeyAdminID, KeyUsername, KeyRole,
		KeyIsSuperAdmin, KeyStaySignedIn, KeyFirstName, KeyLastName,
	}
	for _, key := range keys {
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
