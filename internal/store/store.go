// Package store provides the key-value persistence layer backing filters,
// token pools and controller state. Reads go through an in-memory cache so
// hot keys behave like synchronous accessors even when sqlite is slow.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS kv (
	key    TEXT PRIMARY KEY,
	value  TEXT NOT NULL
);
`

// KV is a get/set-with-default store. All read failures degrade to the
// caller-supplied default; persistence problems are logged, never surfaced.
type KV struct {
	db    *sql.DB
	cache map[string]string
	log   *zap.Logger
}

// Open opens (creating if needed) the kv database at path.
func Open(path string, log *zap.Logger) (*KV, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open kv db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init kv schema: %w", err)
	}
	if err := ensureVersion(db); err != nil {
		db.Close()
		return nil, err
	}
	return &KV{db: db, cache: make(map[string]string), log: log}, nil
}

func ensureVersion(db *sql.DB) error {
	var v int
	err := db.QueryRow(`SELECT version FROM schema_meta LIMIT 1`).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO schema_meta (version) VALUES (?)`, schemaVersion)
		if err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case v != schemaVersion:
		return fmt.Errorf("unsupported kv schema version %d (want %d)", v, schemaVersion)
	}
	return nil
}

// Close closes the underlying database.
func (s *KV) Close() error { return s.db.Close() }

// GetString returns the stored value for key, or def when the key is absent
// or the read fails.
func (s *KV) GetString(key, def string) string {
	if v, ok := s.cache[key]; ok {
		return v
	}
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return def
	case err != nil:
		s.log.Warn("kv read failed, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	s.cache[key] = v
	return v
}

// SetString writes through the cache to sqlite. A write failure leaves the
// cache updated so the session stays internally consistent.
func (s *KV) SetString(key, value string) {
	s.cache[key] = value
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		s.log.Warn("kv write failed", zap.String("key", key), zap.Error(err))
	}
}

// GetJSON decodes the stored value for key into out. Returns false when the
// key is absent or the stored value is unreadable, leaving out untouched in
// the absent case.
func (s *KV) GetJSON(key string, out any) bool {
	raw := s.GetString(key, "")
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Warn("kv value not decodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON encodes value and stores it under key.
func (s *KV) SetJSON(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("kv value not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	s.SetString(key, string(raw))
}

// Delete removes key from both cache and sqlite.
func (s *KV) Delete(key string) {
	delete(s.cache, key)
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		s.log.Warn("kv delete failed", zap.String("key", key), zap.Error(err))
	}
}
