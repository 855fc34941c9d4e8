// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package settings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aamcrae/nixie/tube"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a key/value store for settings objects.
type Store interface {
	// Get returns the value of key, and false if it has never been set.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error
}

// Open opens a store by name. A name ending in ".db" or starting with
// "file:" is a sqlite database, anything else a directory of JSON files.
func Open(name string) (Store, error) {
	if strings.HasSuffix(name, ".db") || strings.HasPrefix(name, "file:") {
		return OpenSQLite(name)
	}
	return NewFileStore(name)
}

// Load reads the settings from st. Stored data that cannot be decoded
// is ignored and the defaults are returned.
func Load(st Store) (Settings, error) {
	b, ok, err := st.Get(Key)
	if err != nil {
		return Defaults(), fmt.Errorf("%s: %w", Key, err)
	}
	if !ok {
		return Defaults(), nil
	}
	s, _ := Parse(b)
	return s, nil
}

// Save writes the settings to st.
func Save(st Store, s Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", Key, err)
	}
	return st.Set(Key, b)
}

// FactoryReset removes the stored settings, so the next Load returns
// the defaults.
func FactoryReset(st Store) error {
	return st.Remove(Key)
}

// Persister saves clock configuration changes to a store, keeping
// the settings that the clock does not know about.
type Persister struct {
	mu    sync.Mutex
	store Store
	s     Settings
}

// NewPersister creates a Persister that starts from the loaded settings s.
func NewPersister(st Store, s Settings) *Persister {
	return &Persister{store: st, s: s}
}

// Persist implements tube.Persister.
func (p *Persister) Persist(cfg tube.Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Apply(cfg)
	return Save(p.store, p.s)
}

// FileStore keeps each key as a JSON file in a directory.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store in dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *FileStore) Get(key string) ([]byte, bool, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set writes the value to a temporary file and renames it into place.
func (f *FileStore) Set(key string, value []byte) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

func (f *FileStore) Remove(key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *FileStore) Close() error {
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS settings (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`

// SQLiteStore keeps keys in a sqlite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dsn.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// A single connection keeps an in-memory database alive between queries.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *SQLiteStore) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
