// Package credentials persists the single bearer token obtained by login.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Credential is the on-disk token record.
type Credential struct {
	AccessToken string `json:"access_token"`
	// CreatedAt is milliseconds since the Unix epoch.
	CreatedAt int64 `json:"created_at"`
}

// Created returns CreatedAt as a time.Time.
func (c Credential) Created() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// Store reads and writes one token file. It keeps no cache: every Load reads
// the file, so other processes' logins and logouts are seen immediately.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the stored credential. The file is written to a temporary
// sibling and renamed into place so readers never see a partial file.
func (s *Store) Save(token string, createdAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(Credential{
		AccessToken: token,
		CreatedAt:   createdAt.UnixMilli(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("securing token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Load returns the stored credential. ok is false when there is no file, the
// file cannot be parsed, or it holds no token; being logged out is not an error.
func (s *Store) Load() (cred Credential, ok bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Credential{}, false
	}
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, false
	}
	if cred.AccessToken == "" {
		return Credential{}, false
	}
	return cred, true
}

// Token returns just the access token.
func (s *Store) Token() (string, bool) {
	cred, ok := s.Load()
	return cred.AccessToken, ok
}

// Clear removes the stored credential. A missing file counts as success.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("removing token file: %w", err)
}
