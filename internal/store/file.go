package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"decant-store/internal/model"

	"github.com/rs/zerolog"
)

// fileStore implements AccountStore over a single JSON file, the legacy
// users file format: {username: {password, cart, favorites, history}}.
type fileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a file-backed account store at the given path.
func NewFileStore(path string, logger zerolog.Logger) AccountStore {
	return &fileStore{
		path:   path,
		logger: logger.With().Str("component", "file-store").Logger(),
	}
}

// Load reads the users file. An absent or malformed file is treated as no
// data, not an error.
func (s *fileStore) Load(_ context.Context) map[string]model.Account {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("file", s.path).Msg("users file unreadable, treating as empty")
		}
		return map[string]model.Account{}
	}

	users := map[string]model.Account{}
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn().Err(err).Str("file", s.path).Msg("users file malformed, treating as empty")
		return map[string]model.Account{}
	}

	return users
}

// Save serialises the full mapping and replaces the users file. The write goes
// through a temp file and a rename so readers never observe a partial file.
func (s *fileStore) Save(_ context.Context, users map[string]model.Account) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialise users: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create users directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp users file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write users file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close users file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace users file: %w", err)
	}

	s.logger.Debug().
		Str("file", s.path).
		Int("accounts", len(users)).
		Msg("users file saved")

	return nil
}
