package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bance-assetou/mindvision/pkg/domain"
)

// Store is the durable mirror of the session record.
type Store interface {
	// Load returns the stored record, or nil when there is none or it is
	// unreadable. It never fails.
	Load() *domain.User
	Save(u *domain.User) error
	Clear() error
}

// errCorruptStore marks a record that exists but can't be parsed.
// It is logged, never returned.
var errCorruptStore = errors.New("stored session is corrupt")

// FileStore keeps the session record as JSON in a single file.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// NewFileStore returns a store backed by path. The file and its directory
// are created on first Save.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the record. Missing files and corrupt contents both mean
// "no session".
func (s *FileStore) Load() *domain.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("read session file")
		}
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		s.log.Warn().Err(fmt.Errorf("%w: %v", errCorruptStore, err)).Str("path", s.path).Msg("ignoring session file")
		return nil
	}
	if u.Token == "" {
		s.log.Warn().Err(errCorruptStore).Str("path", s.path).Msg("session file has no token")
		return nil
	}
	return &u
}

// Save overwrites the record. The write goes to a temp file that is renamed
// into place, so a crash never leaves a half-written record behind.
func (s *FileStore) Save(u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session.Save: marshal: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session.Save: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("session.Save: create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("session.Save: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("session.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session.Save: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("session.Save: rename: %w", err)
	}
	return nil
}

// Clear removes the record. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}
