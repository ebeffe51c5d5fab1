package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/shared"
)

// LyricsStore persists the lyrics document at a fixed path.
type LyricsStore struct {
	path string
}

// NewLyricsStore creates a store for the document at path.
func NewLyricsStore(path string) *LyricsStore {
	return &LyricsStore{path: path}
}

// Path returns the location of the document.
func (s *LyricsStore) Path() string {
	return s.path
}

// Exists reports whether a document is present.
func (s *LyricsStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Save replaces the document with songs.
//
// The old file is removed before the new one is written; there is no
// temp-file swap, so a crash mid-write leaves no file or a truncated one.
func (s *LyricsStore) Save(songs []models.Song) error {
	if songs == nil {
		songs = []models.Song{}
	}

	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to marshal lyrics: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove previous lyrics document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write lyrics document: %w", err)
	}
	return nil
}

// Load reads the document. A missing file yields [shared.ErrLyricsFileMissing].
func (s *LyricsStore) Load() ([]models.Song, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrLyricsFileMissing, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics document: %w", err)
	}

	var songs []models.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("failed to parse lyrics document: %w", err)
	}
	return songs, nil
}
