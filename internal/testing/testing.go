// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/services"
)

// CallLog is an ordered, goroutine-safe record of calls made against test doubles.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

// Add appends a formatted entry.
func (l *CallLog) Add(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded entries.
func (l *CallLog) Calls() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// MockLyricsProvider is a test double for [services.LyricsProvider].
//
// Album lookups log "album:<id>", song lookups log "song:<id>".
type MockLyricsProvider struct {
	AlbumData *models.Album
	Songs     map[int64]models.Song
	AlbumErr  error
	SongErrs  map[int64]error
	Log       *CallLog

	mu         sync.Mutex
	albumCalls int
	songCalls  int
}

// NewMockLyricsProvider builds a provider whose album lists songs in order.
func NewMockLyricsProvider(albumID int64, songs ...models.Song) *MockLyricsProvider {
	p := &MockLyricsProvider{
		AlbumData: &models.Album{ID: albumID, Name: "Hamilton"},
		Songs:     make(map[int64]models.Song, len(songs)),
		SongErrs:  map[int64]error{},
	}
	for i, s := range songs {
		p.AlbumData.Tracks = append(p.AlbumData.Tracks, models.Track{Number: i + 1, SongID: s.ExternalID, Title: s.Title})
		p.Songs[s.ExternalID] = s
	}
	return p
}

func (m *MockLyricsProvider) Album(ctx context.Context, albumID int64) (*models.Album, error) {
	m.mu.Lock()
	m.albumCalls++
	m.mu.Unlock()
	m.Log.Add("album:%d", albumID)

	if m.AlbumErr != nil {
		return nil, m.AlbumErr
	}
	if m.AlbumData == nil || m.AlbumData.ID != albumID {
		return nil, fmt.Errorf("album %d not found", albumID)
	}
	return m.AlbumData, nil
}

func (m *MockLyricsProvider) Song(ctx context.Context, songID int64) (*models.Song, error) {
	m.mu.Lock()
	m.songCalls++
	m.mu.Unlock()
	m.Log.Add("song:%d", songID)

	if err := m.SongErrs[songID]; err != nil {
		return nil, err
	}
	song, ok := m.Songs[songID]
	if !ok {
		return nil, fmt.Errorf("song %d not found", songID)
	}
	return &song, nil
}

func (m *MockLyricsProvider) Name() string { return "mock" }

// AlbumCalls returns how many album lookups were made.
func (m *MockLyricsProvider) AlbumCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.albumCalls
}

// SongCalls returns how many song lookups were made.
func (m *MockLyricsProvider) SongCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.songCalls
}

// MockSearchIndex is a test double for [services.SearchIndex].
//
// Mutations log "synonyms:<n>", "clear" and "add:<n>"; waits log "wait:<id>".
// Each mutation returns a fresh task ID starting at 1.
type MockSearchIndex struct {
	ReplaceErr error
	ClearErr   error
	AddErr     error
	WaitErr    error
	Log        *CallLog

	Synonyms []models.Synonym
	Objects  []models.Song
	Cleared  int

	mu      sync.Mutex
	nextID  int64
	pending map[int64]bool
}

func (m *MockSearchIndex) newTask() services.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if m.pending == nil {
		m.pending = map[int64]bool{}
	}
	m.pending[m.nextID] = true
	return services.Task{IDs: []int64{m.nextID}}
}

func (m *MockSearchIndex) ReplaceSynonyms(ctx context.Context, synonyms []models.Synonym) (services.Task, error) {
	m.Log.Add("synonyms:%d", len(synonyms))
	if m.ReplaceErr != nil {
		return services.Task{}, m.ReplaceErr
	}
	m.Synonyms = append([]models.Synonym(nil), synonyms...)
	return m.newTask(), nil
}

func (m *MockSearchIndex) Clear(ctx context.Context) (services.Task, error) {
	m.Log.Add("clear")
	if m.ClearErr != nil {
		return services.Task{}, m.ClearErr
	}
	m.Cleared++
	m.Objects = nil
	return m.newTask(), nil
}

func (m *MockSearchIndex) AddObjects(ctx context.Context, songs []models.Song) (services.Task, error) {
	m.Log.Add("add:%d", len(songs))
	if m.AddErr != nil {
		return services.Task{}, m.AddErr
	}
	m.Objects = append(m.Objects, songs...)
	return m.newTask(), nil
}

func (m *MockSearchIndex) Wait(ctx context.Context, task services.Task) error {
	for _, id := range task.IDs {
		m.Log.Add("wait:%d", id)
	}
	if m.WaitErr != nil {
		return m.WaitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range task.IDs {
		delete(m.pending, id)
	}
	return nil
}

func (m *MockSearchIndex) Name() string { return "mock-index" }

// Pending returns the number of tasks that were never waited on.
func (m *MockSearchIndex) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// MockRecorder collects journaled jobs.
type MockRecorder struct {
	Jobs []*models.Job
	Err  error
}

func (m *MockRecorder) Record(job *models.Job) error {
	m.Jobs = append(m.Jobs, job)
	return m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

var _ io.Writer = (*FWriter)(nil)

// Songs returns n distinct songs with IDs starting at 1000.
func Songs(n int) []models.Song {
	songs := make([]models.Song, n)
	for i := range songs {
		songs[i] = models.Song{
			ExternalID: int64(1000 + i),
			Title:      fmt.Sprintf("Track %02d", i+1),
			Lyrics:     fmt.Sprintf("[Verse]\nline one of %d\nline two", i+1),
		}
	}
	return songs
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}
