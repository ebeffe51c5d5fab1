package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/repositories"
	"github.com/desertthunder/hamilmoji/internal/shared"
	tu "github.com/desertthunder/hamilmoji/internal/testing"
)

const testAlbumID = 131575

// loggedDocument wraps a real store and records saves and loads in the shared call log.
type loggedDocument struct {
	*repositories.LyricsStore
	log *tu.CallLog
}

func (d *loggedDocument) Save(songs []models.Song) error {
	d.log.Add("save:%d", len(songs))
	return d.LyricsStore.Save(songs)
}

func (d *loggedDocument) Load() ([]models.Song, error) {
	d.log.Add("load")
	return d.LyricsStore.Load()
}

type fixture struct {
	log      *tu.CallLog
	provider *tu.MockLyricsProvider
	index    *tu.MockSearchIndex
	document *loggedDocument
	recorder *tu.MockRecorder
	engine   *PipelineEngine
}

func newFixture(t *testing.T, songs []models.Song, entries []models.EmojiEntry) *fixture {
	t.Helper()

	calls := &tu.CallLog{}
	provider := tu.NewMockLyricsProvider(testAlbumID, songs...)
	provider.Log = calls
	index := &tu.MockSearchIndex{Log: calls}
	document := &loggedDocument{
		LyricsStore: repositories.NewLyricsStore(filepath.Join(t.TempDir(), "data", "hamilton-lyrics.json")),
		log:         calls,
	}
	recorder := &tu.MockRecorder{}

	engine := NewPipelineEngine(EngineOpts{
		Lyrics:   provider,
		Index:    index,
		Document: document,
		Emoji:    func() ([]models.EmojiEntry, error) { return entries, nil },
		Recorder: recorder,
		AlbumID:  testAlbumID,
	})

	return &fixture{log: calls, provider: provider, index: index, document: document, recorder: recorder, engine: engine}
}

func sampleEmoji() []models.EmojiEntry {
	return []models.EmojiEntry{
		{Codes: "1F600", Char: "😀", Keywords: "face | grin"},
		{Codes: "1F451", Char: "👑", Keywords: " crown|king |queen "},
		{Codes: "1F4A9", Char: "💩", Keywords: ""},
	}
}

func TestBuildSynonyms(t *testing.T) {
	tests := []struct {
		name  string
		entry models.EmojiEntry
		want  []string
	}{
		{
			name:  "trims keywords and appends glyph",
			entry: models.EmojiEntry{Codes: "1F600", Char: "😀", Keywords: "face | grin"},
			want:  []string{"face", "grin", "😀"},
		},
		{
			name:  "keeps dataset order",
			entry: models.EmojiEntry{Codes: "1F451", Char: "👑", Keywords: "crown|king|queen"},
			want:  []string{"crown", "king", "queen", "👑"},
		},
		{
			name:  "empty keywords yields glyph only",
			entry: models.EmojiEntry{Codes: "1F4A9", Char: "💩", Keywords: ""},
			want:  []string{"💩"},
		},
		{
			name:  "skips blank tokens",
			entry: models.EmojiEntry{Codes: "1F3A9", Char: "🎩", Keywords: "hat ||  | top hat"},
			want:  []string{"hat", "top hat", "🎩"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSynonyms([]models.EmojiEntry{tt.entry})
			if len(got) != 1 {
				t.Fatalf("expected 1 synonym, got %d", len(got))
			}
			if got[0].ObjectID != tt.entry.Codes {
				t.Errorf("expected objectID %s, got %s", tt.entry.Codes, got[0].ObjectID)
			}
			if got[0].Type != "synonym" {
				t.Errorf("expected type synonym, got %s", got[0].Type)
			}
			if !reflect.DeepEqual(got[0].Synonyms, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got[0].Synonyms)
			}
		})
	}

	t.Run("one rule per entry", func(t *testing.T) {
		got := BuildSynonyms(sampleEmoji())
		if len(got) != 3 {
			t.Fatalf("expected 3 synonyms, got %d", len(got))
		}
		for i, e := range sampleEmoji() {
			if got[i].ObjectID != e.Codes {
				t.Errorf("rule %d: expected objectID %s, got %s", i, e.Codes, got[i].ObjectID)
			}
			if last := got[i].Synonyms[len(got[i].Synonyms)-1]; last != e.Char {
				t.Errorf("rule %d: expected glyph last, got %s", i, last)
			}
		}
	})

	t.Run("no entries", func(t *testing.T) {
		if got := BuildSynonyms(nil); len(got) != 0 {
			t.Errorf("expected no synonyms, got %d", len(got))
		}
	})
}

func TestFetchLyrics(t *testing.T) {
	t.Run("one request per track and records verbatim", func(t *testing.T) {
		songs := tu.Songs(46)
		f := newFixture(t, songs, nil)

		result, err := f.engine.FetchLyrics(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if f.provider.AlbumCalls() != 1 {
			t.Errorf("expected 1 album request, got %d", f.provider.AlbumCalls())
		}
		if f.provider.SongCalls() != 46 {
			t.Errorf("expected 46 song requests, got %d", f.provider.SongCalls())
		}

		loaded, err := f.document.LyricsStore.Load()
		if err != nil {
			t.Fatalf("failed to load document: %v", err)
		}
		if !reflect.DeepEqual(loaded, songs) {
			t.Errorf("document does not match fetched songs in tracklist order")
		}
		if result.Path != f.document.Path() || len(result.Songs) != 46 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("re-run replaces the document", func(t *testing.T) {
		f := newFixture(t, tu.Songs(3), nil)
		if _, err := f.engine.FetchLyrics(context.Background(), nil); err != nil {
			t.Fatalf("first fetch failed: %v", err)
		}

		latest := tu.NewMockLyricsProvider(testAlbumID, tu.Songs(1)...)
		f.engine.lyrics = latest
		if _, err := f.engine.FetchLyrics(context.Background(), nil); err != nil {
			t.Fatalf("second fetch failed: %v", err)
		}

		loaded, err := f.document.LyricsStore.Load()
		if err != nil {
			t.Fatalf("failed to load document: %v", err)
		}
		if len(loaded) != 1 {
			t.Errorf("expected only the latest fetch, got %d songs", len(loaded))
		}
	})

	t.Run("one failed song fails the step and writes nothing", func(t *testing.T) {
		songs := tu.Songs(5)
		f := newFixture(t, songs, nil)
		f.provider.SongErrs[songs[2].ExternalID] = shared.ErrAPIRequest

		_, err := f.engine.FetchLyrics(context.Background(), nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if f.document.Exists() {
			t.Error("expected no document after failed fetch")
		}
	})

	t.Run("album failure", func(t *testing.T) {
		f := newFixture(t, tu.Songs(2), nil)
		f.provider.AlbumErr = shared.ErrAPIRequest

		if _, err := f.engine.FetchLyrics(context.Background(), nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if f.provider.SongCalls() != 0 {
			t.Errorf("expected no song requests, got %d", f.provider.SongCalls())
		}
	})

	t.Run("provider not configured", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.engine.lyrics = nil

		if _, err := f.engine.FetchLyrics(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("reports progress without blocking", func(t *testing.T) {
		f := newFixture(t, tu.Songs(4), nil)
		progress := make(chan ProgressUpdate, 100)

		if _, err := f.engine.FetchLyrics(context.Background(), progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		songUpdates := 0
		for u := range progress {
			if u.Phase == FetchSongs {
				songUpdates++
			}
		}
		if songUpdates != 4 {
			t.Errorf("expected 4 song updates, got %d", songUpdates)
		}
	})

	t.Run("journals the step", func(t *testing.T) {
		f := newFixture(t, tu.Songs(2), nil)
		if _, err := f.engine.FetchLyrics(context.Background(), nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(f.recorder.Jobs) != 1 {
			t.Fatalf("expected 1 job, got %d", len(f.recorder.Jobs))
		}
		job := f.recorder.Jobs[0]
		if job.Step != models.StepFetchLyrics || job.Status != models.JobSucceeded || job.Items != 2 {
			t.Errorf("unexpected job %+v", job)
		}
	})

	t.Run("recorder errors are ignored", func(t *testing.T) {
		f := newFixture(t, tu.Songs(1), nil)
		f.recorder.Err = errors.New("disk full")
		if _, err := f.engine.FetchLyrics(context.Background(), nil); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestSetupEmoji(t *testing.T) {
	t.Run("replaces synonyms and waits", func(t *testing.T) {
		f := newFixture(t, nil, sampleEmoji())

		result, err := f.engine.SetupEmoji(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"synonyms:3", "wait:1"}
		if got := f.log.Calls(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected calls %v, got %v", want, got)
		}
		if len(f.index.Synonyms) != 3 || len(result.Synonyms) != 3 {
			t.Errorf("expected 3 synonyms pushed, got %d", len(f.index.Synonyms))
		}
		if f.index.Pending() != 0 {
			t.Errorf("expected no pending tasks, got %d", f.index.Pending())
		}
	})

	t.Run("reports each phase", func(t *testing.T) {
		f := newFixture(t, nil, sampleEmoji())
		progress := make(chan ProgressUpdate, 10)

		if _, err := f.engine.SetupEmoji(context.Background(), progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		want := []Phase{BuildRules, PushSynonyms, WaitTask}
		if !reflect.DeepEqual(phases, want) {
			t.Errorf("expected phases %v, got %v", want, phases)
		}
	})

	t.Run("dataset error", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.engine.emoji = func() ([]models.EmojiEntry, error) { return nil, shared.ErrInvalidDataset }

		if _, err := f.engine.SetupEmoji(context.Background(), nil); !errors.Is(err, shared.ErrInvalidDataset) {
			t.Errorf("expected ErrInvalidDataset, got %v", err)
		}
		if len(f.log.Calls()) != 0 {
			t.Errorf("expected no index calls, got %v", f.log.Calls())
		}
	})

	t.Run("wait failure", func(t *testing.T) {
		f := newFixture(t, nil, sampleEmoji())
		f.index.WaitErr = shared.ErrTaskFailed

		if _, err := f.engine.SetupEmoji(context.Background(), nil); !errors.Is(err, shared.ErrTaskFailed) {
			t.Errorf("expected ErrTaskFailed, got %v", err)
		}
		if job := f.recorder.Jobs[0]; job.Status != models.JobFailed {
			t.Errorf("expected failed job, got %+v", job)
		}
	})

	t.Run("index not configured", func(t *testing.T) {
		f := newFixture(t, nil, sampleEmoji())
		f.engine.index = nil

		if _, err := f.engine.SetupEmoji(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("defaults to bundled dataset", func(t *testing.T) {
		index := &tu.MockSearchIndex{}
		engine := NewPipelineEngine(EngineOpts{Index: index})

		result, err := engine.SetupEmoji(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Synonyms) == 0 {
			t.Error("expected bundled dataset to produce synonyms")
		}
	})
}

func TestIndexLyrics(t *testing.T) {
	t.Run("missing document makes no remote calls", func(t *testing.T) {
		f := newFixture(t, nil, nil)

		_, err := f.engine.IndexLyrics(context.Background(), nil)
		if !errors.Is(err, shared.ErrLyricsFileMissing) {
			t.Fatalf("expected ErrLyricsFileMissing, got %v", err)
		}
		if calls := f.log.Calls(); len(calls) != 0 {
			t.Errorf("expected no calls, got %v", calls)
		}
		if len(f.recorder.Jobs) != 0 {
			t.Errorf("expected no journal entry, got %d", len(f.recorder.Jobs))
		}
	})

	t.Run("clears, waits, loads and adds", func(t *testing.T) {
		songs := tu.Songs(3)
		f := newFixture(t, nil, nil)
		if err := f.document.LyricsStore.Save(songs); err != nil {
			t.Fatalf("failed to seed document: %v", err)
		}

		result, err := f.engine.IndexLyrics(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"clear", "wait:1", "load", "add:3", "wait:2"}
		if got := f.log.Calls(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected calls %v, got %v", want, got)
		}
		if !reflect.DeepEqual(f.index.Objects, songs) {
			t.Errorf("expected indexed records to match the document")
		}
		if result.Records != 3 || result.Index != "mock-index" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("clear failure stops before upload", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.document.LyricsStore.Save(tu.Songs(1))
		f.index.ClearErr = shared.ErrAPIRequest

		if _, err := f.engine.IndexLyrics(context.Background(), nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		for _, c := range f.log.Calls() {
			if strings.HasPrefix(c, "add:") {
				t.Errorf("expected no upload, got %v", f.log.Calls())
			}
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("runs every step in order with waits between stages", func(t *testing.T) {
		songs := tu.Songs(2)
		f := newFixture(t, songs, sampleEmoji())

		result, err := f.engine.Setup(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		calls := f.log.Calls()
		// Songs are fetched concurrently, so only the set of song calls is fixed.
		if len(calls) < 3 || calls[0] != "album:131575" {
			t.Fatalf("unexpected calls %v", calls)
		}
		songCalls := map[string]bool{calls[1]: true, calls[2]: true}
		if !songCalls["song:1000"] || !songCalls["song:1001"] {
			t.Errorf("expected both songs fetched, got %v", calls[1:3])
		}

		want := []string{"save:2", "synonyms:3", "wait:1", "clear", "wait:2", "load", "add:2", "wait:3"}
		if got := calls[3:]; !reflect.DeepEqual(got, want) {
			t.Errorf("expected calls %v, got %v", want, got)
		}

		if result.Fetch == nil || result.Synonyms == nil || result.Index == nil {
			t.Errorf("expected every step result, got %+v", result)
		}
		if len(f.recorder.Jobs) != 3 {
			t.Errorf("expected 3 journal entries, got %d", len(f.recorder.Jobs))
		}
	})

	t.Run("stops at the first error and keeps the document", func(t *testing.T) {
		f := newFixture(t, tu.Songs(2), sampleEmoji())
		f.index.ReplaceErr = shared.ErrAPIRequest

		result, err := f.engine.Setup(context.Background(), nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if result.Fetch == nil || result.Synonyms != nil || result.Index != nil {
			t.Errorf("unexpected partial result %+v", result)
		}
		if !f.document.Exists() {
			t.Error("expected document from the successful fetch to remain")
		}
		for _, c := range f.log.Calls() {
			if c == "clear" {
				t.Errorf("expected indexing to be skipped, got %v", f.log.Calls())
			}
		}
	})

	t.Run("fetch failure skips the remaining steps", func(t *testing.T) {
		f := newFixture(t, tu.Songs(2), sampleEmoji())
		f.provider.AlbumErr = shared.ErrAPIRequest

		if _, err := f.engine.Setup(context.Background(), nil); err == nil {
			t.Fatal("expected error")
		}
		if calls := f.log.Calls(); len(calls) != 1 {
			t.Errorf("expected only the album request, got %v", calls)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{FetchAlbum, "fetch_album"},
		{FetchSongs, "fetch_songs"},
		{BuildRules, "build_rules"},
		{PushSynonyms, "push_synonyms"},
		{WaitTask, "wait_task"},
		{Phase(99), ""},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
