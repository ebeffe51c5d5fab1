package tasks

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/hamilmoji/internal/emoji"
	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/services"
	"github.com/desertthunder/hamilmoji/internal/shared"
)

// FetchResult is the outcome of [Pipeline.FetchLyrics].
type FetchResult struct {
	Album *models.Album
	Songs []models.Song
	Path  string // Location of the written lyrics document
}

// SynonymResult is the outcome of [Pipeline.SetupEmoji].
type SynonymResult struct {
	Synonyms []models.Synonym
	Index    string
}

// IndexResult is the outcome of [Pipeline.IndexLyrics].
type IndexResult struct {
	Records int
	Index   string
}

// SetupResult collects the results of every step [Pipeline.Setup] completed.
// Steps that did not run are nil.
type SetupResult struct {
	Fetch    *FetchResult
	Synonyms *SynonymResult
	Index    *IndexResult
}

// Pipeline defines the hamilmoji steps.
type Pipeline interface {
	// FetchLyrics fetches every song of the configured album and replaces the lyrics document.
	FetchLyrics(ctx context.Context, progress chan<- ProgressUpdate) (*FetchResult, error)

	// SetupEmoji replaces every synonym on the index with the emoji dataset.
	SetupEmoji(ctx context.Context, progress chan<- ProgressUpdate) (*SynonymResult, error)

	// IndexLyrics clears the index and loads the lyrics document into it.
	IndexLyrics(ctx context.Context, progress chan<- ProgressUpdate) (*IndexResult, error)

	// Setup runs FetchLyrics, SetupEmoji and IndexLyrics in order.
	Setup(ctx context.Context, progress chan<- ProgressUpdate) (*SetupResult, error)
}

// LyricsDocument persists the fetched songs between steps.
type LyricsDocument interface {
	Path() string
	Exists() bool
	Save(songs []models.Song) error
	Load() ([]models.Song, error)
}

// JobRecorder defines optional journaling of finished steps.
type JobRecorder interface {
	Record(job *models.Job) error
}

// EmojiSource yields the emoji dataset.
type EmojiSource func() ([]models.EmojiEntry, error)

// EngineOpts configures a [PipelineEngine].
//
// Lyrics and Index may be nil when the matching credentials are absent; the
// steps that need them then fail with [shared.ErrServiceUnavailable].
type EngineOpts struct {
	Lyrics   services.LyricsProvider
	Index    services.SearchIndex
	Document LyricsDocument
	Emoji    EmojiSource
	Recorder JobRecorder
	AlbumID  int64
	Logger   *log.Logger
}

// PipelineEngine implements [Pipeline].
type PipelineEngine struct {
	lyrics   services.LyricsProvider
	index    services.SearchIndex
	document LyricsDocument
	emoji    EmojiSource
	recorder JobRecorder
	albumID  int64
	logger   *log.Logger
}

// NewPipelineEngine creates a new PipelineEngine from opts.
func NewPipelineEngine(opts EngineOpts) *PipelineEngine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	source := opts.Emoji
	if source == nil {
		source = emoji.Source("")
	}
	return &PipelineEngine{
		lyrics:   opts.Lyrics,
		index:    opts.Index,
		document: opts.Document,
		emoji:    source,
		recorder: opts.Recorder,
		albumID:  opts.AlbumID,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PipelineEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// record journals a finished step. Failures are logged and otherwise ignored.
func (e *PipelineEngine) record(step models.Step, items int, started time.Time, err error) {
	if e.recorder == nil {
		return
	}
	if rerr := e.recorder.Record(models.NewJob(step, items, started, err)); rerr != nil {
		e.logger.Warn("failed to journal step", "step", step, "error", rerr)
	}
}

// wait blocks on task and reports the wait as progress.
func (e *PipelineEngine) wait(ctx context.Context, progress chan<- ProgressUpdate, phase Phase, task services.Task) error {
	e.sendProgress(progress, waitTaskUpdate(phase, task.IDs))
	e.logger.Debug("waiting for index task", "phase", phase, "tasks", task.IDs)
	if err := e.index.Wait(ctx, task); err != nil {
		return fmt.Errorf("%s: %w", phase, err)
	}
	return nil
}

// FetchLyrics fetches the album tracklist, then every song concurrently.
//
// Songs keep tracklist order. The first failed song request cancels the rest
// and fails the step before anything is written.
func (e *PipelineEngine) FetchLyrics(ctx context.Context, progress chan<- ProgressUpdate) (result *FetchResult, err error) {
	if e.lyrics == nil {
		return nil, fmt.Errorf("%w: lyrics provider is not configured", shared.ErrServiceUnavailable)
	}

	started := time.Now()
	defer func() {
		items := 0
		if result != nil {
			items = len(result.Songs)
		}
		e.record(models.StepFetchLyrics, items, started, err)
	}()

	logger := e.logger.With("step", models.StepFetchLyrics)

	e.sendProgress(progress, fetchAlbumUpdate(e.albumID))
	album, err := e.lyrics.Album(ctx, e.albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album %d: %w", e.albumID, err)
	}
	logger.Debug("fetched tracklist", "album", album.Name, "tracks", len(album.Tracks))

	total := len(album.Tracks)
	songs := make([]models.Song, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i, track := range album.Tracks {
		g.Go(func() error {
			song, err := e.lyrics.Song(gctx, track.SongID)
			if err != nil {
				return fmt.Errorf("failed to fetch track %d (%s): %w", track.Number, track.Title, err)
			}
			songs[i] = models.Song{
				ExternalID: song.ExternalID,
				Title:      song.Title,
				Lyrics:     song.Lyrics,
			}
			e.sendProgress(progress, songFetchedUpdate(int(done.Add(1)), total, song.Title))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, writeDocumentUpdate(e.document.Path(), len(songs)))
	if err := e.document.Save(songs); err != nil {
		return nil, err
	}
	logger.Info("wrote lyrics document", "path", e.document.Path(), "songs", len(songs))

	return &FetchResult{Album: album, Songs: songs, Path: e.document.Path()}, nil
}

// SetupEmoji replaces the index synonyms with one rule per emoji and waits
// until the replacement is published.
func (e *PipelineEngine) SetupEmoji(ctx context.Context, progress chan<- ProgressUpdate) (result *SynonymResult, err error) {
	if e.index == nil {
		return nil, fmt.Errorf("%w: search index is not configured", shared.ErrServiceUnavailable)
	}

	started := time.Now()
	defer func() {
		items := 0
		if result != nil {
			items = len(result.Synonyms)
		}
		e.record(models.StepSetupEmoji, items, started, err)
	}()

	entries, err := e.emoji()
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, buildSynonymsUpdate(len(entries)))
	synonyms := BuildSynonyms(entries)

	e.sendProgress(progress, pushSynonymsUpdate(len(synonyms), e.index.Name()))
	task, err := e.index.ReplaceSynonyms(ctx, synonyms)
	if err != nil {
		return nil, err
	}
	if err := e.wait(ctx, progress, PushSynonyms, task); err != nil {
		return nil, err
	}

	e.logger.Info("replaced synonyms", "step", models.StepSetupEmoji, "index", e.index.Name(), "rules", len(synonyms))
	return &SynonymResult{Synonyms: synonyms, Index: e.index.Name()}, nil
}

// IndexLyrics clears the index and bulk-loads the lyrics document.
//
// Without a document it returns [shared.ErrLyricsFileMissing] before making
// any remote call.
func (e *PipelineEngine) IndexLyrics(ctx context.Context, progress chan<- ProgressUpdate) (result *IndexResult, err error) {
	if !e.document.Exists() {
		return nil, fmt.Errorf("%w: %s", shared.ErrLyricsFileMissing, e.document.Path())
	}
	if e.index == nil {
		return nil, fmt.Errorf("%w: search index is not configured", shared.ErrServiceUnavailable)
	}

	started := time.Now()
	defer func() {
		items := 0
		if result != nil {
			items = result.Records
		}
		e.record(models.StepIndex, items, started, err)
	}()

	e.sendProgress(progress, clearIndexUpdate(e.index.Name()))
	task, err := e.index.Clear(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.wait(ctx, progress, ClearIndex, task); err != nil {
		return nil, err
	}

	songs, err := e.document.Load()
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, addRecordsUpdate(len(songs), e.index.Name()))
	task, err = e.index.AddObjects(ctx, songs)
	if err != nil {
		return nil, err
	}
	if err := e.wait(ctx, progress, AddRecords, task); err != nil {
		return nil, err
	}

	e.logger.Info("indexed lyrics", "step", models.StepIndex, "index", e.index.Name(), "records", len(songs))
	return &IndexResult{Records: len(songs), Index: e.index.Name()}, nil
}

// Setup runs every step in order and stops at the first error.
//
// A document written by a successful fetch is left in place when a later
// step fails.
func (e *PipelineEngine) Setup(ctx context.Context, progress chan<- ProgressUpdate) (*SetupResult, error) {
	result := &SetupResult{}

	fetched, err := e.FetchLyrics(ctx, progress)
	if err != nil {
		return result, err
	}
	result.Fetch = fetched

	synonyms, err := e.SetupEmoji(ctx, progress)
	if err != nil {
		return result, err
	}
	result.Synonyms = synonyms

	indexed, err := e.IndexLyrics(ctx, progress)
	if err != nil {
		return result, err
	}
	result.Index = indexed

	return result, nil
}

var _ Pipeline = (*PipelineEngine)(nil)
