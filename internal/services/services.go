// package services defines the ports for the two remote APIs hamilmoji talks to
//
// Genius (lyrics), Algolia (search index)
package services

import (
	"context"

	"github.com/desertthunder/hamilmoji/internal/models"
)

// LyricsProvider retrieves album tracklists and song lyrics.
type LyricsProvider interface {
	// Album retrieves album metadata together with its complete tracklist.
	Album(ctx context.Context, albumID int64) (*models.Album, error)

	// Song retrieves a single song including its full lyrics text.
	Song(ctx context.Context, songID int64) (*models.Song, error)

	// Name returns the name of the provider (e.g., "Genius")
	Name() string
}

// SearchIndex is a hosted full-text index that applies mutations asynchronously.
//
// Every mutation returns a [Task] handle. The mutation is only guaranteed to be
// visible once [SearchIndex.Wait] has returned nil for that handle.
type SearchIndex interface {
	// ReplaceSynonyms uploads synonyms and discards every rule not in the set.
	ReplaceSynonyms(ctx context.Context, synonyms []models.Synonym) (Task, error)

	// Clear removes every record from the index. Synonyms are kept.
	Clear(ctx context.Context) (Task, error)

	// AddObjects uploads songs as new records with service-generated object IDs.
	AddObjects(ctx context.Context, songs []models.Song) (Task, error)

	// Wait blocks until every task in the handle has been published.
	Wait(ctx context.Context, task Task) error

	// Name returns the index name.
	Name() string
}

// Task identifies one or more asynchronous index tasks.
//
// A bulk upload is split into several batches server-side, so a single
// logical mutation can map to several task IDs.
type Task struct {
	IDs []int64
}
