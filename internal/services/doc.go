// Package services defines the [LyricsProvider] and [SearchIndex] ports and implements them for Genius and Algolia.
//
// # Genius
//
// [GeniusService] authenticates with a static bearer token through an
// [oauth2.Client]. Album tracklists are paginated server-side and walked until
// next_page is null. The Genius API does not return lyrics, so
// [GeniusService.Song] downloads the song's web page and hands it to
// [ExtractLyrics].
//
// # Algolia
//
// [AlgoliaIndex] wraps an Algolia index. Algolia accepts writes immediately
// and applies them asynchronously; each mutation returns a [Task] that
// [AlgoliaIndex.Wait] polls until it is published.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrMissingCredentials] : client constructed without its credentials
//   - [shared.ErrAPIRequest] : transport failure or non-2xx response
//   - [shared.ErrLyricsNotFound] : song page without a lyrics container
//   - [shared.ErrTaskFailed] : waiting on an index task failed
package services
