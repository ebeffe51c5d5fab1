// Package tasks runs the hamilmoji pipeline with real-time progress reporting.
//
// # Core Operations
//
// The [Pipeline] interface defines four operations:
//
//  1. [Pipeline.FetchLyrics] : album tracklist -> lyrics document
//     - Fetches the tracklist from the lyrics provider
//     - Fetches every song concurrently; one failure fails the step
//     - Replaces the document on disk with the songs in tracklist order
//
//  2. [Pipeline.SetupEmoji] : emoji dataset -> index synonyms
//     - Builds one synonym rule per emoji (see [BuildSynonyms])
//     - Replaces every synonym on the index and waits for the task
//
//  3. [Pipeline.IndexLyrics] : lyrics document -> index records
//     - Refuses to start without a document ([shared.ErrLyricsFileMissing])
//     - Clears the index, waits, uploads every song, waits
//
//  4. [Pipeline.Setup] : the three above in order, stopping at the first error
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select
// with default so a slow or absent reader never blocks a step.
//
// # Job Journal
//
// The optional [JobRecorder] receives one [models.Job] per finished step.
// Recorder errors are ignored.
package tasks
