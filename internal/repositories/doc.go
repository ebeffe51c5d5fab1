// Package repositories implements the two pieces of local state hamilmoji keeps.
//
//   - [LyricsStore] : the lyrics document, a JSON array of songs on disk that
//     the fetcher writes and the indexer reads. Writes delete the previous
//     document first, so the file is always the latest fetch and never a merge.
//   - [JobRepository] : the optional sqlite journal of executed pipeline steps,
//     one row per step with its outcome and item count.
package repositories
