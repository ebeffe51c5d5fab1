// Package models defines the records that flow through the hamilmoji pipeline.
//
// Provider data:
//   - [Album] and [Track] : the album's tracklist as returned by the lyrics provider
//   - [Song] : one flattened lyrics record, the element type of the lyrics document
//
// Search data:
//   - [EmojiEntry] : one entry of the emoji keyword dataset
//   - [Synonym] : a search-engine synonym rule derived from an [EmojiEntry]
//
// Bookkeeping:
//   - [Job] : one row of the optional sqlite job journal
package models
