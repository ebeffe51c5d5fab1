package tasks

import (
	"strings"

	"github.com/desertthunder/hamilmoji/internal/models"
)

// KeywordSeparator splits the keywords field of an emoji entry.
const KeywordSeparator = "|"

// BuildSynonyms turns emoji entries into regular synonym rules.
//
// Each rule is keyed by the entry's codes, lists its trimmed keywords in
// dataset order and ends with the glyph itself.
func BuildSynonyms(entries []models.EmojiEntry) []models.Synonym {
	synonyms := make([]models.Synonym, 0, len(entries))
	for _, e := range entries {
		words := SplitKeywords(e.Keywords)
		synonyms = append(synonyms, models.Synonym{
			ObjectID: e.Codes,
			Type:     models.SynonymType,
			Synonyms: append(words, e.Char),
		})
	}
	return synonyms
}

// SplitKeywords splits a pipe-delimited keyword list and trims each token.
//
// Blank tokens are dropped rather than sent as empty synonyms, so an empty
// list yields no words and "a||b" yields [a b].
func SplitKeywords(keywords string) []string {
	parts := strings.Split(keywords, KeywordSeparator)
	words := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if w := strings.TrimSpace(p); w != "" {
			words = append(words, w)
		}
	}
	return words
}
