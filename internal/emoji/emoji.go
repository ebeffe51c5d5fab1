// package emoji loads the emoji keyword dataset used to build search synonyms
//
// The bundled emoji.json holds every fully-qualified emoji of Unicode 15.1 in
// the schema of the emoji.json npm package (codes, char, name, category,
// keywords). Another dataset in that schema can be configured with
// [shared.EmojiConfig.Path].
package emoji

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/shared"
)

//go:embed emoji.json
var bundled []byte

// Load decodes a JSON array of emoji entries.
//
// Every entry needs codes and char; keywords may be empty.
func Load(r io.Reader) ([]models.EmojiEntry, error) {
	var entries []models.EmojiEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidDataset, err)
	}

	for i, e := range entries {
		if e.Codes == "" || e.Char == "" {
			return nil, fmt.Errorf("%w: entry %d is missing codes or char", shared.ErrInvalidDataset, i)
		}
	}
	return entries, nil
}

// LoadFile reads the dataset at path.
func LoadFile(path string) ([]models.EmojiEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open emoji dataset: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Bundled returns the dataset compiled into the binary.
func Bundled() []models.EmojiEntry {
	entries, err := Load(bytes.NewReader(bundled))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded emoji dataset: %v", err))
	}
	return entries
}

// Source returns a loader for the dataset at path, or for the bundled dataset when path is empty.
func Source(path string) func() ([]models.EmojiEntry, error) {
	if path == "" {
		return func() ([]models.EmojiEntry, error) { return Bundled(), nil }
	}
	return func() ([]models.EmojiEntry, error) { return LoadFile(path) }
}
