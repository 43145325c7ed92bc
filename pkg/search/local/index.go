package local

import (
	"cmp"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/bornholm/searchbar/pkg/corpus"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/pkg/errors"
)

// Storage is the serialized form of an index.
type Storage struct {
	Entries []Entry `json:"entries"`
}

// Index is an in-memory search.Client scoring every post of a corpus
// against the query terms.
type Index struct {
	entries []Entry
	mutex   sync.RWMutex
}

type match struct {
	entry *Entry
	score int
}

// Search implements search.Client.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	terms := Tokenize(query)

	i.mutex.RLock()
	defer i.mutex.RUnlock()

	matches := make([]match, 0)
	for idx := range i.entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		entry := &i.entries[idx]

		score := entry.Score(terms)
		if score == 0 {
			continue
		}

		matches = append(matches, match{entry: entry, score: score})
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		return cmp.Compare(b.score, a.score)
	})

	results := make([]search.Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, search.Result{
			Title:       m.entry.Post.Title,
			URL:         m.entry.Post.URL,
			Description: m.entry.Post.Meta,
		})
	}

	results = search.Truncate(results, limit)

	slog.DebugContext(ctx, "local index searched", slog.String("query", query), slog.Int("matches", len(matches)), slog.Int("results", len(results)))

	return results, nil
}

// Replace rebuilds the index from the given posts.
func (i *Index) Replace(posts []corpus.Post) error {
	entries, err := buildEntries(posts)
	if err != nil {
		return errors.WithStack(err)
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.entries = entries

	return nil
}

// Len returns the number of indexed posts.
func (i *Index) Len() int {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	return len(i.entries)
}

// Save writes the index as JSON.
func (i *Index) Save(w io.Writer) error {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	encoder := json.NewEncoder(w)
	if err := encoder.Encode(Storage{Entries: i.entries}); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Load reads an index previously written with Save.
func Load(r io.Reader) (*Index, error) {
	var storage Storage

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&storage); err != nil {
		return nil, errors.WithStack(err)
	}

	for idx := range storage.Entries {
		storage.Entries[idx].titleTerms = Tokenize(storage.Entries[idx].Post.Title)
	}

	return &Index{entries: storage.Entries}, nil
}

// Build indexes the given posts.
func Build(posts []corpus.Post) (*Index, error) {
	entries, err := buildEntries(posts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Index{entries: entries}, nil
}

func buildEntries(posts []corpus.Post) ([]Entry, error) {
	entries := make([]Entry, 0, len(posts))
	for _, p := range posts {
		entry, err := NewEntry(p)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

var _ search.Client = &Index{}
