package local

import (
	"slices"

	"github.com/FastFilter/xorfilter"
	"github.com/bornholm/searchbar/pkg/corpus"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// TitleWeight is the score given to each query term found in a post title.
const TitleWeight = 3

// Entry is an indexed post: its identity and a probabilistic membership
// filter over the terms of its body.
type Entry struct {
	Post   corpus.Post      `json:"post"`
	Filter *xorfilter.Xor8 `json:"filter,omitempty"`

	titleTerms []string
}

// NewEntry builds the filter of the given post.
func NewEntry(post corpus.Post) (Entry, error) {
	entry := Entry{Post: post}

	terms := Tokenize(post.Body)
	if len(terms) > 0 {
		keys := make([]uint64, 0, len(terms))
		seen := make(map[uint64]struct{}, len(terms))
		for _, t := range terms {
			k := hashTerm(t)
			if _, exists := seen[k]; exists {
				continue
			}

			seen[k] = struct{}{}
			keys = append(keys, k)
		}

		filter, err := xorfilter.Populate(keys)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "could not build filter for post '%s'", post.URL)
		}

		entry.Filter = filter
	}

	entry.titleTerms = Tokenize(post.Title)

	return entry, nil
}

// Score returns the relevance of the entry for the given query terms.
// Each term found in the title weights TitleWeight, each term probably
// present in the body weights 1.
func (e *Entry) Score(terms []string) int {
	titleScore := 0
	bodyScore := 0
	for _, t := range terms {
		if slices.Contains(e.titleTerms, t) {
			titleScore++
		}

		if e.Filter != nil && e.Filter.Contains(hashTerm(t)) {
			bodyScore++
		}
	}

	return TitleWeight*titleScore + bodyScore
}

func hashTerm(term string) uint64 {
	return xxhash.Sum64String(term)
}
