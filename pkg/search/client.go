package search

import "context"

// Client is a search capability returning at most limit results
// when limit is strictly positive.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Truncate returns the first limit results. A limit lower or equal to zero
// disables truncation.
func Truncate(results []Result, limit int) []Result {
	if limit <= 0 || len(results) <= limit {
		return results
	}

	return results[:limit]
}

// ClientFunc adapts an ordinary function to the Client interface.
type ClientFunc func(ctx context.Context, query string, limit int) ([]Result, error)

// Search implements Client.
func (fn ClientFunc) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	return fn(ctx, query, limit)
}

var _ Client = ClientFunc(nil)
