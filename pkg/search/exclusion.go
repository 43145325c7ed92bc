package search

import (
	"context"
	"log/slog"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Exclusion drops the results whose URL matches one of its patterns.
type Exclusion struct {
	client   Client
	patterns []glob.Glob
}

// Search implements Client.
func (e *Exclusion) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	results, err := e.client.Search(ctx, query, limit)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if e.excluded(r.URL) {
			slog.DebugContext(ctx, "excluding search result", slog.String("url", r.URL))
			continue
		}

		filtered = append(filtered, r)
	}

	return Truncate(filtered, limit), nil
}

func (e *Exclusion) excluded(url string) bool {
	for _, p := range e.patterns {
		if p.Match(url) {
			return true
		}
	}

	return false
}

var _ Client = &Exclusion{}

// WithExclusions wraps the client so that results with an URL matching one of
// the given glob patterns are removed.
func WithExclusions(client Client, patterns ...string) (*Exclusion, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "could not compile exclusion pattern '%s'", p)
		}

		compiled = append(compiled, g)
	}

	return &Exclusion{client: client, patterns: compiled}, nil
}
