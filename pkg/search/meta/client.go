package meta

import (
	"context"
	"log/slog"
	"sync"

	se "github.com/bornholm/searchbar/pkg/search"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Client queries all its clients concurrently and merges their results,
// keeping the clients order and the first occurrence of each URL.
type Client struct {
	clients []se.Client
}

// Search implements search.Client.
func (s *Client) Search(ctx context.Context, query string, limit int) ([]se.Result, error) {
	if len(s.clients) == 0 {
		return nil, errors.New("no search client configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	perClient := make([][]se.Result, len(s.clients))

	var errLock sync.Mutex
	var aggregatedErr error
	failures := 0

	var wg sync.WaitGroup

	wg.Add(len(s.clients))

	for i, c := range s.clients {
		go func(idx int, client se.Client) {
			defer wg.Done()

			results, err := client.Search(ctx, query, limit)
			if err != nil {
				errLock.Lock()
				aggregatedErr = multierror.Append(aggregatedErr, errors.WithStack(err))
				failures++
				errLock.Unlock()
				return
			}

			perClient[idx] = results
		}(i, c)
	}

	wg.Wait()

	if failures == len(s.clients) {
		return nil, aggregatedErr
	}

	if aggregatedErr != nil {
		slog.WarnContext(ctx, "some search clients failed", slog.Int("failures", failures), slog.Any("error", aggregatedErr))
	}

	merged := make([]se.Result, 0)
	seen := make(map[string]struct{})
	for _, results := range perClient {
		for _, r := range results {
			if _, exists := seen[r.URL]; exists {
				continue
			}

			merged = append(merged, r)
			seen[r.URL] = struct{}{}
		}
	}

	return se.Truncate(merged, limit), nil
}

func NewClient(clients ...se.Client) *Client {
	return &Client{
		clients: clients,
	}
}

var _ se.Client = &Client{}
