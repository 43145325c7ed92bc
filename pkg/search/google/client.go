package google

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bornholm/searchbar/pkg/search"
	"github.com/pkg/errors"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxNum is the maximum number of results the Custom Search API returns per call.
const maxNum = 10

// Client implements the search.Client interface using Google Custom Search API.
type Client struct {
	apiKey  string
	cx      string
	options []option.ClientOption

	initOnce sync.Once
	service  *customsearch.Service
	initErr  error
}

// Search implements the search.Client interface.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	service, err := c.getService(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	num := int64(maxNum)
	if limit > 0 && limit < maxNum {
		num = int64(limit)
	}

	slog.DebugContext(ctx, "executing search", slog.String("query", query), slog.Int64("num", num))

	searchResult, err := service.Cse.List().
		Q(query).
		Cx(c.cx).
		Num(num).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]search.Result, 0, len(searchResult.Items))
	for _, item := range searchResult.Items {
		results = append(results, search.Result{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
		})
	}

	return search.Truncate(results, limit), nil
}

func (c *Client) getService(ctx context.Context) (*customsearch.Service, error) {
	c.initOnce.Do(func() {
		options := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.options...)
		// The service outlives the first request context
		c.service, c.initErr = customsearch.NewService(context.WithoutCancel(ctx), options...)
	})

	if c.initErr != nil {
		return nil, errors.WithStack(c.initErr)
	}

	return c.service, nil
}

// NewClient creates a new Google Custom Search API client.
func NewClient(apiKey, cx string, options ...option.ClientOption) *Client {
	return &Client{
		apiKey:  apiKey,
		cx:      cx,
		options: options,
	}
}

var _ search.Client = &Client{}
