package surf

import (
	"context"
	"io"
	"time"

	"github.com/bornholm/searchbar/pkg/scraper"
	"github.com/enetx/g"
	"github.com/enetx/surf"
	"github.com/pkg/errors"
)

// Scraper impersonates a desktop browser to fetch pages that reject
// plain HTTP clients.
type Scraper struct {
	proxy      string
	timeout    time.Duration
	maxRetries int
	retryWait  time.Duration
}

// Check implements scraper.Scraper.
func (s *Scraper) Check(ctx context.Context, url string) (bool, error) {
	client := s.getClient()
	resp := client.Get(g.String(url)).WithContext(ctx).Do()
	if resp.IsErr() {
		return false, errors.WithStack(resp.Err())
	}

	return resp.IsOk(), nil
}

// Get implements scraper.Scraper.
func (s *Scraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	client := s.getClient()
	resp := client.Get(g.String(url)).WithContext(ctx).Do()
	if resp.IsErr() {
		return nil, errors.WithStack(resp.Err())
	}

	return resp.Ok().Body.Reader, nil
}

func (s *Scraper) getClient() *surf.Client {
	builder := surf.NewClient().
		Builder()

	if s.proxy != "" {
		builder = builder.Proxy(s.proxy)
	}

	builder = builder.Impersonate().RandomOS().Chrome().
		Timeout(s.timeout).
		Retry(s.maxRetries, s.retryWait).
		Session()

	return builder.Build()
}

type OptionFunc func(s *Scraper)

// WithProxy routes the requests through the given proxy URL.
func WithProxy(proxy string) OptionFunc {
	return func(s *Scraper) {
		s.proxy = proxy
	}
}

func WithTimeout(timeout time.Duration) OptionFunc {
	return func(s *Scraper) {
		s.timeout = timeout
	}
}

func WithRetry(maxRetries int, wait time.Duration) OptionFunc {
	return func(s *Scraper) {
		s.maxRetries = maxRetries
		s.retryWait = wait
	}
}

func NewScraper(funcs ...OptionFunc) *Scraper {
	s := &Scraper{
		timeout:    30 * time.Second,
		maxRetries: 5,
		retryWait:  5 * time.Second,
	}

	for _, fn := range funcs {
		fn(s)
	}

	return s
}

var _ scraper.Scraper = &Scraper{}
