package scraper

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// maxErrorBody restricts the error body kept in error messages to 4MB.
const maxErrorBody = 4e+6

type HTTPScraper struct {
	client    *http.Client
	userAgent string
}

// Check implements scraper.Scraper.
func (s *HTTPScraper) Check(ctx context.Context, url string) (bool, error) {
	res, err := s.do(ctx, http.MethodHead, url)
	if err != nil {
		return false, errors.WithStack(err)
	}

	defer res.Body.Close()

	return isSuccess(res), nil
}

// Get implements scraper.Scraper.
func (s *HTTPScraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	res, err := s.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !isSuccess(res) {
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return nil, errors.Errorf("unexpected response http status %d (%s):\n%s", res.StatusCode, res.Status, body)
	}

	return res.Body, nil
}

func (s *HTTPScraper) do(ctx context.Context, method string, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return res, nil
}

func isSuccess(res *http.Response) bool {
	return res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusBadRequest
}

type HTTPScraperOptionFunc func(s *HTTPScraper)

func WithUserAgent(userAgent string) HTTPScraperOptionFunc {
	return func(s *HTTPScraper) {
		s.userAgent = userAgent
	}
}

func NewHTTPScraper(client *http.Client, funcs ...HTTPScraperOptionFunc) *HTTPScraper {
	s := &HTTPScraper{
		client:    client,
		userAgent: DefaultUserAgent,
	}

	for _, fn := range funcs {
		fn(s)
	}

	return s
}

var _ Scraper = &HTTPScraper{}
