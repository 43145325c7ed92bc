package scraper

import (
	"context"
	"io"
)

// Scraper fetches remote documents for the web search backends.
type Scraper interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
	Check(ctx context.Context, url string) (bool, error)
}

// DefaultUserAgent is sent by the scrapers that do not impersonate a browser.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
