package scraper

import (
	"net/http"
	"sync"
)

var (
	defaultScraper Scraper = NewHTTPScraper(http.DefaultClient)
	defaultMutex   sync.RWMutex
)

// SetDefault replaces the scraper used by the backends created without an
// explicit one.
func SetDefault(scraper Scraper) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()

	defaultScraper = scraper
}

func DefaultScraper() Scraper {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()

	return defaultScraper
}
