package setup

import (
	"net/http"

	"github.com/bornholm/searchbar/internal/config"
	"github.com/bornholm/searchbar/pkg/scraper"
	"github.com/bornholm/searchbar/pkg/scraper/chromedp"
	"github.com/bornholm/searchbar/pkg/scraper/surf"
	"github.com/pkg/errors"
)

// NewScraper creates the configured scraper. The returned function releases
// its resources.
func NewScraper(conf config.Scraper) (scraper.Scraper, func(), error) {
	switch conf.Kind {
	case config.ScraperHTTP, "":
		funcs := []scraper.HTTPScraperOptionFunc{}
		if conf.UserAgent != "" {
			funcs = append(funcs, scraper.WithUserAgent(conf.UserAgent))
		}

		client := &http.Client{
			Timeout:   conf.Timeout,
			Transport: http.DefaultTransport,
		}

		return scraper.NewHTTPScraper(client, funcs...), func() {}, nil

	case config.ScraperSurf:
		funcs := []surf.OptionFunc{}
		if conf.Proxy != "" {
			funcs = append(funcs, surf.WithProxy(conf.Proxy))
		}
		if conf.Timeout > 0 {
			funcs = append(funcs, surf.WithTimeout(conf.Timeout))
		}

		return surf.NewScraper(funcs...), func() {}, nil

	case config.ScraperChromedp:
		s, err := chromedp.NewScraper(chromedp.Options{
			Headless: conf.Headless,
			Proxy:    conf.Proxy,
		})
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}

		return s, s.Close, nil

	default:
		return nil, nil, errors.Errorf("unknown scraper kind '%s'", conf.Kind)
	}
}
