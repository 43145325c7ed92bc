package duckduckgo

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/searchbar/pkg/scraper"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/pkg/errors"
)

var ErrCaptcha = errors.New("captcha challenge")

var baseURL = url.URL{
	Scheme: "https",
	Host:   "html.duckduckgo.com",
	Path:   "/html/",
}

type Client struct {
	scraper scraper.Scraper
	baseURL url.URL
}

// Search implements search.Client.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	searchURL := c.baseURL

	values := searchURL.Query()
	values.Set("q", query)
	searchURL.RawQuery = values.Encode()

	slog.DebugContext(ctx, "scraping duckduckgo results", slog.String("url", searchURL.String()))

	body, err := c.scraper.Get(ctx, searchURL.String())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if doc.Find("#challenge-form").Length() > 0 {
		return nil, errors.WithStack(ErrCaptcha)
	}

	if doc.Find(".no-results").Length() > 0 {
		return []search.Result{}, nil
	}

	resultElements := doc.Find(".result")
	if resultElements.Length() == 0 {
		return nil, errors.Errorf("unexpected result:\n%s", doc.Text())
	}

	results := make([]search.Result, 0, resultElements.Length())

	resultElements.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if limit > 0 && len(results) >= limit {
			return false
		}

		if s.HasClass("result--ad") {
			return true
		}

		title := strings.TrimSpace(s.Find(".result__title").Text())
		if title == "" {
			return true
		}

		link := resultURL(s.Find(".result__a").AttrOr("href", ""))
		if link == "" {
			return true
		}

		results = append(results, search.Result{
			Title:       title,
			Description: strings.TrimSpace(s.Find(".result__snippet").Text()),
			URL:         link,
		})

		return true
	})

	return results, nil
}

// resultURL extracts the target of a duckduckgo redirection link. Direct
// links are returned as is.
func resultURL(rawLink string) string {
	if rawLink == "" {
		return ""
	}

	link, err := url.Parse(rawLink)
	if err != nil {
		return ""
	}

	if target := link.Query().Get("uddg"); target != "" {
		return target
	}

	if link.IsAbs() {
		return link.String()
	}

	return ""
}

type OptionFunc func(c *Client)

// WithBaseURL overrides the duckduckgo HTML endpoint.
func WithBaseURL(u url.URL) OptionFunc {
	return func(c *Client) {
		c.baseURL = u
	}
}

func NewClient(s scraper.Scraper, funcs ...OptionFunc) *Client {
	if s == nil {
		s = scraper.DefaultScraper()
	}

	c := &Client{
		scraper: s,
		baseURL: baseURL,
	}

	for _, fn := range funcs {
		fn(c)
	}

	return c
}

var _ search.Client = &Client{}
