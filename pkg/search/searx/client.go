package searx

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/searchbar/pkg/scraper"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/gocolly/colly"
	"github.com/pkg/errors"
)

const DefaultInstancesURL = "https://searx.space/data/instances.json"

// searchEnginesOperators maps the searx bang operators to the engine names
// reported by searx.space.
var searchEnginesOperators = map[string]string{
	"ddg": "duckduckgo",
	"go":  "google",
	"bi":  "bing",
	"br":  "brave",
	"qw":  "qwant",
}

var ErrNoInstance = errors.New("no available instance")

type Client struct {
	instancesURL string
	instanceURL  *url.URL
	language     string
	maxRetries   int
	httpClient   *http.Client
}

// Search implements search.Client.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	ignored := make([]string, 0)
	retries := 0
	for {
		serverURL, err := c.getInstanceURL(ctx, query, ignored...)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		results, err := c.doSearch(ctx, serverURL, query)
		if err == nil && len(results) > 0 {
			return search.Truncate(results, limit), nil
		}

		if retries >= c.maxRetries || c.instanceURL != nil {
			if err != nil {
				return nil, errors.WithStack(err)
			}

			return results, nil
		}

		slog.DebugContext(ctx, "searx instance failed, trying another one", slog.String("instance", serverURL.String()), slog.Any("error", err))

		retries++
		ignored = append(ignored, serverURL.String())

		select {
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		case <-time.After(time.Duration(rand.Float64() * float64(time.Second))):
		}
	}
}

func (c *Client) getInstanceURL(ctx context.Context, query string, ignored ...string) (*url.URL, error) {
	if c.instanceURL != nil {
		return c.instanceURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.instancesURL, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Body.Close()

	var instances Instances
	if err := json.NewDecoder(res.Body).Decode(&instances); err != nil {
		return nil, errors.WithStack(err)
	}

	bestURL, found := selectInstance(instances, query, ignored)
	if !found {
		return nil, errors.WithStack(ErrNoInstance)
	}

	instanceURL, err := url.Parse(bestURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instanceURL, nil
}

// selectInstance returns the fastest healthy instance supporting the engines
// requested with bang operators in the query.
func selectInstance(instances Instances, query string, ignored []string) (string, bool) {
	var bestInstance *Instance
	var bestURL string

	// Sorted iteration keeps the selection deterministic between equal instances
	urls := make([]string, 0, len(instances.Instances))
	for u := range instances.Instances {
		urls = append(urls, u)
	}
	slices.Sort(urls)

	for _, u := range urls {
		inst := instances.Instances[u]

		if slices.Contains(ignored, u) {
			continue
		}

		if !supportsOperators(inst, query) {
			continue
		}

		if inst.HTTP.StatusCode != http.StatusOK || inst.NetworkType != "normal" || inst.Timing.SearchGo.SuccessPercentage < 80 {
			continue
		}

		if bestInstance == nil || isBetter(inst, *bestInstance) {
			bestURL = u
			bestInstance = &inst
		}
	}

	return bestURL, bestInstance != nil
}

// isBetter prefers the fastest instance, then the one with the most engines.
func isBetter(inst Instance, best Instance) bool {
	instMean, bestMean := inst.Timing.Search.All.Mean, best.Timing.Search.All.Mean
	if instMean != bestMean {
		return instMean < bestMean
	}

	return len(inst.Engines) > len(best.Engines)
}

func supportsOperators(inst Instance, query string) bool {
	for operator, name := range searchEnginesOperators {
		if !strings.Contains(query, "!"+operator) {
			continue
		}

		engine, included := inst.Engines[name]
		if !included || engine.ErrorRate > 50 {
			return false
		}
	}

	return true
}

func (c *Client) doSearch(ctx context.Context, serverURL *url.URL, query string) ([]search.Result, error) {
	searchURL := serverURL.JoinPath("/search")

	values := searchURL.Query()
	values.Set("q", query)
	if c.language != "" {
		values.Set("language", c.language)
	}
	searchURL.RawQuery = values.Encode()

	slog.DebugContext(ctx, "executing search", slog.String("url", searchURL.String()))

	var results []search.Result

	collector := colly.NewCollector(
		colly.UserAgent(scraper.DefaultUserAgent),
	)

	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	})

	collector.OnHTML("body", func(h *colly.HTMLElement) {
		h.DOM.Find(".result").Each(func(i int, s *goquery.Selection) {
			link := s.Find("h3 > a[href]")

			href := link.AttrOr("href", "")
			if href == "" {
				return
			}

			title := strings.TrimSpace(link.Text())
			if title == "" {
				return
			}

			results = append(results, search.Result{
				Title:       title,
				Description: strings.TrimSpace(s.Find(".content").Text()),
				URL:         href,
			})
		})
	})

	collector.OnRequest(func(r *colly.Request) {
		if c.language != "" {
			r.Headers.Set("Accept-Language", c.language)
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Pragma", "no-cache")
		r.Headers.Set("Cache-Control", "no-cache")
	})

	if err := collector.Visit(searchURL.String()); err != nil {
		return nil, errors.WithStack(err)
	}

	return results, nil
}

type OptionFunc func(c *Client)

// WithInstance disables the instance discovery and always queries the given
// instance.
func WithInstance(u *url.URL) OptionFunc {
	return func(c *Client) {
		c.instanceURL = u
	}
}

func WithInstancesURL(u string) OptionFunc {
	return func(c *Client) {
		c.instancesURL = u
	}
}

func WithLanguage(language string) OptionFunc {
	return func(c *Client) {
		c.language = language
	}
}

func WithMaxRetries(maxRetries int) OptionFunc {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

func WithHTTPClient(client *http.Client) OptionFunc {
	return func(c *Client) {
		c.httpClient = client
	}
}

func NewClient(funcs ...OptionFunc) *Client {
	c := &Client{
		instancesURL: DefaultInstancesURL,
		maxRetries:   3,
		httpClient:   http.DefaultClient,
	}

	for _, fn := range funcs {
		fn(c)
	}

	return c
}

var _ search.Client = &Client{}
