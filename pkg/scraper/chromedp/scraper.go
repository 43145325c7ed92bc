package chromedp

import (
	"bytes"
	"context"
	"io"

	"github.com/bornholm/searchbar/pkg/scraper"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"

	cu "github.com/Davincible/chromedp-undetected"
)

// Scraper renders pages in a (possibly headless) Chrome instance, for result
// pages generated client side.
type Scraper struct {
	chromeCtx    context.Context
	cancelChrome context.CancelFunc
}

// Check implements scraper.Scraper.
func (s *Scraper) Check(ctx context.Context, url string) (bool, error) {
	tabCtx, cancel := s.newTab(ctx)
	defer cancel()

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return true, nil
}

// Get implements scraper.Scraper.
func (s *Scraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	tabCtx, cancel := s.newTab(ctx)
	defer cancel()

	var html string

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			res, err := dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			html = res

			return nil
		}),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return io.NopCloser(bytes.NewBufferString(html)), nil
}

// newTab opens a new browser tab, closed when either the caller context or
// the returned cancel function ends.
func (s *Scraper) newTab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, cancelTab := chromedp.NewContext(s.chromeCtx)

	stop := context.AfterFunc(ctx, cancelTab)

	return tabCtx, func() {
		stop()
		cancelTab()
	}
}

func (s *Scraper) Close() {
	s.cancelChrome()
}

type Options struct {
	Headless bool
	Proxy    string
}

func NewScraper(opts Options) (*Scraper, error) {
	options := []cu.Option{}
	if opts.Headless {
		options = append(options, cu.WithHeadless())
	}

	if opts.Proxy != "" {
		options = append(options, cu.WithChromeFlags(chromedp.ProxyServer(opts.Proxy)))
	}

	chromeCtx, cancelChrome, err := cu.New(cu.NewConfig(options...))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Scraper{
		chromeCtx:    chromeCtx,
		cancelChrome: cancelChrome,
	}, nil
}

var _ scraper.Scraper = &Scraper{}
