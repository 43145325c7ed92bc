package setup

import (
	"context"
	"log/slog"
	"net/url"
	"os"

	"github.com/bornholm/searchbar/internal/config"
	"github.com/bornholm/searchbar/pkg/corpus"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/bornholm/searchbar/pkg/search/bleve"
	"github.com/bornholm/searchbar/pkg/search/duckduckgo"
	"github.com/bornholm/searchbar/pkg/search/google"
	"github.com/bornholm/searchbar/pkg/search/local"
	"github.com/bornholm/searchbar/pkg/search/meta"
	"github.com/bornholm/searchbar/pkg/search/searx"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Replacer is implemented by the backends indexing the corpus.
type Replacer interface {
	Replace(posts []corpus.Post) error
}

// Engine is the search.Client assembled from the configuration.
type Engine struct {
	search.Client

	replacers []Replacer
	closers   []func()
}

// Replace reindexes the corpus in every backend depending on it.
func (e *Engine) Replace(posts []corpus.Post) error {
	var err error
	for _, r := range e.replacers {
		if rErr := r.Replace(posts); rErr != nil {
			err = multierror.Append(err, errors.WithStack(rErr))
		}
	}

	return err
}

// Indexed reports whether at least one backend indexes the corpus.
func (e *Engine) Indexed() bool {
	return len(e.replacers) > 0
}

func (e *Engine) Close() {
	for _, fn := range e.closers {
		fn()
	}
}

// NewEngine creates the backends listed in the configuration and wraps them
// with the configured decorators.
func NewEngine(ctx context.Context, conf *config.Config) (*Engine, error) {
	engine := &Engine{}

	var (
		posts       []corpus.Post
		postsLoaded bool
	)

	loadPosts := func() ([]corpus.Post, error) {
		if postsLoaded {
			return posts, nil
		}

		loaded, err := corpus.Load(conf.Corpus.Path)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		slog.InfoContext(ctx, "corpus loaded", slog.String("path", conf.Corpus.Path), slog.Int("posts", len(loaded)))

		posts, postsLoaded = loaded, true

		return posts, nil
	}

	clients := make([]search.Client, 0, len(conf.Backends))

	for _, b := range conf.Backends {
		client, err := engine.newBackend(ctx, conf, b, loadPosts)
		if err != nil {
			engine.Close()
			return nil, errors.Wrapf(err, "could not create backend '%s'", b.Kind)
		}

		clients = append(clients, client)
	}

	var client search.Client
	if len(clients) == 1 {
		client = clients[0]
	} else {
		client = meta.NewClient(clients...)
	}

	if conf.Retry.MaxRetries > 0 {
		client = search.WithRetry(client, conf.Retry.MaxRetries, conf.Retry.BaseDelay)
	}

	if len(conf.Exclude) > 0 {
		excluded, err := search.WithExclusions(client, conf.Exclude...)
		if err != nil {
			engine.Close()
			return nil, errors.WithStack(err)
		}

		client = excluded
	}

	engine.Client = client

	return engine, nil
}

func (e *Engine) newBackend(ctx context.Context, conf *config.Config, backend config.Backend, loadPosts func() ([]corpus.Post, error)) (search.Client, error) {
	switch backend.Kind {
	case config.BackendLocal:
		index, err := newLocalIndex(conf.Corpus, loadPosts)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		e.replacers = append(e.replacers, index)

		return index, nil

	case config.BackendBleve:
		posts, err := loadPosts()
		if err != nil {
			return nil, errors.WithStack(err)
		}

		index, err := bleve.NewIndex(posts)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		e.replacers = append(e.replacers, index)
		e.closers = append(e.closers, func() {
			if err := index.Close(); err != nil {
				slog.ErrorContext(ctx, "could not close bleve index", slog.Any("error", errors.WithStack(err)))
			}
		})

		return index, nil

	case config.BackendDuckDuckGo:
		s, closeScraper, err := NewScraper(conf.Scraper)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		e.closers = append(e.closers, closeScraper)

		return duckduckgo.NewClient(s), nil

	case config.BackendGoogle:
		if backend.Google == nil {
			return nil, errors.New("missing google configuration")
		}

		return google.NewClient(backend.Google.APIKey, backend.Google.CX), nil

	case config.BackendSearx:
		funcs := []searx.OptionFunc{}

		if backend.Searx != nil {
			if backend.Searx.Instance != "" {
				instanceURL, err := url.Parse(backend.Searx.Instance)
				if err != nil {
					return nil, errors.WithStack(err)
				}

				funcs = append(funcs, searx.WithInstance(instanceURL))
			}

			if backend.Searx.InstancesURL != "" {
				funcs = append(funcs, searx.WithInstancesURL(backend.Searx.InstancesURL))
			}

			if backend.Searx.Language != "" {
				funcs = append(funcs, searx.WithLanguage(backend.Searx.Language))
			}
		}

		return searx.NewClient(funcs...), nil

	default:
		return nil, errors.Errorf("unknown backend kind '%s'", backend.Kind)
	}
}

// newLocalIndex loads the prebuilt index when configured, the corpus
// otherwise.
func newLocalIndex(conf config.Corpus, loadPosts func() ([]corpus.Post, error)) (*local.Index, error) {
	if conf.Index != "" {
		file, err := os.Open(conf.Index)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		defer file.Close()

		index, err := local.Load(file)
		if err != nil {
			return nil, errors.Wrapf(err, "could not load index '%s'", conf.Index)
		}

		return index, nil
	}

	posts, err := loadPosts()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	index, err := local.Build(posts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return index, nil
}
