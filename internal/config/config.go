package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

type BackendKind string

const (
	BackendLocal      BackendKind = "local"
	BackendBleve      BackendKind = "bleve"
	BackendDuckDuckGo BackendKind = "duckduckgo"
	BackendGoogle     BackendKind = "google"
	BackendSearx      BackendKind = "searx"
)

type ScraperKind string

const (
	ScraperHTTP     ScraperKind = "http"
	ScraperSurf     ScraperKind = "surf"
	ScraperChromedp ScraperKind = "chromedp"
)

type Config struct {
	HTTP     HTTP      `yaml:"http" json:"http" jsonschema:"description=HTTP server settings"`
	Corpus   Corpus    `yaml:"corpus" json:"corpus" jsonschema:"description=Posts indexed by the local and bleve backends"`
	Scraper  Scraper   `yaml:"scraper" json:"scraper" jsonschema:"description=Scraper used by the duckduckgo backend"`
	Backends []Backend `yaml:"backends" json:"backends" jsonschema:"description=Search backends queried concurrently"`
	Retry    Retry     `yaml:"retry" json:"retry"`
	Exclude  []string  `yaml:"exclude,omitempty" json:"exclude,omitempty" jsonschema:"description=Glob patterns of result URLs to drop"`
	Limit    int       `yaml:"limit" json:"limit" jsonschema:"description=Number of results requested per query,minimum=1"`
}

type HTTP struct {
	Address        string   `yaml:"address" json:"address"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" json:"allowedOrigins,omitempty" jsonschema:"description=Origin patterns accepted on the live search websocket"`
}

type Corpus struct {
	Path  string `yaml:"path,omitempty" json:"path,omitempty" jsonschema:"description=YAML corpus file"`
	Index string `yaml:"index,omitempty" json:"index,omitempty" jsonschema:"description=Prebuilt local index file used instead of the corpus by the local backend"`
	Watch bool   `yaml:"watch" json:"watch" jsonschema:"description=Reload the corpus when the file changes"`
}

type Scraper struct {
	Kind      ScraperKind   `yaml:"kind" json:"kind" jsonschema:"enum=http,enum=surf,enum=chromedp"`
	UserAgent string        `yaml:"userAgent,omitempty" json:"userAgent,omitempty"`
	Proxy     string        `yaml:"proxy,omitempty" json:"proxy,omitempty"`
	Headless  bool          `yaml:"headless" json:"headless"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

type Backend struct {
	Kind   BackendKind `yaml:"kind" json:"kind" jsonschema:"enum=local,enum=bleve,enum=duckduckgo,enum=google,enum=searx"`
	Google *Google     `yaml:"google,omitempty" json:"google,omitempty"`
	Searx  *Searx      `yaml:"searx,omitempty" json:"searx,omitempty"`
}

type Google struct {
	APIKey string `yaml:"apiKey" json:"apiKey"`
	CX     string `yaml:"cx" json:"cx" jsonschema:"description=Programmable search engine identifier"`
}

type Searx struct {
	Instance     string `yaml:"instance,omitempty" json:"instance,omitempty" jsonschema:"description=Fixed instance URL used instead of the instance discovery"`
	InstancesURL string `yaml:"instancesURL,omitempty" json:"instancesURL,omitempty"`
	Language     string `yaml:"language,omitempty" json:"language,omitempty"`
}

type Retry struct {
	MaxRetries int           `yaml:"maxRetries" json:"maxRetries" jsonschema:"minimum=0"`
	BaseDelay  time.Duration `yaml:"baseDelay" json:"baseDelay"`
}

// Default returns a configuration searching the local index of posts.yml.
func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Address: "127.0.0.1:8080",
		},
		Corpus: Corpus{
			Path: "posts.yml",
		},
		Scraper: Scraper{
			Kind:     ScraperHTTP,
			Headless: true,
			Timeout:  30 * time.Second,
		},
		Backends: []Backend{
			{Kind: BackendLocal},
		},
		Retry: Retry{
			MaxRetries: 0,
			BaseDelay:  time.Second,
		},
		Limit: 5,
	}
}

// Parse decodes a YAML configuration over the default one.
func Parse(r io.Reader) (*Config, error) {
	conf := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithStack(err)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	return conf, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	conf, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse configuration '%s'", path)
	}

	return conf, nil
}

// Dump writes the configuration as YAML.
func Dump(w io.Writer, conf *Config) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(conf); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(encoder.Close())
}

var ErrInvalidConfig = errors.New("invalid configuration")

func (c *Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.Wrap(ErrInvalidConfig, "at least one backend is required")
	}

	if c.Limit < 1 {
		return errors.Wrapf(ErrInvalidConfig, "limit must be strictly positive, got %d", c.Limit)
	}

	switch c.Scraper.Kind {
	case ScraperHTTP, ScraperSurf, ScraperChromedp:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown scraper kind '%s'", c.Scraper.Kind)
	}

	for i, b := range c.Backends {
		switch b.Kind {
		case BackendLocal, BackendBleve:
			if c.Corpus.Path == "" && (b.Kind == BackendBleve || c.Corpus.Index == "") {
				return errors.Wrapf(ErrInvalidConfig, "backend #%d (%s) requires a corpus", i, b.Kind)
			}
		case BackendGoogle:
			if b.Google == nil || b.Google.APIKey == "" || b.Google.CX == "" {
				return errors.Wrapf(ErrInvalidConfig, "backend #%d (google) requires an api key and a search engine id", i)
			}
		case BackendDuckDuckGo, BackendSearx:
		default:
			return errors.Wrapf(ErrInvalidConfig, "unknown backend kind '%s'", b.Kind)
		}
	}

	return nil
}
