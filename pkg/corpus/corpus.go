package corpus

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

// Post is a searchable document of the corpus.
type Post struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
	Meta  string `yaml:"meta,omitempty" json:"meta,omitempty"`
	Body  string `yaml:"body,omitempty" json:"body,omitempty"`
}

type document struct {
	Posts []Post `yaml:"posts"`
}

var ErrInvalidPost = errors.New("invalid post")

// Parse decodes a YAML corpus document.
func Parse(r io.Reader) ([]Post, error) {
	var doc document

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []Post{}, nil
		}

		return nil, errors.WithStack(err)
	}

	for i, p := range doc.Posts {
		if strings.TrimSpace(p.Title) == "" {
			return nil, errors.Wrapf(ErrInvalidPost, "post #%d has no title", i)
		}

		if strings.TrimSpace(p.URL) == "" {
			return nil, errors.Wrapf(ErrInvalidPost, "post #%d ('%s') has no url", i, p.Title)
		}
	}

	if doc.Posts == nil {
		return []Post{}, nil
	}

	return doc.Posts, nil
}

// Load reads and parses the corpus file at the given path.
func Load(path string) ([]Post, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer file.Close()

	posts, err := Parse(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse corpus '%s'", path)
	}

	return posts, nil
}
