package serve

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bornholm/searchbar/internal/config"
	"github.com/bornholm/searchbar/internal/setup"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWatchCorpusReindexes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.yml")

	require.NoError(t, os.WriteFile(path, []byte(`
posts:
  - title: Cats
    url: https://example.org/cats
`), 0644))

	conf := config.Default()
	conf.Corpus.Path = path
	conf.Backends = []config.Backend{{Kind: config.BackendLocal}, {Kind: config.BackendBleve}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := setup.NewEngine(ctx, conf)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer engine.Close()

	if err := watchCorpus(ctx, path, engine); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.NoError(t, os.WriteFile(path, []byte(`
posts:
  - title: Dogs
    url: https://example.org/dogs
`), 0644))

	// Every backend drops the previous posts
	require.Eventually(t, func() bool {
		dogs, err := engine.Search(ctx, "dogs", 5)
		if err != nil || len(dogs) != 1 || dogs[0].URL != "https://example.org/dogs" {
			return false
		}

		cats, err := engine.Search(ctx, "cats", 5)
		return err == nil && len(cats) == 0
	}, 5*time.Second, 50*time.Millisecond)
}
