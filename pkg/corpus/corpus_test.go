package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const sample = `
posts:
  - title: All about cats
    url: https://example.org/cats
    meta: felines
    body: Cats purr and sleep a lot.
  - title: Dogs
    url: https://example.org/dogs
`

func TestParse(t *testing.T) {
	posts, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Len(t, posts, 2)
	require.Equal(t, Post{
		Title: "All about cats",
		URL:   "https://example.org/cats",
		Meta:  "felines",
		Body:  "Cats purr and sleep a lot.",
	}, posts[0])
}

func TestParseEmpty(t *testing.T) {
	posts, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(strings.NewReader("posts:\n  - title: No url\n"))
	require.ErrorIs(t, err, ErrInvalidPost)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.yml")

	require.NoError(t, os.WriteFile(path, []byte("posts: []\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []Post, 10)
	err := Watch(ctx, path, func(posts []Post) {
		changes <- posts
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case posts := <-changes:
			if len(posts) == 2 {
				return
			}
		case <-timeout:
			t.Fatal("corpus change was not detected")
		}
	}
}
