package query

import (
	"bytes"
	"context"
	"testing"

	"github.com/bornholm/searchbar/pkg/search"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var calls []string

	client := search.ClientFunc(func(ctx context.Context, query string, limit int) ([]search.Result, error) {
		calls = append(calls, query)
		require.Equal(t, 3, limit)

		return []search.Result{
			{Title: "Cats", URL: "https://example.org/cats"},
			{Title: "Kittens", URL: "https://example.org/kittens"},
		}, nil
	})

	markup, err := Run(context.Background(), client, "  cats ", 3)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Equal(t, []string{"cats"}, calls)
	require.Contains(t, markup, `<a href="https://example.org/cats">Cats</a>`)

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, markup); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Contains(t, buf.String(), "[Cats](https://example.org/cats)")
	require.Contains(t, buf.String(), "[Kittens](https://example.org/kittens)")
}

func TestRunEmptyQuery(t *testing.T) {
	client := search.ClientFunc(func(ctx context.Context, query string, limit int) ([]search.Result, error) {
		t.Fatal("client must not be called")
		return nil, nil
	})

	markup, err := Run(context.Background(), client, "   ", 5)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, markup); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Empty(t, buf.String())
}

func TestRunFailure(t *testing.T) {
	client := search.ClientFunc(func(ctx context.Context, query string, limit int) ([]search.Result, error) {
		return nil, errors.New("backend down")
	})

	_, err := Run(context.Background(), client, "cats", 5)
	require.Error(t, err)
}
