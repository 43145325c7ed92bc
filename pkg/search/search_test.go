package search

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	results := []Result{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	require.Len(t, Truncate(results, 2), 2)
	require.Len(t, Truncate(results, 5), 3)
	require.Len(t, Truncate(results, 0), 3)
	require.Len(t, Truncate(results, -1), 3)
}

func TestRetry(t *testing.T) {
	var calls atomic.Int32

	client := ClientFunc(func(ctx context.Context, query string, limit int) ([]Result, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("unavailable")
		}

		return []Result{{Title: query, URL: "https://example.org"}}, nil
	})

	results, err := WithRetry(client, 3, time.Millisecond).Search(context.Background(), "cats", 5)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, []Result{{Title: "cats", URL: "https://example.org"}}, results)
}

func TestRetryExhausted(t *testing.T) {
	var calls atomic.Int32

	client := ClientFunc(func(ctx context.Context, query string, limit int) ([]Result, error) {
		calls.Add(1)
		return nil, errors.New("unavailable")
	})

	_, err := WithRetry(client, 2, 0).Search(context.Background(), "cats", 5)
	require.Error(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := ClientFunc(func(ctx context.Context, query string, limit int) ([]Result, error) {
		cancel()
		return nil, errors.New("unavailable")
	})

	_, err := WithRetry(client, 5, time.Hour).Search(ctx, "cats", 5)
	require.Error(t, err)
}

func TestExclusions(t *testing.T) {
	client := ClientFunc(func(ctx context.Context, query string, limit int) ([]Result, error) {
		return []Result{
			{Title: "Cats", URL: "https://example.org/cats"},
			{Title: "Spam", URL: "https://spam.example.com/cats"},
			{Title: "Dogs", URL: "https://example.org/dogs"},
		}, nil
	})

	excluded, err := WithExclusions(client, "https://spam.*")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	results, err := excluded.Search(context.Background(), "cats", 5)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Len(t, results, 2)
	require.Equal(t, "Cats", results[0].Title)
	require.Equal(t, "Dogs", results[1].Title)
}

func TestExclusionsInvalidPattern(t *testing.T) {
	_, err := WithExclusions(ClientFunc(nil), "[")
	require.Error(t, err)
}
