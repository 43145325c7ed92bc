package meta

import (
	"context"
	"testing"
	"time"

	se "github.com/bornholm/searchbar/pkg/search"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func staticClient(delay time.Duration, results ...se.Result) se.Client {
	return se.ClientFunc(func(ctx context.Context, query string, limit int) ([]se.Result, error) {
		time.Sleep(delay)
		return se.Truncate(results, limit), nil
	})
}

func failingClient() se.Client {
	return se.ClientFunc(func(ctx context.Context, query string, limit int) ([]se.Result, error) {
		return nil, errors.New("boom")
	})
}

func TestClientMergesInOrder(t *testing.T) {
	client := NewClient(
		staticClient(20*time.Millisecond, se.Result{Title: "A", URL: "https://a"}, se.Result{Title: "B", URL: "https://b"}),
		staticClient(0, se.Result{Title: "B'", URL: "https://b"}, se.Result{Title: "C", URL: "https://c"}),
	)

	results, err := client.Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Equal(t, []se.Result{
		{Title: "A", URL: "https://a"},
		{Title: "B", URL: "https://b"},
		{Title: "C", URL: "https://c"},
	}, results)
}

func TestClientLimit(t *testing.T) {
	client := NewClient(
		staticClient(0, se.Result{URL: "https://a"}, se.Result{URL: "https://b"}),
		staticClient(0, se.Result{URL: "https://c"}, se.Result{URL: "https://d"}),
	)

	results, err := client.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Len(t, results, 3)
}

func TestClientPartialFailure(t *testing.T) {
	client := NewClient(failingClient(), staticClient(0, se.Result{URL: "https://a"}))

	results, err := client.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestClientTotalFailure(t *testing.T) {
	client := NewClient(failingClient(), failingClient())

	_, err := client.Search(context.Background(), "query", 5)
	require.Error(t, err)
}
