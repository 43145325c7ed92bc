package searchbar

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDocumentRender(t *testing.T) {
	doc, err := NewDocument()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	doc.Append("stale", "https://example.org/stale")

	Render(doc, []search.Result{
		{Title: "Cats & <dogs>", URL: "https://example.org/cats?a=1&b=2"},
		{Title: "Kittens", URL: "https://example.org/kittens"},
	})

	require.Equal(t, 2, doc.Len())

	markup, err := doc.HTML()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)

	links := parsed.Find("#searchResults > li > a")
	require.Equal(t, 2, links.Length())
	require.Equal(t, "Cats & <dogs>", links.Eq(0).Text())
	require.Equal(t, "https://example.org/cats?a=1&b=2", links.Eq(0).AttrOr("href", ""))
	require.Equal(t, "Kittens", links.Eq(1).Text())

	results, err := doc.ResultsHTML()
	require.NoError(t, err)
	require.NotContains(t, results, "<dogs>")
}

func TestDocumentQuery(t *testing.T) {
	doc, err := NewDocument()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Equal(t, "", doc.Value())

	doc.SetQuery("  cats  ")
	require.Equal(t, "  cats  ", doc.Value())

	client := &recordingClient{results: []search.Result{{Title: "Cats", URL: "https://example.org/cats"}}}
	NewDispatcher(client, doc, doc).Dispatch(context.Background())

	require.Equal(t, []call{{Query: "cats", Limit: DefaultLimit}}, client.calls)
	require.Equal(t, 1, doc.Len())
}

func TestParseDocumentMissingElements(t *testing.T) {
	_, err := ParseDocument(strings.NewReader(`<html><body><input id="searchInput"></body></html>`))
	require.ErrorIs(t, err, ErrMissingElement)

	_, err = ParseDocument(strings.NewReader(`<html><body><ul id="searchResults"></ul></body></html>`))
	require.ErrorIs(t, err, ErrMissingElement)
}
