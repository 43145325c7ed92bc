package duckduckgo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/bornholm/searchbar/pkg/scraper"
	"github.com/bornholm/searchbar/pkg/scraper/surf"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="result result--ad">
  <h2 class="result__title"><a class="result__a" href="https://ads.example.com">Ad</a></h2>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org%2Fcats">Cats</a></h2>
  <a class="result__snippet">All about cats</a>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="https://example.org/kittens">Kittens</a></h2>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="https://example.org/lions">Lions</a></h2>
</div>
</body></html>`

func newTestClient(t *testing.T, page string) *Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cats", r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, page)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL + "/html/")
	require.NoError(t, err)

	return NewClient(scraper.NewHTTPScraper(server.Client()), WithBaseURL(*u))
}

func TestClientParse(t *testing.T) {
	client := newTestClient(t, resultsPage)

	results, err := client.Search(context.Background(), "cats", 2)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Len(t, results, 2)
	require.Equal(t, "Cats", results[0].Title)
	require.Equal(t, "https://example.org/cats", results[0].URL)
	require.Equal(t, "All about cats", results[0].Description)
	require.Equal(t, "https://example.org/kittens", results[1].URL)
}

func TestClientCaptcha(t *testing.T) {
	client := newTestClient(t, `<html><body><form id="challenge-form"></form></body></html>`)

	_, err := client.Search(context.Background(), "cats", 5)
	require.ErrorIs(t, err, ErrCaptcha)
}

func TestClient(t *testing.T) {
	if os.Getenv("SEARCHBAR_NETWORK_TESTS") != "1" {
		t.Skip("set SEARCHBAR_NETWORK_TESTS=1 to run")
	}

	client := NewClient(surf.NewScraper())

	ctx := context.Background()

	results, err := client.Search(ctx, "golang site:go.dev", 5)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	spew.Dump(results)
}
