package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	conf, err := Parse(strings.NewReader(`
http:
  address: 0.0.0.0:9000
corpus:
  path: data/posts.yml
  watch: true
backends:
  - kind: bleve
  - kind: google
    google:
      apiKey: key
      cx: engine
retry:
  maxRetries: 2
  baseDelay: 500ms
exclude:
  - "https://spam.*"
`))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Equal(t, "0.0.0.0:9000", conf.HTTP.Address)
	require.True(t, conf.Corpus.Watch)
	require.Len(t, conf.Backends, 2)
	require.Equal(t, BackendGoogle, conf.Backends[1].Kind)
	require.Equal(t, "engine", conf.Backends[1].Google.CX)
	require.Equal(t, 500*time.Millisecond, conf.Retry.BaseDelay)
	require.Equal(t, []string{"https://spam.*"}, conf.Exclude)

	// Defaults are kept for unspecified values
	require.Equal(t, 5, conf.Limit)
	require.Equal(t, ScraperHTTP, conf.Scraper.Kind)
}

func TestParseEmpty(t *testing.T) {
	conf, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, Default(), conf)
}

func TestParseInvalid(t *testing.T) {
	testCases := []string{
		"backends: []",
		"limit: 0",
		"backends:\n  - kind: altavista",
		"backends:\n  - kind: google",
		"scraper:\n  kind: curl",
		"unknownField: true",
	}

	for _, tc := range testCases {
		_, err := Parse(strings.NewReader(tc))
		require.Error(t, err, tc)
	}
}

func TestDump(t *testing.T) {
	var buff bytes.Buffer
	require.NoError(t, Dump(&buff, Default()))

	conf, err := Parse(&buff)
	require.NoError(t, err)
	require.Equal(t, Default(), conf)
}

func TestWriteSchema(t *testing.T) {
	var buff bytes.Buffer
	require.NoError(t, WriteSchema(&buff))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(buff.Bytes(), &schema))
	require.Contains(t, schema, "properties")
}

func TestLoadSample(t *testing.T) {
	conf, err := Load("../../misc/config.yml")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	require.Len(t, conf.Backends, 3)
	require.Equal(t, 30*time.Second, conf.Scraper.Timeout)
}
