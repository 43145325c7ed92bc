package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buff bytes.Buffer

	handler, err := NewHandler(&buff, FormatJSON, slog.LevelDebug)
	require.NoError(t, err)

	logger := slog.New(handler)

	ctx := WithAttrs(context.Background(), slog.String("request_id", "abc"))
	ctx = WithAttrs(ctx, slog.String("query", "cats"))

	logger.InfoContext(ctx, "search dispatched")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buff.Bytes(), &record))
	require.Equal(t, "search dispatched", record["msg"])
	require.Equal(t, "abc", record["request_id"])
	require.Equal(t, "cats", record["query"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelWarn, ParseLevel("unknown"))
}

func TestNewHandlerUnknownFormat(t *testing.T) {
	_, err := NewHandler(&bytes.Buffer{}, Format("xml"), slog.LevelInfo)
	require.Error(t, err)
}
