package xanoapi_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xano-community/xano-mcp/internal/adapter/outbound/xanoapi"
	"github.com/xano-community/xano-mcp/internal/domain"
)

func TestLogObserver_QuietWithoutDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	obs := xanoapi.NewLogObserver(logger)

	ctx := obs.OnRequest(context.Background(), xanoapi.RequestInfo{Method: "GET", URL: "https://x.n7c.xano.io/api:meta/workspace"})
	obs.OnResponse(ctx, xanoapi.ResponseInfo{Method: "GET", URL: "https://x.n7c.xano.io/api:meta/workspace", Status: 200})

	assert.Empty(t, buf.String(), "non-debug calls stay below Info level")
}

func TestLogObserver_DebugFlagRaisesLevel(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	obs := xanoapi.NewLogObserver(logger)

	ctx := domain.WithDebug(context.Background())
	ctx = obs.OnRequest(ctx, xanoapi.RequestInfo{Method: "POST", URL: "https://x.n7c.xano.io/api:meta/workspace", Body: `{"name":"widget"}`})
	obs.OnResponse(ctx, xanoapi.ResponseInfo{Method: "POST", URL: "https://x.n7c.xano.io/api:meta/workspace", Status: 200})

	out := buf.String()
	assert.Contains(out, "Dispatching API request.")
	assert.Contains(out, "API request completed.")
	assert.Contains(out, "status=200")
}

func TestLogObserver_ErrorsIncludeResponseExcerpt(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := xanoapi.NewLogObserver(logger)

	longBody := strings.Repeat("x", 300)
	obs.OnResponse(context.Background(), xanoapi.ResponseInfo{
		Method: "GET",
		URL:    "https://x.n7c.xano.io/api:meta/workspace",
		Status: 404,
		Body:   longBody,
		Err:    domain.NewStatusError(404),
	})

	out := buf.String()
	assert.Contains(out, "API request failed with status 404")
	assert.Contains(out, strings.Repeat("x", 200)+"...")
	assert.NotContains(out, strings.Repeat("x", 201))
}

func TestLogObserver_TruncatesOutboundBody(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := xanoapi.NewLogObserver(logger)

	long := strings.Repeat("a", 600)
	obs.OnRequest(context.Background(), xanoapi.RequestInfo{Method: "POST", URL: "https://x", Body: long})

	out := buf.String()
	assert.Contains(out, strings.Repeat("a", 500)+"...")
	assert.NotContains(out, strings.Repeat("a", 501))
}
