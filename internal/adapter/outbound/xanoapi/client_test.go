package xanoapi_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xano-community/xano-mcp/internal/adapter/outbound/xanoapi"
	"github.com/xano-community/xano-mcp/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler, observers ...xanoapi.Observer) (*xanoapi.Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := xanoapi.New(server.Client(), logger, observers...)
	return client, server
}

func testHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer test-token",
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}
}

func TestClient_Dispatch(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		mockHandler func(w http.ResponseWriter, r *http.Request)
		makeReq     func(base string) domain.APIRequest
		wantResult  any
		wantErr     *domain.APIError
	}{
		{
			name: "GET 200 passes decoded body through",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodGet, r.Method)
				assert.Equal("/api:meta/workspace", r.URL.Path)
				assert.Equal("Bearer test-token", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"id":1,"name":"default"}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.GetRequest{URL: base + "/api:meta/workspace", Headers: testHeaders()}
			},
			wantResult: map[string]any{"id": float64(1), "name": "default"},
		},
		{
			name: "GET encodes query values onto the URL",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal("2", r.URL.Query().Get("page"))
				assert.Equal("10", r.URL.Query().Get("per_page"))
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"items":[]}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.GetRequest{
					URL:     base + "/api:meta/workspace/1/table/2/content",
					Headers: testHeaders(),
					Query:   map[string]string{"page": "2", "per_page": "10"},
				}
			},
			wantResult: map[string]any{"items": []any{}},
		},
		{
			name: "POST 200 returns created record verbatim",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodPost, r.Method)
				assert.Equal("application/json", r.Header.Get("Content-Type"))
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(`{"name":"widget"}`, string(body))
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"id":42,"name":"widget"}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.PostRequest{
					URL:     base + "/api:meta/workspace/1/table/2/content",
					Headers: testHeaders(),
					Body:    map[string]any{"name": "widget"},
				}
			},
			wantResult: map[string]any{"id": float64(42), "name": "widget"},
		},
		{
			name: "PUT sends the updated record",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodPut, r.Method)
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(`{"name":"renamed"}`, string(body))
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"id":42,"name":"renamed"}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.PutRequest{
					URL:     base + "/api:meta/workspace/1/table/2/content/42",
					Headers: testHeaders(),
					Body:    map[string]any{"name": "renamed"},
				}
			},
			wantResult: map[string]any{"id": float64(42), "name": "renamed"},
		},
		{
			name: "PATCH sends the partial update",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodPatch, r.Method)
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(`{"name":"patched"}`, string(body))
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"id":42,"name":"patched"}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.PatchRequest{
					URL:     base + "/api:meta/workspace/1/table/2/content/42",
					Headers: testHeaders(),
					Body:    map[string]any{"name": "patched"},
				}
			},
			wantResult: map[string]any{"id": float64(42), "name": "patched"},
		},
		{
			name: "DELETE without body succeeds like any other method",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodDelete, r.Method)
				body, _ := io.ReadAll(r.Body)
				assert.Empty(body)
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.DeleteRequest{
					URL:     base + "/api:meta/workspace/1/table/2/content/42",
					Headers: testHeaders(),
				}
			},
			wantResult: map[string]any{},
		},
		{
			name: "DELETE with body transmits it",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodDelete, r.Method)
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(`{"row_ids":[1,2,3]}`, string(body))
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"deleted":3}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.DeleteRequest{
					URL:     base + "/api:meta/workspace/1/table/2/content/bulk/delete",
					Headers: testHeaders(),
					Body:    map[string]any{"row_ids": []int{1, 2, 3}},
				}
			},
			wantResult: map[string]any{"deleted": float64(3)},
		},
		{
			name: "404 maps to a status error regardless of body",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"message":"no such workspace"}`)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.GetRequest{URL: base + "/api:meta/workspace", Headers: testHeaders()}
			},
			wantErr: &domain.APIError{StatusCode: 404, Message: "API request failed with status 404"},
		},
		{
			name: "500 on POST maps to a status error",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, "boom")
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.PostRequest{
					URL:     base + "/api:meta/workspace/1/table/2/content/search",
					Headers: testHeaders(),
					Body:    map[string]any{"page": 1},
				}
			},
			wantErr: &domain.APIError{StatusCode: 500, Message: "API request failed with status 500"},
		},
		{
			name: "200 with a non-JSON body is a parse failure",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, "<html>oops</html>")
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.GetRequest{URL: base + "/api:meta/workspace", Headers: testHeaders()}
			},
			wantErr: &domain.APIError{Message: "failed to parse response as JSON"},
		},
		{
			name: "200 with an empty body is a parse failure",
			mockHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			makeReq: func(base string) domain.APIRequest {
				return domain.GetRequest{URL: base + "/api:meta/workspace", Headers: testHeaders()}
			},
			wantErr: &domain.APIError{Message: "failed to parse response as JSON"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t, http.HandlerFunc(tt.mockHandler))

			result, err := client.Dispatch(ctx, tt.makeReq(server.URL))

			if tt.wantErr != nil {
				require.Error(err)
				var apiErr *domain.APIError
				require.ErrorAs(err, &apiErr)
				assert.Equal(tt.wantErr.StatusCode, apiErr.StatusCode)
				assert.Equal(tt.wantErr.Message, apiErr.Message)
				assert.Nil(result)
			} else {
				require.NoError(err)
				assert.Equal(tt.wantResult, result)
			}
		})
	}
}

func TestClient_Dispatch_Multipart(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Contains(r.Header.Get("Content-Type"), "multipart/form-data")
		require.NoError(r.ParseMultipartForm(1 << 20))
		assert.Equal("image", r.FormValue("type"))

		file, header, err := r.FormFile("content")
		require.NoError(err)
		defer file.Close()
		assert.Equal("logo.png", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(err)
		assert.Equal(payload, data)

		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"path":"/files/logo.png"}`)
	}
	client, server := newTestClient(t, http.HandlerFunc(handler))

	// The JSON content type in the caller headers must not survive; the
	// multipart boundary has to win.
	result, err := client.Dispatch(context.Background(), domain.MultipartRequest{
		URL:     server.URL + "/api:meta/workspace/1/file",
		Headers: testHeaders(),
		Fields:  map[string]string{"type": "image"},
		Files:   []domain.FilePart{{Field: "content", FileName: "logo.png", Content: payload}},
	})

	require.NoError(err)
	assert.Equal(map[string]any{"path": "/files/logo.png"}, result)
}

func TestClient_Dispatch_UnsupportedRequest(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	result, err := client.Dispatch(context.Background(), nil)

	require.Error(err)
	var apiErr *domain.APIError
	require.ErrorAs(err, &apiErr)
	assert.Zero(apiErr.StatusCode)
	assert.Contains(apiErr.Message, "unsupported request type")
	assert.Nil(result)
	assert.Zero(calls.Load(), "no network call may be issued for an unsupported request")
}

func TestClient_Dispatch_TransportFault(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close() // nothing is listening anymore

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := xanoapi.New(&http.Client{}, logger)

	result, err := client.Dispatch(context.Background(), domain.GetRequest{
		URL:     target + "/api:meta/workspace",
		Headers: testHeaders(),
	})

	require.Error(err)
	var apiErr *domain.APIError
	require.ErrorAs(err, &apiErr)
	assert.Zero(apiErr.StatusCode)
	assert.NotEmpty(apiErr.Message)
	assert.Nil(result)
}

func TestClient_Dispatch_CancelledContext(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{}`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := client.Dispatch(ctx, domain.GetRequest{
		URL:     server.URL + "/api:meta/workspace",
		Headers: testHeaders(),
	})

	require.Error(err)
	var apiErr *domain.APIError
	require.ErrorAs(err, &apiErr)
	assert.Zero(apiErr.StatusCode)
	assert.Contains(apiErr.Message, "context canceled")
	assert.Nil(result)
}

type ctxMarker struct{}

type recordingObserver struct {
	requests  []xanoapi.RequestInfo
	responses []xanoapi.ResponseInfo
	sawMarker bool
}

func (o *recordingObserver) OnRequest(ctx context.Context, info xanoapi.RequestInfo) context.Context {
	o.requests = append(o.requests, info)
	return context.WithValue(ctx, ctxMarker{}, true)
}

func (o *recordingObserver) OnResponse(ctx context.Context, info xanoapi.ResponseInfo) {
	o.sawMarker = ctx.Value(ctxMarker{}) != nil
	o.responses = append(o.responses, info)
}

func TestClient_Dispatch_ObserverPoints(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	obs := &recordingObserver{}
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"ok":true}`)
	}), obs)

	_, err := client.Dispatch(context.Background(), domain.PostRequest{
		URL:     server.URL + "/api:meta/workspace",
		Headers: testHeaders(),
		Body:    map[string]string{"name": "widget"},
	})
	require.NoError(err)

	require.Len(obs.requests, 1)
	assert.Equal(http.MethodPost, obs.requests[0].Method)
	assert.Equal(server.URL+"/api:meta/workspace", obs.requests[0].URL)
	assert.JSONEq(`{"name":"widget"}`, obs.requests[0].Body)

	require.Len(obs.responses, 1)
	assert.Equal(http.StatusOK, obs.responses[0].Status)
	assert.Nil(obs.responses[0].Err)
	assert.True(obs.sawMarker, "context from OnRequest must reach OnResponse")
}

func TestClient_Dispatch_ObserverSeesFailure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	obs := &recordingObserver{}
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "gone")
	}), obs)

	_, err := client.Dispatch(context.Background(), domain.GetRequest{
		URL:     server.URL + "/api:meta/workspace",
		Headers: testHeaders(),
	})
	require.Error(err)

	require.Len(obs.responses, 1)
	assert.Equal(http.StatusNotFound, obs.responses[0].Status)
	assert.Equal("gone", obs.responses[0].Body)
	assert.ErrorContains(obs.responses[0].Err, "API request failed with status 404")
}
