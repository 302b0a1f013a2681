package xanoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/xano-community/xano-mcp/internal/domain"
)

// Client implements the usecase.Dispatcher interface against the Xano meta
// API. It is the one place where request dispatch, response normalization,
// and error surfacing happen; tool handlers only build request values and
// hand them in.
type Client struct {
	client    *http.Client
	logger    *slog.Logger
	observers []Observer
}

// New creates a Client. Observers are invoked in order around every
// dispatch; passing none disables observation entirely.
func New(client *http.Client, logger *slog.Logger, observers ...Observer) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		client:    client,
		logger:    logger.With("component", "xano_api"),
		observers: observers,
	}
}

// Dispatch executes exactly one outbound request and returns either the
// decoded JSON body or a *domain.APIError. Transport faults, non-200
// statuses, and undecodable bodies are all converted at this boundary; the
// caller never sees anything but the two result shapes.
func (c *Client) Dispatch(ctx context.Context, req domain.APIRequest) (any, error) {
	httpReq, info, buildErr := buildRequest(ctx, req)
	if buildErr != nil {
		return nil, buildErr
	}

	for _, o := range c.observers {
		ctx = o.OnRequest(ctx, info)
	}
	httpReq = httpReq.WithContext(ctx)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		apiErr := &domain.APIError{Message: err.Error()}
		c.notify(ctx, ResponseInfo{Method: info.Method, URL: info.URL, Err: apiErr, Duration: time.Since(start)})
		return nil, apiErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := &domain.APIError{Message: err.Error()}
		c.notify(ctx, ResponseInfo{Method: info.Method, URL: info.URL, Status: resp.StatusCode, Err: apiErr, Duration: time.Since(start)})
		return nil, apiErr
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := domain.NewStatusError(resp.StatusCode)
		c.notify(ctx, ResponseInfo{Method: info.Method, URL: info.URL, Status: resp.StatusCode, Body: string(body), Err: apiErr, Duration: time.Since(start)})
		return nil, apiErr
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		apiErr := &domain.APIError{Message: "failed to parse response as JSON"}
		c.notify(ctx, ResponseInfo{Method: info.Method, URL: info.URL, Status: resp.StatusCode, Body: string(body), Err: apiErr, Duration: time.Since(start)})
		return nil, apiErr
	}

	c.notify(ctx, ResponseInfo{Method: info.Method, URL: info.URL, Status: resp.StatusCode, Duration: time.Since(start)})
	return decoded, nil
}

func (c *Client) notify(ctx context.Context, info ResponseInfo) {
	for _, o := range c.observers {
		o.OnResponse(ctx, info)
	}
}

// buildRequest turns a request variant into the matching *http.Request.
// Rejections here (unknown variant, marshal failure, malformed URL) happen
// before anything touches the network and before observers fire.
func buildRequest(ctx context.Context, req domain.APIRequest) (*http.Request, RequestInfo, *domain.APIError) {
	switch r := req.(type) {
	case domain.GetRequest:
		target := r.URL
		if len(r.Query) > 0 {
			values := url.Values{}
			for k, v := range r.Query {
				values.Set(k, v)
			}
			target += "?" + values.Encode()
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
		}
		applyHeaders(httpReq, r.Headers)
		return httpReq, RequestInfo{Method: http.MethodGet, URL: target}, nil

	case domain.PostRequest:
		return jsonRequest(ctx, http.MethodPost, r.URL, r.Headers, r.Body)

	case domain.PutRequest:
		return jsonRequest(ctx, http.MethodPut, r.URL, r.Headers, r.Body)

	case domain.PatchRequest:
		return jsonRequest(ctx, http.MethodPatch, r.URL, r.Headers, r.Body)

	case domain.DeleteRequest:
		return jsonRequest(ctx, http.MethodDelete, r.URL, r.Headers, r.Body)

	case domain.MultipartRequest:
		return multipartRequest(ctx, r)

	default:
		return nil, RequestInfo{}, &domain.APIError{Message: fmt.Sprintf("unsupported request type %T", req)}
	}
}

func jsonRequest(ctx context.Context, method, target string, headers map[string]string, body any) (*http.Request, RequestInfo, *domain.APIError) {
	var payload []byte
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
		}
		payload = data
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
	}
	applyHeaders(httpReq, headers)
	return httpReq, RequestInfo{Method: method, URL: target, Body: string(payload)}, nil
}

func multipartRequest(ctx context.Context, r domain.MultipartRequest) (*http.Request, RequestInfo, *domain.APIError) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range r.Fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
		}
	}
	for _, f := range r.Files {
		part, err := writer.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, &buf)
	if err != nil {
		return nil, RequestInfo{}, &domain.APIError{Message: err.Error()}
	}
	applyHeaders(httpReq, r.Headers)
	// The boundary content type must win over whatever the caller set.
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	return httpReq, RequestInfo{Method: http.MethodPost, URL: r.URL}, nil
}

func applyHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
