// Package apiclient is the typed client for the Acteezer REST API. Each
// backend resource group gets a thin service façade over one shared
// configured transport; responses are decoded and classified, pagination
// envelopes are unwrapped, and nothing is cached or retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
	"github.com/alvinseyidov/acteezer-web/pkg/httpclient"
)

type tokenKeyType struct{}

var tokenKey tokenKeyType

// WithToken returns a context carrying the visitor's API token. Requests
// made with this context send it as the Authorization header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext extracts the API token from the context, or "".
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}
	return ""
}

// Client is the shared base for all resource services: base URL, transport,
// and auth header injection.
type Client struct {
	baseURL string
	doer    httpclient.Doer
}

// New creates a client for the API rooted at baseURL (including any path
// prefix, e.g. "http://localhost:8000/api").
func New(baseURL string, doer httpclient.Doer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
	}
}

// BaseURL returns the configured API root, for reachability checks.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins the API root with a relative path and optional query.
// Only parameters present in values end up in the query string.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do executes one request. The token from context, when present, is sent
// as a DRF token Authorization header; without a token the header is
// omitted entirely. Non-2xx responses are consumed and classified; the
// caller only ever sees a successful response or a classified error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode >= 400 {
		return nil, httpclient.ParseResponseError(resp)
	}
	return resp, nil
}

// classifyTransportError keeps already-classified errors as-is and folds
// circuit breaker rejections and breaker-consumed 5xx responses into the
// server error class.
func classifyTransportError(err error) error {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if errors.Is(err, httpclient.ErrCircuitOpen) {
		return apperrors.Server(http.StatusServiceUnavailable, "upstream API temporarily unavailable")
	}
	return apperrors.Server(http.StatusBadGateway, err.Error())
}

// getJSON issues a GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// postJSON issues a POST with an optional JSON body and decodes the
// response into out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		_ = resp.Body.Close()
		return nil
	}
	return decodeBody(resp, out)
}

// putJSON issues a PUT with a JSON body and decodes the response into out.
func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// delete issues a DELETE and decodes the response into out when non-nil.
func (c *Client) delete(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if out == nil {
		_ = resp.Body.Close()
		return nil
	}
	return decodeBody(resp, out)
}

func decodeBody(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// paginated mirrors the API's list envelope. Only Results is consumed;
// the client reads first pages only and never follows Next.
type paginated struct {
	Results json.RawMessage `json:"results"`
}

// getList issues a GET for a list endpoint and returns the item sequence.
// When the API wraps results in a pagination envelope the inner sequence
// is unwrapped transparently; bare arrays pass through. Callers never see
// the envelope shape.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env paginated
	if err := json.Unmarshal(body, &env); err == nil && env.Results != nil {
		body = env.Results
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}
