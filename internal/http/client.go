// Package http implements the transport adapter for the Data API:
// request building, bearer injection, retries, and deadline mapping.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fmdata-io/fmdata-client/internal/constants"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// TokenProvider supplies the bearer token attached to every request.
// Returning an error aborts the request before it is sent.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Request is one Data API call. Body is marshaled to JSON; RawBody,
// when set, is sent verbatim with ContentType and takes precedence.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Headers     map[string]string
	Body        interface{}
	RawBody     io.Reader
	ContentType string
}

// Response is the raw result of a Data API call. Status interpretation
// is left to the dispatcher; the service reports errors through the
// response envelope even on non-2xx statuses.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client sends Data API requests against one server.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *retryablehttp.Client
	logger     fmdata.Logger
	debug      bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger fmdata.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables transport-level retries for connection
// errors, 5xx, and 429 responses.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the transport-level request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a transport client for the given server base URL.
// A nil token provider sends requests without authentication; the
// session endpoints use that mode.
func NewClient(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.RetryWaitMin = constants.DefaultRetryWaitMin
	httpClient.RetryWaitMax = constants.DefaultRetryWaitMax
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// The service reports errors through the response envelope, often
	// with 5xx statuses. Hand the final response back instead of
	// replacing it with a giving-up error.
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: httpClient,
		userAgent:  "fmdata-client/1.0",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do sends a request and returns the raw response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)

	switch {
	case req.RawBody != nil:
		body = req.RawBody
		contentType = req.ContentType
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-Id", requestID)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":     req.Method,
			"path":       req.Path,
			"request_id": requestID,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":     httpResp.StatusCode,
			"path":       req.Path,
			"request_id": requestID,
			"bytes":      len(respBody),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// GetURL sends a GET to an absolute URL outside the Data API path
// space. Container objects live behind such URLs: the URL carries its
// own access token, so no bearer header is attached, and the server
// answers with a redirect that sets a cookie the follow-up request
// must present, so the call runs with its own cookie jar.
func (c *Client) GetURL(ctx context.Context, rawURL string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	download := &http.Client{
		Timeout: c.httpClient.HTTPClient.Timeout,
		Jar:     jar,
	}

	httpResp, err := download.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// mapTransportError surfaces deadline expiry as fmdata.ErrTimeout so
// callers can distinguish it from other transport failures. State is
// never mutated on timeout; the request may still complete server-side.
func mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", fmdata.ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", fmdata.ErrTimeout, err)
	}

	return fmt.Errorf("sending request: %w", err)
}
