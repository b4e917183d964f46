// Package http wraps the portal's HTTP transport: one long-lived session,
// endpoint resolution against the base URL and status checking.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs GET requests against a fixed base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
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

// WithTimeout sets a per-request timeout on the underlying client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// Request is a single API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	URL        string
}

// NewClient creates a client rooted at baseURL. baseURL must be absolute;
// a trailing slash is added so relative endpoints resolve beneath it.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sgdata.ErrInvalidBaseURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", sgdata.ErrInvalidBaseURL, baseURL)
	}

	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    parsed,
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient.RequestLogHook = client.logRequest
	retryClient.ResponseLogHook = client.logResponse

	return client, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ResolveURL joins the base URL with a relative endpoint path and query.
func (c *Client) ResolveURL(path string, query url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing path %q: %w", path, err)
	}

	resolved := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		resolved.RawQuery = query.Encode()
	}

	return resolved.String(), nil
}

// Do sends req and reads the whole response. A non-2xx status is returned as
// a *sgdata.RequestError together with the response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL, err := c.ResolveURL(req.Path, req.Query)
	if err != nil {
		return nil, c.transportError(method, req.Path, err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, c.transportError(method, fullURL, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil && httpResp.Body != nil {
			_ = httpResp.Body.Close()
		}

		return nil, c.transportError(method, fullURL, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.transportError(method, fullURL, fmt.Errorf("reading response body: %w", err))
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		URL:        fullURL,
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, statusError(method, fullURL, resp)
	}

	return resp, nil
}

// Get sends a GET request for path with query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

func (c *Client) transportError(method, target string, err error) *sgdata.RequestError {
	return &sgdata.RequestError{
		Kind:   sgdata.FailureTransport,
		Method: method,
		URL:    target,
		Err:    err,
	}
}

func statusError(method, target string, resp *Response) *sgdata.RequestError {
	body := resp.Body
	if len(body) > constants.MaxErrorBodySize {
		body = body[:constants.MaxErrorBodySize]
	}

	return &sgdata.RequestError{
		Kind:       sgdata.FailureStatus,
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
		Err:        fmt.Errorf("%w: status %d", sgdata.ErrRequestFailed, resp.StatusCode),
	}
}

// errorMessage extracts the portal's "error" field, falling back to the raw body.
func errorMessage(body []byte) string {
	var payload map[string]interface{}

	err := json.Unmarshal(body, &payload)
	if err == nil {
		if msg, ok := payload[constants.FieldError].(string); ok {
			return msg
		}
	}

	return strings.TrimSpace(string(body))
}

// noRetry never retries; the first outcome is final.
func noRetry(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, err
}

func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"attempt": attempt,
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	})
}
