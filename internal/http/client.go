// Package http is the transport used by the endpoint clients. It wraps
// go-retryablehttp, attaches authentication and default headers, runs the
// interceptor chain and turns non-2xx answers into coda.RequestFailedError.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/coda-client/internal/auth"
	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
	"github.com/hashicorp/go-retryablehttp"
)

// Request describes one API call. Path is relative to the client base URL.
// Body is sent as is when it is a []byte, otherwise it is JSON-encoded.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Client performs requests against a single API base URL.
type Client struct {
	baseURL      *url.URL
	baseErr      error
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	userAgent    string
	logger       coda.Logger
	debug        bool
	interceptors *coda.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger coda.Logger) Option {
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

// WithRetryConfig enables transport retries for connection errors, 429 and 5xx.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPTimeout sets the overall timeout of each HTTP attempt.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithInterceptors adds a chain that runs after authentication is applied.
func WithInterceptors(chain *coda.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport for baseURL. A nil token manager sends
// unauthenticated requests.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.RetryWaitMin = constants.DefaultRetryWaitMin
	httpClient.RetryWaitMax = constants.DefaultRetryWaitMax
	httpClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.Logger = nil

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
	}

	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		client.baseErr = fmt.Errorf("%w: %q", coda.ErrInvalidBaseURL, baseURL)
	} else {
		client.baseURL = parsed
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger != nil && client.debug {
		httpClient.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

// Err reports a base URL that could not be parsed at construction.
func (c *Client) Err() error {
	return c.baseErr
}

// Do executes req. A non-2xx status returns both the response and a
// *coda.RequestFailedError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.baseErr != nil {
		return nil, c.baseErr
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	intercepted, err := c.prepare(ctx, req, body)
	if err != nil {
		return nil, err
	}

	fullURL := c.baseURL.String() + ensureLeadingSlash(req.Path)
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var rawBody interface{}
	if intercepted.Body != nil {
		rawBody = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = intercepted.Headers

	c.debugLog("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    fullURL,
	})

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		_ = c.runResponseInterceptors(ctx, intercepted, &coda.Response{Error: err})

		return nil, fmt.Errorf("executing %s %s: %w", req.Method, req.Path, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := NewResponse(httpResp.StatusCode, httpResp.Header, respBody)

	c.debugLog("HTTP Response", map[string]interface{}{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	interceptErr := c.runResponseInterceptors(ctx, intercepted, &coda.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	})
	if interceptErr != nil {
		return resp, interceptErr
	}

	if !resp.IsSuccess() {
		return resp, &coda.RequestFailedError{Status: resp.StatusCode, Body: resp.Text()}
	}

	return resp, nil
}

func (c *Client) prepare(ctx context.Context, req *Request, body []byte) (*coda.Request, error) {
	intercepted := &coda.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
		Body:    body,
	}

	intercepted.Headers.Set("Accept", "application/json")
	intercepted.Headers.Set("User-Agent", c.userAgent)

	if body != nil {
		intercepted.Headers.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	if c.tokenManager != nil {
		err := coda.AuthenticationInterceptor(c.tokenManager.GetToken)(ctx, intercepted)
		if err != nil {
			return nil, err
		}
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	return intercepted, nil
}

func (c *Client) runResponseInterceptors(ctx context.Context, req *coda.Request, resp *coda.Response) error {
	return c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
}

func (c *Client) debugLog(msg string, fields map[string]interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// GetLink follows a server-issued continuation link. See ResolveLink.
func (c *Client) GetLink(ctx context.Context, link string) (*Response, error) {
	path, query, err := c.ResolveLink(link)
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, path, query)
}

// ResolveLink splits a continuation link into a path relative to the base
// URL and its query. Absolute links must point at the base scheme, host and
// path; anything else fails with coda.ErrForeignPageLink so the bearer token
// is never sent to another host. Relative links that repeat the base path
// have it stripped.
func (c *Client) ResolveLink(link string) (string, url.Values, error) {
	if c.baseErr != nil {
		return "", nil, c.baseErr
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q: %w", coda.ErrMalformedResponse, link, err)
	}

	basePath := strings.TrimSuffix(c.baseURL.EscapedPath(), "/")
	path := parsed.EscapedPath()

	if parsed.Scheme != "" || parsed.Host != "" {
		sameOrigin := (parsed.Scheme == "" || strings.EqualFold(parsed.Scheme, c.baseURL.Scheme)) &&
			strings.EqualFold(parsed.Host, c.baseURL.Host)
		if !sameOrigin || !underPath(path, basePath) {
			return "", nil, fmt.Errorf("%w: %s", coda.ErrForeignPageLink, link)
		}
	}

	if underPath(path, basePath) {
		path = strings.TrimPrefix(path, basePath)
	}

	return ensureLeadingSlash(path), parsed.Query(), nil
}

func underPath(path, basePath string) bool {
	if basePath == "" {
		return true
	}

	return path == basePath || strings.HasPrefix(path, basePath+"/")
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}

	return "/" + path
}

func encodeBody(body interface{}) ([]byte, error) {
	switch typed := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return typed, nil
	case json.RawMessage:
		return typed, nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		return data, nil
	}
}

// leveledLogger routes retryablehttp's own retry messages to coda.Logger.
type leveledLogger struct {
	logger coda.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fieldsOf(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fieldsOf(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fieldsOf(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fieldsOf(keysAndValues))
}

func fieldsOf(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)
