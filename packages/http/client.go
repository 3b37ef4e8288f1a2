package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/hitreq/packages/core/config"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultUserAgent is sent when no other user agent is configured
	DefaultUserAgent = "hitreq"
)

type Client struct {
	httpClient *http.Client
	transport  http.RoundTripper
	defaults   settings
	overrides  map[string]string
	rateLimit  float64
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type ClientOption func(*Client)

// NewClient builds a client from the given options. It fails when the
// configured overrides are invalid.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		defaults: settings{
			timeout:         DefaultTimeout,
			followRedirects: true,
			maxRedirects:    DefaultMaxRedirects,
			userAgent:       DefaultUserAgent,
			headers:         make(map[string]string),
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.defaults.applyOverrides(c.overrides); err != nil {
		return nil, err
	}

	if c.rateLimit < 0 {
		return nil, fmt.Errorf("%w: negative rate limit %v", ErrInvalidOption, c.rateLimit)
	}
	if c.rateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.rateLimit), 1)
	}

	transport := c.transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		CheckRedirect: checkRedirect,
	}

	return c, nil
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.defaults.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.defaults.followRedirects = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.defaults.maxRedirects = max
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.defaults.userAgent = ua
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaults.headers[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaults.headers[k] = v
		}
	}
}

// WithOverrides sets transport overrides applied on top of the named
// options. They are validated by NewClient.
func WithOverrides(overrides map[string]string) ClientOption {
	return func(c *Client) {
		if c.overrides == nil {
			c.overrides = make(map[string]string, len(overrides))
		}
		for k, v := range overrides {
			c.overrides[k] = v
		}
	}
}

// WithRateLimit caps outbound calls at perSecond requests per second.
// Zero disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		c.rateLimit = perSecond
	}
}

// WithTransport replaces the round tripper used for exchanges.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithLogger sets the logger used for per-exchange debug records.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConfig applies a loaded configuration. Named options given after it
// take precedence over its plain fields, but transport overrides (from
// the config or WithOverrides) are applied last by NewClient and win over
// every named option.
func WithConfig(cfg *config.Config) ClientOption {
	return func(c *Client) {
		if cfg == nil {
			return
		}
		if cfg.Timeout > 0 {
			c.defaults.timeout = time.Duration(cfg.Timeout) * time.Millisecond
		}
		c.defaults.followRedirects = cfg.GetFollowRedirects()
		if cfg.MaxRedirects > 0 {
			c.defaults.maxRedirects = cfg.MaxRedirects
		}
		if cfg.UserAgent != "" {
			c.defaults.userAgent = cfg.UserAgent
		}
		for k, v := range cfg.Headers {
			c.defaults.headers[k] = v
		}
		if cfg.RateLimit > 0 {
			c.rateLimit = cfg.RateLimit
		}
		WithOverrides(cfg.Overrides)(c)
	}
}

// Get performs a GET request. Non-empty data is appended to the URL as a
// query string.
func (c *Client) Get(ctx context.Context, url string, data Data, opts ...CallOption) (*Response, error) {
	return c.do(ctx, c.newCall(http.MethodGet, AppendQuery(url, data), opts))
}

// Post sends data as the request body, encoded per format.
func (c *Client) Post(ctx context.Context, url string, data Data, format Format, opts ...CallOption) (*Response, error) {
	return c.send(ctx, http.MethodPost, url, data, format, opts)
}

// Put sends data as the request body, encoded per format.
func (c *Client) Put(ctx context.Context, url string, data Data, format Format, opts ...CallOption) (*Response, error) {
	return c.send(ctx, http.MethodPut, url, data, format, opts)
}

// Delete sends a DELETE request. Like the other mutating verbs it carries
// data as the request body.
func (c *Client) Delete(ctx context.Context, url string, data Data, format Format, opts ...CallOption) (*Response, error) {
	return c.send(ctx, http.MethodDelete, url, data, format, opts)
}

func (c *Client) send(ctx context.Context, method, url string, data Data, format Format, opts []CallOption) (*Response, error) {
	cl := c.newCall(method, url, opts)
	cl.setBody(data, format)
	return c.do(ctx, cl)
}

// checkRedirect enforces the redirect policy carried by the request
// context.
func checkRedirect(req *http.Request, via []*http.Request) error {
	s, ok := req.Context().Value(settingsKey{}).(settings)
	if !ok {
		return nil
	}
	if !s.followRedirects {
		return http.ErrUseLastResponse
	}
	if len(via) >= s.maxRedirects {
		return http.ErrUseLastResponse
	}
	return nil
}

type settingsKey struct{}

// do performs the single exchange for cl.
func (c *Client) do(ctx context.Context, cl *call) (*Response, error) {
	if cl.err != nil {
		return nil, cl.err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fail := func(err error) (*Response, error) {
		c.logger.Debug("exchange failed", "method", cl.method, "url", cl.url, "error", err)
		return nil, &TransportError{Method: cl.method, URL: cl.url, Err: err}
	}

	if err := ValidateURL(cl.url); err != nil {
		return fail(err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(err)
		}
	}

	if cl.settings.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cl.settings.timeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, settingsKey{}, cl.settings)

	var body io.Reader
	if cl.hasBody {
		body = strings.NewReader(cl.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, cl.method, cl.url, body)
	if err != nil {
		return fail(err)
	}

	if cl.settings.userAgent != "" {
		httpReq.Header.Set("User-Agent", cl.settings.userAgent)
	}
	if cl.hasBody && cl.settings.contentType != "" {
		httpReq.Header.Set("Content-Type", cl.settings.contentType)
	}
	if cl.hasBody && cl.body == "" {
		// Makes net/http write "Content-Length: 0" for every method.
		httpReq.TransferEncoding = []string{"identity"}
	}
	for k, v := range cl.settings.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fail(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	duration := time.Since(start)
	if err != nil {
		return fail(err)
	}

	raw := rawHeaderBlock(httpResp)
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    ParseHeaders(raw),
		Body:       respBody,
		LastURL:    httpResp.Request.URL.String(),
		RawHeader:  raw,
		Duration:   duration,
	}

	c.logger.Debug("exchange",
		"method", cl.method,
		"url", cl.url,
		"status", resp.StatusCode,
		"last_url", resp.LastURL,
		"bytes", len(respBody),
		"duration", duration,
	)

	return resp, nil
}

// rawHeaderBlock renders the status line and header fields of resp the
// way they appeared on the wire, CRLF separated and terminated by an
// empty line.
func rawHeaderBlock(resp *http.Response) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s\r\n", resp.Proto, resp.Status)
	_ = resp.Header.Write(&b)
	b.WriteString("\r\n")
	return b.String()
}
