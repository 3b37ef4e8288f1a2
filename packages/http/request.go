package http

import (
	"fmt"
	"net/url"
	"time"
)

// call is one outbound exchange under construction.
type call struct {
	method   string
	url      string
	body     string
	hasBody  bool
	settings settings
	err      error
}

// CallOption adjusts a single call. Call options are applied after the
// client defaults, so they win on conflict.
type CallOption func(*call)

// WithHeader sets a request header for one call.
func WithHeader(key, value string) CallOption {
	return func(c *call) {
		c.settings.headers[key] = value
	}
}

// WithHeaders sets several request headers for one call.
func WithHeaders(headers map[string]string) CallOption {
	return func(c *call) {
		for k, v := range headers {
			c.settings.headers[k] = v
		}
	}
}

// Timeout bounds one call. Zero disables the timeout.
func Timeout(d time.Duration) CallOption {
	return func(c *call) {
		c.settings.timeout = d
	}
}

// FollowRedirects toggles redirect handling for one call.
func FollowRedirects(follow bool) CallOption {
	return func(c *call) {
		c.settings.followRedirects = follow
	}
}

// Overrides applies transport overrides to one call. Unknown keys make the
// call fail with ErrInvalidOption before anything is sent.
func Overrides(overrides map[string]string) CallOption {
	return func(c *call) {
		if c.err != nil {
			return
		}
		c.err = c.settings.applyOverrides(overrides)
	}
}

// Override applies a single transport override to one call.
func Override(key, value string) CallOption {
	return Overrides(map[string]string{key: value})
}

func (cl *Client) newCall(method, rawURL string, opts []CallOption) *call {
	c := &call{
		method:   method,
		url:      rawURL,
		settings: cl.defaults.clone(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// setBody encodes data per format and attaches it. Empty data still marks
// the call as carrying a body, sent as an explicit zero-length one.
func (c *call) setBody(data Data, format Format) {
	if len(data) == 0 {
		c.hasBody = true
		return
	}
	body, contentType, err := encodeBody(data, format)
	if err != nil {
		c.err = err
		return
	}
	c.attach(body, contentType)
}

func (c *call) attach(body, contentType string) {
	c.body = body
	c.hasBody = true
	if c.settings.contentType == "" {
		c.settings.contentType = contentType
	}
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
