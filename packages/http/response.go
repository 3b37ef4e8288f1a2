package http

import (
	"encoding/json"
	"mime"
	"strings"
	"time"
)

// Response is the fully buffered outcome of one exchange.
type Response struct {
	StatusCode int
	Headers    Header
	Body       []byte
	// JSON holds the decoded body on the JSON-RPC path.
	JSON any
	// LastURL is the URL reached after following redirects.
	LastURL   string
	RawHeader string
	Duration  time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

// Status returns the raw status line.
func (r *Response) Status() string {
	return r.Headers.Status()
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// IsJSON reports a JSON media type, including structured "+json" types
// such as application/problem+json.
func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType())
	if err != nil {
		return false
	}
	return mediaType == contentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
