package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.statusCode}
		assert.Equal(t, tt.expected, resp.IsSuccess(), "StatusCode: %d", tt.statusCode)
	}
}

func TestResponse_StatusClasses(t *testing.T) {
	assert.True(t, (&Response{StatusCode: 302}).IsRedirect())
	assert.True(t, (&Response{StatusCode: 404}).IsClientError())
	assert.True(t, (&Response{StatusCode: 503}).IsServerError())
	assert.False(t, (&Response{StatusCode: 200}).IsClientError())
}

func TestResponse_IsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"Application/JSON", true},
		{"text/html", false},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		resp := &Response{Headers: Header{"content-type": tt.contentType}}
		assert.Equal(t, tt.expected, resp.IsJSON(), "Content-Type: %s", tt.contentType)
	}
}

func TestResponse_BodyJSON(t *testing.T) {
	resp := &Response{Body: []byte(`{"ok":true}`), Duration: 1500 * time.Microsecond}

	v, err := resp.BodyJSON()
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, v)
	assert.Equal(t, int64(1), resp.DurationMs())

	_, err = (&Response{Body: []byte("nope")}).BodyJSON()
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	terr := &TransportError{Method: "GET", URL: "http://x", Err: assert.AnError}
	assert.ErrorIs(t, terr, assert.AnError)
	assert.Contains(t, terr.Error(), "GET http://x")

	merr := &MalformedResponseError{Response: &Response{StatusCode: 200, LastURL: "http://x"}, Err: assert.AnError}
	assert.ErrorIs(t, merr, assert.AnError)
	assert.Contains(t, merr.Error(), "status 200")
	assert.Contains(t, (&MalformedResponseError{Err: assert.AnError}).Error(), "malformed response")
}
