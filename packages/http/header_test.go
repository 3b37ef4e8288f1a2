package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Header
	}{
		{
			name: "status line and fields",
			raw:  "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nX-Foo: Bar\r\n",
			expected: Header{
				"http-status":  "HTTP/1.1 200 OK",
				"content-type": "text/html",
				"x-foo":        "Bar",
			},
		},
		{
			name: "trailing blank line trimmed",
			raw:  "HTTP/1.1 204 No Content\r\nServer: test\r\n\r\n",
			expected: Header{
				"http-status": "HTTP/1.1 204 No Content",
				"server":      "test",
			},
		},
		{
			name: "duplicate names keep the last value",
			raw:  "HTTP/1.1 200 OK\r\nSet-Cookie: a=1\r\nset-cookie: b=2\r\n",
			expected: Header{
				"http-status": "HTTP/1.1 200 OK",
				"set-cookie":  "b=2",
			},
		},
		{
			name: "value split at first colon only",
			raw:  "HTTP/1.1 301 Moved Permanently\r\nLocation: http://example.com:8080/x\r\n",
			expected: Header{
				"http-status": "HTTP/1.1 301 Moved Permanently",
				"location":    "http://example.com:8080/x",
			},
		},
		{
			name: "value whitespace trimmed",
			raw:  "HTTP/1.0 200 OK\r\nX-Pad:    padded   \r\n",
			expected: Header{
				"http-status": "HTTP/1.0 200 OK",
				"x-pad":       "padded",
			},
		},
		{
			name: "line without colon",
			raw:  "HTTP/1.1 200 OK\r\nbroken\r\n",
			expected: Header{
				"http-status": "HTTP/1.1 200 OK",
				"broken":      "",
			},
		},
		{
			name: "status line never merged with fields",
			raw:  "Content-Type: text/plain\r\n",
			expected: Header{
				"http-status": "Content-Type: text/plain",
			},
		},
		{
			name:     "empty block",
			raw:      "",
			expected: Header{"http-status": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseHeaders(tt.raw))
		})
	}
}

func TestHeader_Get(t *testing.T) {
	h := ParseHeaders("HTTP/2.0 200 OK\r\nContent-Length: 12\r\n")

	assert.Equal(t, "12", h.Get("Content-Length"))
	assert.Equal(t, "12", h.Get("content-length"))
	assert.Equal(t, "", h.Get("X-Missing"))
	assert.Equal(t, "HTTP/2.0 200 OK", h.Status())
}
