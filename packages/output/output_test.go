package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitreq/packages/http"
)

func sampleResponse() *http.Response {
	return &http.Response{
		StatusCode: 404,
		Headers: http.ParseHeaders("HTTP/1.1 404 Not Found\r\n" +
			"Content-Type: application/json\r\n" +
			"X-Trace: t1\r\n"),
		Body:     []byte(`{"error":"missing"}`),
		LastURL:  "http://example.com/x",
		Duration: 12 * time.Millisecond,
	}
}

func TestConsoleFormatter_FormatResponse(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatResponse(sampleResponse())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "HTTP/1.1 404 Not Found (12ms)\n"))
	assert.Contains(t, out, `{"error":"missing"}`)
	assert.NotContains(t, out, "x-trace")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatResponse(sampleResponse())

	out := buf.String()
	assert.Contains(t, out, "URL: http://example.com/x\n")
	assert.Contains(t, out, "content-type: application/json\n")
	assert.Contains(t, out, "x-trace: t1\n")
	assert.NotContains(t, out, "http-status:")
	assert.Less(t, strings.Index(out, "content-type"), strings.Index(out, "x-trace"))
}

func TestConsoleFormatter_TruncatesLongBody(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	resp := sampleResponse()
	resp.Body = bytes.Repeat([]byte("a"), maxBodyLen+10)
	f.FormatResponse(resp)

	assert.Contains(t, buf.String(), fmt.Sprintf("... (%d bytes total)", maxBodyLen+10))
}

func TestConsoleFormatter_FormatCaptures(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatCaptures(map[string]any{"status": 200}, []string{"status"})
	assert.Equal(t, "200\n", buf.String())

	buf.Reset()
	f.FormatCaptures(map[string]any{"status": 200, "body.id": "x"}, []string{"status", "body.id", "ignored"})
	assert.Equal(t, "status = 200\nbody.id = x\n", buf.String())
}

func TestConsoleFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatError(fmt.Errorf("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestJSONFormatter_FormatResponse(t *testing.T) {
	var buf bytes.Buffer
	NewJSONFormatter(&buf).FormatResponse(sampleResponse())

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(404), got["statusCode"])
	assert.Equal(t, "HTTP/1.1 404 Not Found", got["status"])
	assert.Equal(t, map[string]any{"error": "missing"}, got["body"])
	assert.Equal(t, "http://example.com/x", got["lastUrl"])
	assert.Equal(t, float64(12), got["duration"])
	headers := got["headers"].(map[string]any)
	assert.Equal(t, "t1", headers["x-trace"])
	assert.NotContains(t, headers, http.StatusKey)
}

func TestJSONFormatter_PlainBody(t *testing.T) {
	var buf bytes.Buffer
	resp := sampleResponse()
	resp.Body = []byte("not json")
	NewJSONFormatter(&buf).FormatResponse(resp)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "not json", got["body"])
}

func TestJSONFormatter_FormatError(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{&http.TransportError{Method: "GET", URL: "http://x", Err: fmt.Errorf("refused")}, "transport"},
		{&http.MalformedResponseError{Err: fmt.Errorf("bad")}, "malformed_response"},
		{fmt.Errorf("wrap: %w", http.ErrInvalidOption), "invalid_option"},
		{fmt.Errorf("other"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			NewJSONFormatter(&buf).FormatError(tt.err)

			var got JSONError
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.err.Error(), got.Error)
		})
	}
}
