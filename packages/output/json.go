package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitreq/packages/http"
)

// JSONResponse represents response details
type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       any               `json:"body,omitempty"`
	LastURL    string            `json:"lastUrl"`
	Duration   float64           `json:"duration"` // milliseconds
}

// JSONError represents a failed call
type JSONError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type JSONFormatter struct {
	writer io.Writer
	indent bool
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONFormatter{writer: w, indent: true}
}

func (f *JSONFormatter) encode(v any) {
	enc := json.NewEncoder(f.writer)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

// FormatResponse writes the response as one JSON document. JSON bodies are
// embedded as values, anything else as a string.
func (f *JSONFormatter) FormatResponse(resp *http.Response) {
	headers := make(map[string]string, len(resp.Headers))
	for k, v := range resp.Headers {
		if k != http.StatusKey {
			headers[k] = v
		}
	}

	var body any
	switch {
	case resp.JSON != nil:
		body = resp.JSON
	case json.Valid(resp.Body):
		body = json.RawMessage(resp.Body)
	case len(resp.Body) > 0:
		body = resp.BodyString()
	}

	f.encode(JSONResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status(),
		Headers:    headers,
		Body:       body,
		LastURL:    resp.LastURL,
		Duration:   float64(resp.Duration.Microseconds()) / 1000,
	})
}

func (f *JSONFormatter) FormatCaptures(values map[string]any, order []string) {
	f.encode(values)
}

func (f *JSONFormatter) FormatError(err error) {
	f.encode(JSONError{Error: err.Error(), Kind: ErrorKind(err)})
}
