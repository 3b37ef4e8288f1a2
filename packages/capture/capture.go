package capture

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitreq/packages/http"
	"github.com/tidwall/gjson"
)

// Expression sources understood by Extract.
const (
	SourceStatus     = "status"
	SourceStatusLine = "status_line"
	SourceURL        = "url"
	SourceDuration   = "duration"
	SourceHeader     = "header"
	SourceBody       = "body"
)

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
	isJSON   bool
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if gjson.ValidBytes(resp.Body) {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
		e.isJSON = true
	}
	return e
}

// Extract evaluates expr against the response. Expressions are a source
// optionally followed by a dot and a path: "status", "header.content-type",
// "body", "body.items.0.id".
func (e *Extractor) Extract(expr string) (any, bool) {
	source, path, _ := strings.Cut(strings.TrimSpace(expr), ".")

	switch source {
	case SourceBody:
		return e.extractFromBody(path)
	case SourceHeader:
		return e.extractFromHeader(path)
	case SourceStatus:
		return e.response.StatusCode, true
	case SourceStatusLine:
		return e.response.Status(), true
	case SourceURL:
		return e.response.LastURL, true
	case SourceDuration:
		return e.response.DurationMs(), true
	default:
		return nil, false
	}
}

func (e *Extractor) extractFromBody(path string) (any, bool) {
	if !e.isJSON {
		if path == "" {
			return e.response.BodyString(), true
		}
		return nil, false
	}

	if path == "" {
		return e.bodyJSON.Value(), true
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func (e *Extractor) extractFromHeader(name string) (any, bool) {
	if name == "" {
		return nil, false
	}
	if _, ok := e.response.Headers[strings.ToLower(name)]; !ok {
		return nil, false
	}
	return e.response.Header(name), true
}

// ExtractAll evaluates every expression. Expressions that do not resolve
// are reported in the returned error and left out of the map.
func ExtractAll(resp *http.Response, exprs []string) (map[string]any, error) {
	extractor := NewExtractor(resp)
	results := make(map[string]any, len(exprs))

	var missing []string
	for _, expr := range exprs {
		if value, ok := extractor.Extract(expr); ok {
			results[expr] = value
		} else {
			missing = append(missing, expr)
		}
	}

	if len(missing) > 0 {
		return results, fmt.Errorf("no value for %s", strings.Join(missing, ", "))
	}
	return results, nil
}

// Format renders an extracted value for terminal output. Strings are
// printed bare, everything else as compact JSON.
func Format(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return "null"
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(b)
}
