package inbound

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Server metadata keys filled by FromRequest.
const (
	ServerRequestMethod = "REQUEST_METHOD"
	ServerRequestURI    = "REQUEST_URI"
	ServerRequestTime   = "REQUEST_TIME"
	ServerQueryString   = "QUERY_STRING"
	ServerProtocol      = "SERVER_PROTOCOL"
	ServerRemoteAddr    = "REMOTE_ADDR"
	ServerHTTPHost      = "HTTP_HOST"
	ServerContentType   = "CONTENT_TYPE"
	ServerContentLength = "CONTENT_LENGTH"
	// ServerHeaderPrefix prefixes every request header, e.g. HTTP_USER_AGENT.
	ServerHeaderPrefix = "HTTP_"
)

// Context holds the stores a View reads from. Unset stores behave as
// empty: lookups return the fallback.
type Context struct {
	Query   Store
	Form    Store
	Session Store
	Server  Store
	Files   Store
	Input   []byte
}

// InputMode selects how Input returns the raw request body.
type InputMode int

const (
	// InputJSON decodes the body as JSON.
	InputJSON InputMode = iota
	// InputRaw returns the body text unchanged.
	InputRaw
)

// View is a read-only accessor over a Context.
type View struct {
	ctx Context
}

// New returns a View over ctx.
func New(ctx Context) *View {
	return &View{ctx: ctx}
}

func (v *View) Query() Store   { return v.ctx.Query }
func (v *View) Form() Store    { return v.ctx.Form }
func (v *View) Session() Store { return v.ctx.Session }
func (v *View) Server() Store  { return v.ctx.Server }
func (v *View) Files() Store   { return v.ctx.Files }

func (v *View) GetQuery(key string, fallback any) any { return v.ctx.Query.Get(key, fallback) }
func (v *View) HasQuery(key string) bool              { return v.ctx.Query.Has(key) }

func (v *View) GetForm(key string, fallback any) any { return v.ctx.Form.Get(key, fallback) }
func (v *View) HasForm(key string) bool              { return v.ctx.Form.Has(key) }

func (v *View) GetSession(key string, fallback any) any { return v.ctx.Session.Get(key, fallback) }
func (v *View) HasSession(key string) bool              { return v.ctx.Session.Has(key) }

func (v *View) GetServer(key string, fallback any) any { return v.ctx.Server.Get(key, fallback) }
func (v *View) HasServer(key string) bool              { return v.ctx.Server.Has(key) }

func (v *View) GetFile(key string, fallback any) any { return v.ctx.Files.Get(key, fallback) }
func (v *View) HasFile(key string) bool              { return v.ctx.Files.Has(key) }

// File returns the uploaded file descriptor at key.
func (v *View) File(key string) (FileInfo, bool) {
	switch f := v.ctx.Files.Get(key, nil).(type) {
	case FileInfo:
		return f, true
	case []FileInfo:
		if len(f) > 0 {
			return f[0], true
		}
	}
	return FileInfo{}, false
}

// Method returns the request method from the server metadata.
func (v *View) Method() string {
	return v.ctx.Server.String(ServerRequestMethod, "")
}

// IsMethod compares the request method with method, ignoring case.
func (v *View) IsMethod(method string) bool {
	m := v.Method()
	return m != "" && strings.EqualFold(m, method)
}

func (v *View) IsGet() bool  { return v.IsMethod("GET") }
func (v *View) IsPost() bool { return v.IsMethod("POST") }

// Input returns the raw body per mode: a map[string]any for InputJSON, a
// string for InputRaw.
func (v *View) Input(mode InputMode) any {
	if mode == InputRaw {
		return v.InputRaw()
	}
	return v.InputJSON()
}

// InputRaw returns the raw body text.
func (v *View) InputRaw() string {
	return string(v.ctx.Input)
}

// InputJSON decodes the raw body. Objects are returned as is; arrays and
// scalars are keyed by index ("0", "1", ...). Empty or undecodable input
// yields an empty map.
func (v *View) InputJSON() map[string]any {
	var decoded any
	if len(v.ctx.Input) == 0 || json.Unmarshal(v.ctx.Input, &decoded) != nil {
		return map[string]any{}
	}

	switch d := decoded.(type) {
	case map[string]any:
		return d
	case []any:
		out := make(map[string]any, len(d))
		for i, item := range d {
			out[strconv.Itoa(i)] = item
		}
		return out
	case nil:
		return map[string]any{}
	default:
		return map[string]any{"0": d}
	}
}

// HasInput reports whether the body decodes to a non-empty JSON value.
func (v *View) HasInput() bool {
	return len(v.InputJSON()) > 0
}
