package inbound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxInput bounds the buffered raw body.
	DefaultMaxInput int64 = 10 << 20
	// DefaultMaxMemory is the multipart memory budget before files spill
	// to disk.
	DefaultMaxMemory int64 = 32 << 20
)

// ErrInputTooLarge is returned when the body exceeds the input limit.
var ErrInputTooLarge = errors.New("request body too large")

// FileInfo describes one uploaded file.
type FileInfo struct {
	Field       string                `json:"field"`
	Name        string                `json:"name"`
	Size        int64                 `json:"size"`
	ContentType string                `json:"contentType,omitempty"`
	Header      *multipart.FileHeader `json:"-"`
}

// Open opens the uploaded file content.
func (f FileInfo) Open() (multipart.File, error) {
	if f.Header == nil {
		return nil, fmt.Errorf("no content for upload %q", f.Field)
	}
	return f.Header.Open()
}

type requestOptions struct {
	maxInput  int64
	maxMemory int64
	now       func() time.Time
}

// RequestOption configures FromRequest.
type RequestOption func(*requestOptions)

// WithMaxInput bounds the buffered raw body.
func WithMaxInput(n int64) RequestOption {
	return func(o *requestOptions) {
		o.maxInput = n
	}
}

// WithMaxMemory sets the multipart memory budget.
func WithMaxMemory(n int64) RequestOption {
	return func(o *requestOptions) {
		o.maxMemory = n
	}
}

// FromRequest builds a View from r. The body is buffered so the raw input
// stays readable after form parsing; r.Body is replaced with a reader over
// the buffered copy. session may be nil.
func FromRequest(r *http.Request, session Store, opts ...RequestOption) (*View, error) {
	o := requestOptions{
		maxInput:  DefaultMaxInput,
		maxMemory: DefaultMaxMemory,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	input, err := readInput(r, o.maxInput)
	if err != nil {
		return nil, err
	}

	form, files, err := parseForm(r, o.maxMemory)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(input))

	return New(Context{
		Query:   valuesStore(r.URL.Query()),
		Form:    form,
		Session: session,
		Server:  serverStore(r, o.now()),
		Files:   files,
		Input:   input,
	}), nil
}

func readInput(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()

	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrInputTooLarge
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

func parseForm(r *http.Request, maxMemory int64) (Store, Store, error) {
	form := Store{}
	files := Store{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, nil, fmt.Errorf("parsing multipart form: %w", err)
		}
		for k, v := range valuesStore(r.MultipartForm.Value) {
			form[k] = v
		}
		for field, headers := range r.MultipartForm.File {
			infos := make([]FileInfo, 0, len(headers))
			for _, h := range headers {
				infos = append(infos, FileInfo{
					Field:       field,
					Name:        h.Filename,
					Size:        h.Size,
					ContentType: h.Header.Get("Content-Type"),
					Header:      h,
				})
			}
			if len(infos) == 1 {
				files[field] = infos[0]
			} else {
				files[field] = infos
			}
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, nil, fmt.Errorf("parsing form: %w", err)
		}
		form = valuesStore(r.PostForm)
	}

	return form, files, nil
}

// valuesStore flattens url.Values: single values become strings, repeated
// keys keep the []string.
func valuesStore(values url.Values) Store {
	s := make(Store, len(values))
	for k, v := range values {
		if len(v) == 1 {
			s[k] = v[0]
		} else {
			s[k] = v
		}
	}
	return s
}

func serverStore(r *http.Request, now time.Time) Store {
	s := Store{
		ServerRequestMethod: r.Method,
		ServerRequestURI:    r.URL.RequestURI(),
		ServerRequestTime:   now.Unix(),
		ServerQueryString:   r.URL.RawQuery,
		ServerProtocol:      r.Proto,
		ServerRemoteAddr:    r.RemoteAddr,
		ServerHTTPHost:      r.Host,
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		s[ServerContentType] = ct
	}
	if r.ContentLength >= 0 {
		s[ServerContentLength] = strconv.FormatInt(r.ContentLength, 10)
	}
	for name, values := range r.Header {
		key := ServerHeaderPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		s[key] = strings.Join(values, ", ")
	}
	// Host is not kept in r.Header by net/http.
	s[ServerHTTPHost] = r.Host
	return s
}
