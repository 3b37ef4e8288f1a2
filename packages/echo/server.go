// Package echo provides an HTTP server that reflects each inbound request
// back to the caller as JSON, as seen through an inbound.View.
package echo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/inbound"
)

// Server echoes requests.
type Server struct {
	addr     string
	delay    time.Duration
	session  inbound.Store
	maxInput int64
	logger   *slog.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithSession sets the session store exposed to every request.
func WithSession(session inbound.Store) Option {
	return func(s *Server) {
		s.session = session
	}
}

// WithMaxInput bounds the buffered request body.
func WithMaxInput(n int64) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new echo server
func NewServer(opts ...Option) *Server {
	s := &Server{
		addr:     ":3000",
		maxInput: inbound.DefaultMaxInput,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report is the JSON document returned for each request.
type Report struct {
	Method   string         `json:"method"`
	Query    map[string]any `json:"query"`
	Form     map[string]any `json:"form"`
	Session  map[string]any `json:"session"`
	Server   map[string]any `json:"server"`
	Files    map[string]any `json:"files"`
	Input    map[string]any `json:"input"`
	Raw      string         `json:"raw"`
	HasInput bool           `json:"hasInput"`
}

// NewReport snapshots v.
func NewReport(v *inbound.View) Report {
	return Report{
		Method:   v.Method(),
		Query:    v.Query().All(),
		Form:     v.Form().All(),
		Session:  v.Session().All(),
		Server:   v.Server().All(),
		Files:    v.Files().All(),
		Input:    v.InputJSON(),
		Raw:      v.InputRaw(),
		HasInput: v.HasInput(),
	}
}

// Handler returns the echo routes. GET /redirect?to=<url> answers with a
// 302 to the given location; every other path is echoed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/redirect", inbound.Terminate(http.HandlerFunc(s.handleRedirect)))
	mux.HandleFunc("/", s.handleEcho)
	return mux
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) (*inbound.View, bool) {
	v, err := inbound.FromRequest(r, s.session, inbound.WithMaxInput(s.maxInput))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, inbound.ErrInputTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		s.logger.Debug("rejected request", "method", r.Method, "path", r.URL.Path, "error", err)
		return nil, false
	}
	return v, true
}

func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	v, ok := s.view(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(v)); err != nil {
		s.logger.Warn("writing echo response", "error", err)
	}

	s.logger.Debug("echoed request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	to, _ := v.GetQuery("to", "/").(string)
	_ = inbound.Redirect(w, r, to)
	s.logger.Debug("redirected", "path", r.URL.Path, "to", to)
}

// StartWithContext serves on the configured address until ctx is done.
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("echo server listening", "addr", ln.Addr().String())
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
