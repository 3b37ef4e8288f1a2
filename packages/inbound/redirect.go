package inbound

import (
	"errors"
	"net/http"
)

// ErrRedirected is returned by Redirect. Handlers should stop and return
// as soon as they see it.
var ErrRedirected = errors.New("response redirected")

// Redirect sends a 302 to url. Once it returns, further writes through a
// writer wrapped by Terminate are discarded.
func Redirect(w http.ResponseWriter, r *http.Request, url string) error {
	http.Redirect(w, r, url, http.StatusFound)
	if g, ok := w.(*guardWriter); ok {
		g.done = true
	}
	return ErrRedirected
}

// Terminate wraps next so that nothing written after a Redirect reaches
// the client.
func Terminate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&guardWriter{ResponseWriter: w}, r)
	})
}

type guardWriter struct {
	http.ResponseWriter
	done bool
}

func (g *guardWriter) WriteHeader(code int) {
	if g.done {
		return
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardWriter) Write(b []byte) (int, error) {
	if g.done {
		return len(b), nil
	}
	return g.ResponseWriter.Write(b)
}

func (g *guardWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}
