package http

import "strings"

// StatusKey is the synthetic header entry holding the raw status line.
const StatusKey = "http-status"

// Header maps lowercased header names to their trimmed values. The raw
// status line is stored under StatusKey.
type Header map[string]string

// Get returns the value for name, matched case-insensitively.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Status returns the raw status line, e.g. "HTTP/1.1 200 OK".
func (h Header) Status() string {
	return h[StatusKey]
}

// ParseHeaders parses a raw header block (status line followed by field
// lines, CRLF separated) into a Header.
//
// The first line is always taken verbatim as the status line. Each
// remaining line is split at its first colon; the name is lowercased and
// the value trimmed. Repeated names keep the last value.
func ParseHeaders(raw string) Header {
	h := make(Header)
	lines := strings.Split(strings.TrimRight(raw, "\r\n\t\x00\x0B "), "\r\n")

	h[StatusKey] = lines[0]

	for _, line := range lines[1:] {
		name, value, _ := strings.Cut(line, ":")
		h[strings.ToLower(name)] = strings.TrimSpace(value)
	}

	return h
}
