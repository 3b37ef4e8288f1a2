package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Override keys understood by WithOverrides and the Override call option.
const (
	OverrideTimeout         = "timeout"
	OverrideFollowRedirects = "follow_redirects"
	OverrideMaxRedirects    = "max_redirects"
	OverrideUserAgent       = "user_agent"
	OverrideContentType     = "content_type"
	// OverrideHeaderPrefix sets a request header, e.g. "header.X-Trace".
	OverrideHeaderPrefix = "header."
)

// settings are the effective knobs of a single exchange.
type settings struct {
	timeout         time.Duration
	followRedirects bool
	maxRedirects    int
	userAgent       string
	contentType     string
	headers         map[string]string
}

func (s settings) clone() settings {
	out := s
	out.headers = make(map[string]string, len(s.headers))
	for k, v := range s.headers {
		out.headers[k] = v
	}
	return out
}

// applyOverrides merges transport overrides into s. Later keys win over
// whatever s already holds.
func (s *settings) applyOverrides(overrides map[string]string) error {
	for key, value := range overrides {
		if err := s.applyOverride(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *settings) applyOverride(key, value string) error {
	switch {
	case key == OverrideTimeout:
		d, err := parseTimeout(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidOption, key, value, err)
		}
		s.timeout = d
	case key == OverrideFollowRedirects:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidOption, key, value, err)
		}
		s.followRedirects = b
	case key == OverrideMaxRedirects:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s=%q: expected a non-negative integer", ErrInvalidOption, key, value)
		}
		s.maxRedirects = n
	case key == OverrideUserAgent:
		s.userAgent = value
	case key == OverrideContentType:
		s.contentType = value
	case strings.HasPrefix(key, OverrideHeaderPrefix) && len(key) > len(OverrideHeaderPrefix):
		s.headers[strings.TrimPrefix(key, OverrideHeaderPrefix)] = value
	default:
		return fmt.Errorf("%w: unknown override %q", ErrInvalidOption, key)
	}
	return nil
}

// parseTimeout accepts a Go duration ("1.5s") or a bare number of
// milliseconds ("1500").
func parseTimeout(value string) (time.Duration, error) {
	if ms, err := strconv.Atoi(value); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative timeout")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout")
	}
	return d, nil
}

// ValidateOverrides reports whether every key and value in overrides is
// understood by the client.
func ValidateOverrides(overrides map[string]string) error {
	s := settings{headers: make(map[string]string)}
	return s.applyOverrides(overrides)
}
