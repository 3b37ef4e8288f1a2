package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abdul-hamid-achik/hitreq/packages/capture"
	"github.com/abdul-hamid-achik/hitreq/packages/http"
	"github.com/fatih/color"
)

// maxBodyLen bounds the body printed in non-verbose mode.
const maxBodyLen = 4096

// Formatter renders call outcomes.
type Formatter interface {
	FormatResponse(resp *http.Response)
	FormatCaptures(values map[string]any, order []string)
	FormatError(err error)
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// statusColor picks the color for a status class.
func statusColor(code int) *color.Color {
	switch {
	case code >= 500:
		return color.New(color.FgRed, color.Bold)
	case code >= 400:
		return color.New(color.FgYellow, color.Bold)
	case code >= 300:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func (f *ConsoleFormatter) FormatResponse(resp *http.Response) {
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", statusColor(resp.StatusCode).Sprint(resp.Status()), faint(fmt.Sprintf("(%dms)", resp.DurationMs())))

	if f.verbose {
		fmt.Fprintf(f.writer, "%s %s\n", faint("URL:"), resp.LastURL)
		names := make([]string, 0, len(resp.Headers))
		for name := range resp.Headers {
			if name != http.StatusKey {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(f.writer, "%s: %s\n", cyan(name), resp.Headers[name])
		}
	}

	fmt.Fprintf(f.writer, "\n")

	body := resp.BodyString()
	if !f.verbose && len(body) > maxBodyLen {
		body = body[:maxBodyLen] + faint(fmt.Sprintf("... (%d bytes total)", len(resp.Body)))
	}
	if body != "" {
		fmt.Fprintf(f.writer, "%s\n", body)
	}
}

// FormatCaptures prints extracted values, one per line, in order.
func (f *ConsoleFormatter) FormatCaptures(values map[string]any, order []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, expr := range order {
		v, ok := values[expr]
		if !ok {
			continue
		}
		if len(order) == 1 {
			fmt.Fprintf(f.writer, "%s\n", capture.Format(v))
			continue
		}
		fmt.Fprintf(f.writer, "%s = %s\n", cyan(expr), capture.Format(v))
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitreq"), version)
}
