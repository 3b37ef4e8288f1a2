package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/capture"
	"github.com/abdul-hamid-achik/hitreq/packages/core/config"
	"github.com/abdul-hamid-achik/hitreq/packages/core/env"
	"github.com/abdul-hamid-achik/hitreq/packages/http"
	"github.com/abdul-hamid-achik/hitreq/packages/log"
	"github.com/abdul-hamid-achik/hitreq/packages/output"
	"github.com/abdul-hamid-achik/hitreq/packages/schema"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every request command.
type globalOptions struct {
	configFile   string
	envFile      string
	headers      []string
	overrides    []string
	timeout      string
	noFollow     bool
	maxRedirects int
	userAgent    string
	rate         float64
	output       string
	verbose      bool
	noColor      bool
	extract      []string
	schemaFile   string
	fail         bool
	logJSON      bool
}

func (o *globalOptions) register(root *cobra.Command) {
	f := root.PersistentFlags()

	f.StringVar(&o.configFile, "config", getEnvString("HITREQ_CONFIG", ""), "Path to config file (env: HITREQ_CONFIG)")
	f.StringVar(&o.envFile, "env-file", getEnvString("HITREQ_ENV_FILE", ""), "Path to .env file for {{variable}} interpolation (env: HITREQ_ENV_FILE)")

	f.StringArrayVarP(&o.headers, "header", "H", nil, "Request header as 'Name: value' (repeatable)")
	f.StringArrayVarP(&o.overrides, "override", "X", nil, "Transport override as key=value, e.g. timeout=5s (repeatable)")
	f.StringVar(&o.timeout, "timeout", getEnvString("HITREQ_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: HITREQ_TIMEOUT)")
	f.BoolVar(&o.noFollow, "no-follow", false, "Do not follow redirects")
	f.IntVar(&o.maxRedirects, "max-redirects", 0, "Maximum number of redirects to follow")
	f.StringVar(&o.userAgent, "user-agent", "", "User-Agent header")
	f.Float64Var(&o.rate, "rate", 0, "Client-side rate limit in requests per second")

	f.StringVarP(&o.output, "output", "o", getEnvString("HITREQ_OUTPUT", ""), "Output format: console, json (env: HITREQ_OUTPUT)")
	f.BoolVarP(&o.verbose, "verbose", "v", getEnvBool("HITREQ_VERBOSE", false), "Show headers and debug logs (env: HITREQ_VERBOSE)")
	f.BoolVar(&o.noColor, "no-color", getEnvBool("HITREQ_NO_COLOR", false), "Disable colored output (env: HITREQ_NO_COLOR)")
	f.BoolVar(&o.logJSON, "log-json", false, "Write debug logs as JSON")

	f.StringArrayVarP(&o.extract, "extract", "x", nil, "Print only this value: status, header.<name>, body or body.<path> (repeatable)")
	f.StringVar(&o.schemaFile, "schema", "", "Validate the response body against a JSON schema file")
	f.BoolVar(&o.fail, "fail", false, "Exit non-zero on 4xx and 5xx responses")
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// loadConfig reads the config file and lays the command line on top.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, err
	}

	flags := &config.Config{
		MaxRedirects: o.maxRedirects,
		UserAgent:    o.userAgent,
		RateLimit:    o.rate,
		Output:       o.output,
	}
	if o.timeout != "" {
		d, err := time.ParseDuration(o.timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", o.timeout, err)
		}
		flags.Timeout = int(d.Milliseconds())
	}
	if o.noFollow {
		flags.FollowRedirects = config.BoolPtr(false)
	}
	if o.verbose {
		flags.Verbose = config.BoolPtr(true)
	}
	if o.noColor {
		flags.NoColor = config.BoolPtr(true)
	}

	headers, err := parseHeaders(o.headers)
	if err != nil {
		return nil, err
	}
	flags.Headers = headers

	overrides, err := parsePairs(o.overrides)
	if err != nil {
		return nil, err
	}
	flags.Overrides = overrides

	cfg = cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := http.ValidateOverrides(cfg.Overrides); err != nil {
		return nil, fmt.Errorf("config overrides: %w", err)
	}
	return cfg, nil
}

func (o *globalOptions) resolver() (*env.Resolver, error) {
	r := env.NewResolver(env.LoadSystemEnv("HITREQ_VAR_"))
	if o.envFile == "" {
		return r, nil
	}
	vars, err := env.LoadDotEnv(o.envFile)
	if err != nil {
		return nil, err
	}
	r.SetVariables(vars)
	return r, nil
}

// session bundles what a request command needs.
type session struct {
	opts      *globalOptions
	cfg       *config.Config
	client    *http.Client
	resolver  *env.Resolver
	formatter output.Formatter
	logger    *slog.Logger
}

func (o *globalOptions) newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, withExit(ExitConfigError, err)
	}

	resolver, err := o.resolver()
	if err != nil {
		return nil, withExit(ExitConfigError, err)
	}
	cfg.Headers = resolver.ResolveAll(cfg.Headers)

	logger := log.New(
		log.WithWriter(cmd.ErrOrStderr()),
		log.WithVerbose(cfg.GetVerbose()),
		log.WithJSON(o.logJSON),
	)

	client, err := http.NewClient(http.WithConfig(cfg), http.WithLogger(logger))
	if err != nil {
		return nil, withExit(ExitConfigError, err)
	}

	var formatter output.Formatter
	if cfg.Output == "json" {
		formatter = output.NewJSONFormatter(cmd.OutOrStdout())
	} else {
		console := output.NewConsoleFormatter(
			output.WithWriter(cmd.OutOrStdout()),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
		)
		if cfg.GetVerbose() {
			console.FormatHeader(version)
		}
		formatter = console
	}

	return &session{
		opts:      o,
		cfg:       cfg,
		client:    client,
		resolver:  resolver,
		formatter: formatter,
		logger:    logger,
	}, nil
}

// parseHeaders turns "Name: value" flags into a map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, withExit(ExitUsageError, fmt.Errorf("invalid header %q, expected 'Name: value'", h))
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

func parsePairs(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, p := range raw {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, withExit(ExitUsageError, fmt.Errorf("invalid pair %q, expected key=value", p))
		}
		out[k] = v
	}
	return out, nil
}

// parseData builds the payload from positional arguments. "key=value"
// sets a string, "key:=json" sets a raw JSON value and repeating a key
// collects its values into a list.
func parseData(args []string, r *env.Resolver) (http.Data, error) {
	data := http.Data{}
	seen := make(map[string]int)
	for _, arg := range args {
		key, value, typed, err := splitDataArg(arg)
		if err != nil {
			return nil, withExit(ExitUsageError, err)
		}
		value = r.Resolve(value)

		var v any = value
		if typed {
			if err := json.Unmarshal([]byte(value), &v); err != nil {
				return nil, withExit(ExitUsageError, fmt.Errorf("invalid JSON for %q: %w", key, err))
			}
		}

		seen[key]++
		switch seen[key] {
		case 1:
			data[key] = v
		case 2:
			data[key] = []any{data[key], v}
		default:
			data[key] = append(data[key].([]any), v)
		}
	}
	return data, nil
}

func splitDataArg(arg string) (key, value string, typed bool, err error) {
	i := strings.Index(arg, "=")
	if i <= 0 {
		return "", "", false, fmt.Errorf("invalid data %q, expected key=value or key:=json", arg)
	}
	key, value = arg[:i], arg[i+1:]
	if strings.HasSuffix(key, ":") {
		key = strings.TrimSuffix(key, ":")
		typed = true
	}
	if key == "" {
		return "", "", false, fmt.Errorf("invalid data %q, empty key", arg)
	}
	return key, value, typed, nil
}

// report prints resp (or the requested extractions) and applies the
// --schema and --fail checks.
func (s *session) report(resp *http.Response) error {
	if s.opts.schemaFile != "" {
		v, err := schema.FromFile(s.opts.schemaFile)
		if err != nil {
			return withExit(ExitConfigError, err)
		}
		if err := v.Validate(resp.Body); err != nil {
			s.formatter.FormatError(err)
			return reported(ExitSchemaError, err)
		}
	}

	if len(s.opts.extract) > 0 {
		values, err := capture.ExtractAll(resp, s.opts.extract)
		s.formatter.FormatCaptures(values, s.opts.extract)
		if err != nil {
			return withExit(ExitExtractError, err)
		}
	} else {
		s.formatter.FormatResponse(resp)
	}

	if s.opts.fail && (resp.IsClientError() || resp.IsServerError()) {
		return withExit(ExitHTTPError, fmt.Errorf("server responded %s", resp.Status()))
	}
	return nil
}

// fail renders err and maps it to an exit code.
func (s *session) fail(err error) error {
	s.formatter.FormatError(err)

	var terr *http.TransportError
	var merr *http.MalformedResponseError
	switch {
	case errors.As(err, &terr):
		return reported(ExitNetworkError, err)
	case errors.As(err, &merr):
		return reported(ExitMalformedResponse, err)
	case errors.Is(err, http.ErrInvalidOption):
		return reported(ExitUsageError, err)
	}
	return reported(ExitNetworkError, err)
}

func parseRPCID(raw string) any {
	switch raw {
	case "auto":
		return http.NewRPCID()
	case "null":
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
