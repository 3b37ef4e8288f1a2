package cmd

// Exit codes for hitreq CLI
const (
	// ExitSuccess indicates the call completed
	ExitSuccess = 0

	// ExitHTTPError indicates a 4xx or 5xx status while --fail is set
	ExitHTTPError = 1

	// ExitExtractError indicates an --extract expression had no value
	ExitExtractError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitMalformedResponse indicates a JSON-RPC body that is not JSON
	ExitMalformedResponse = 5

	// ExitSchemaError indicates the body failed schema validation
	ExitSchemaError = 6

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code     int
	err      error
	reported bool // already rendered by a formatter
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func (e *exitError) silent() bool { return e.reported }

func withExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// reported marks err as already shown to the user.
func reported(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err, reported: true}
}
