package output

import (
	"errors"

	"github.com/abdul-hamid-achik/hitreq/packages/http"
)

// ErrorKind classifies err for machine-readable output.
func ErrorKind(err error) string {
	var terr *http.TransportError
	var merr *http.MalformedResponseError
	switch {
	case errors.As(err, &terr):
		return "transport"
	case errors.As(err, &merr):
		return "malformed_response"
	case errors.Is(err, http.ErrInvalidOption):
		return "invalid_option"
	default:
		return "error"
	}
}
