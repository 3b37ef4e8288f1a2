// Package capture extracts values from HTTP responses.
//
// It supports capturing values from:
//   - Response body (gjson paths)
//   - Response headers
//   - Status code, status line, final URL and duration
package capture
