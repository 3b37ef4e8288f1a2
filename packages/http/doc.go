// Package http provides the outbound side of hitreq: verb helpers for
// GET, POST, PUT, DELETE and JSON-RPC calls over a single blocking
// exchange.
//
// Every call returns a fully buffered Response carrying:
//   - the status code and raw status line
//   - headers parsed into a lowercased map (last duplicate wins)
//   - the raw body, plus the decoded body on the JSON-RPC path
//   - the URL reached after following redirects
//
// Calls that cannot complete return *TransportError; a JSON-RPC call whose
// body is not JSON returns *MalformedResponseError.
package http
