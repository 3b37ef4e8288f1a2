package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// JSONRPCVersion is the protocol version sent in every envelope.
const JSONRPCVersion = "2.0"

// RPCRequest is the JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// RPCResponse is the JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

var errEmptyJSON = errors.New("body decodes to null")

// NewRPCID returns a random request id.
func NewRPCID() string {
	return uuid.NewString()
}

// JSONRPC posts a JSON-RPC 2.0 call. The response body must be valid JSON;
// otherwise a *MalformedResponseError carrying the response is returned.
// On success Response.JSON holds the decoded body.
func (c *Client) JSONRPC(ctx context.Context, url, method string, params any, id any, opts ...CallOption) (*Response, error) {
	if params == nil {
		params = []any{}
	}

	payload, err := json.Marshal(RPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding JSON-RPC request: %w", err)
	}

	cl := c.newCall(http.MethodPost, url, opts)
	cl.attach(string(payload), contentTypeJSON)

	resp, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, &MalformedResponseError{Response: resp, Err: err}
	}
	if decoded == nil {
		return nil, &MalformedResponseError{Response: resp, Err: errEmptyJSON}
	}

	resp.JSON = decoded
	return resp, nil
}

// RPC decodes the body as a JSON-RPC response envelope.
func (r *Response) RPC() (*RPCResponse, error) {
	var out RPCResponse
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
