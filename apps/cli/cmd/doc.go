// Package cmd implements the hitreq CLI commands using Cobra.
//
// Available commands:
//   - get, post, put, delete: Send one request and print the response
//   - rpc: Send a JSON-RPC 2.0 call
//   - serve: Run an echo server that reports what it received
//   - init: Write a starter .hitreq.yaml
//   - version: Show hitreq version information
//
// Shared flags control headers, timeouts, redirects, output format and
// value extraction from the response.
package cmd
