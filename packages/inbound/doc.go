// Package inbound gives read-only access to the data of an incoming
// request: query parameters, form fields, session values, server
// metadata, uploaded files and the raw body.
//
// The stores are passed in explicitly through a Context, so a View can be
// built from a live *http.Request with FromRequest or from plain maps in
// tests. A View never mutates the stores it reads.
package inbound
