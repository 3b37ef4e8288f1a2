// Package env handles variable files and placeholder resolution for hitreq.
//
// Variables come from .env files or the process environment and are
// substituted into URLs, headers and data values using {{name}} syntax.
package env
