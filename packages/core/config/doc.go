// Package config handles configuration loading and management for hitreq.
//
// It provides functionality for:
//   - Loading configuration from .hitreq.yaml, .hitreq.yml or .hitreq.json
//   - Default configuration values
//   - Merging file settings with command line overrides
package config
