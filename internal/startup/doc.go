// Package startup loads and validates application configuration from
// environment variables and exposes build-time version information.
package startup
