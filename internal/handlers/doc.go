// Package handlers implements the HTTP API: catalog listing, on-demand
// frame thumbnails, health probes, and build info.
package handlers
