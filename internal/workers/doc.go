// Package workers sizes worker pools for parallel tasks such as the
// library scan, respecting container CPU limits and the SCAN_WORKERS
// override.
package workers
