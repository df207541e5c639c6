// Package metrics defines the Prometheus collectors exported by the
// swing-studio application.
//
// All collectors are registered with the default registry at package
// initialization via promauto and exposed through the /metrics endpoint
// on the metrics port.
package metrics
