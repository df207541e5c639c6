// Package memory configures GOMEMLIMIT from container limits and
// provides a heap usage monitor for worker backpressure.
package memory
