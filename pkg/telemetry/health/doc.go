// Package health provides liveness and readiness checks for the
// long-running service mode, exposed as HTTP probe endpoints next to
// the metrics endpoint.
package health
