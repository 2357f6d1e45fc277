// Package metrics exposes Prometheus instrumentation for sync runs:
// fetch latency, media cache effectiveness and node store mutations.
package metrics
