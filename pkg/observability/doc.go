/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured log records.

Both are plain domain.LifecycleHooks values; Compose merges them so a single
engine can feed several sinks.
*/
package observability
