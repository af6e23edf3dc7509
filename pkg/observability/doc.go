/*
Package observability provides Prometheus metrics for the companion pipeline.

Metrics are bound to the pipeline through domain.LifecycleHooks, so neither the
assistant nor the executor depend on Prometheus directly.
*/
package observability
