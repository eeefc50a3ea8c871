// Package http exposes the pipeline over a chi router: KPI queries against
// the latest run, pipeline triggering, health and Prometheus metrics.
// Errors are rendered as RFC 7807 problem documents.
package http
