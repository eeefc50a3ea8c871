// Package services orchestrates the pipeline: loading input files, running
// the cleaning steps, computing KPIs, and caching the latest result for the
// HTTP layer.
package services
