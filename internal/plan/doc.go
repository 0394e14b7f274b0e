// Package plan provides the maintenance-status evaluation core: service
// items, intervals, per-item history, due-soon thresholds, and the pure
// Evaluate function that classifies each item and renders its concise,
// verbose, and bulk-copy text. A planning run (Run) evaluates the full item
// list into four status buckets plus the bulk output block.
package plan
