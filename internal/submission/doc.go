// Package submission provides the interval-template review workflow: the
// Submission model and lifecycle states, the Store persistence interface,
// and the Service that creates pending submissions and applies manager
// review decisions with an audit-log-first, compare-and-swap state update.
package submission
