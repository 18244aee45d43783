// Package progress keeps the aggregated lifecycle counters of a simulation
// run: how many processes sit in each state and how many have reported
// completion. The tracker travels in the run context so runners can update
// it without a global registry.
package progress
