// Package idgen produces simulation run identifiers. Runs are keyed by an
// opaque string so that reports from consecutive runs never collide in a
// report store; tests swap NewFunc for a deterministic sequence.
package idgen
