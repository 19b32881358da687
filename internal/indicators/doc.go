// Package indicators computes technical indicators over a price history.
//
// Every function is pure: it reads the history, never writes to it, and
// returns nil when the history is too short for the requested window.
// Callers must treat nil as "not enough history", never as zero.
package indicators
