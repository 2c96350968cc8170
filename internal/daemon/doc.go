// Package daemon owns the lifecycle of the long-running reviewbot process.
//
// It runs the polling engine in the background under a flock-based lock in
// the log directory so only one agent polls the review API per host, and
// releases the lock when the engine stops.
package daemon
