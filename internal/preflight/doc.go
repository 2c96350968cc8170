// Package preflight runs environment checks that `reviewbot check` reports
// before talking to the review API: log directory access and messaging
// backend reachability.
package preflight
