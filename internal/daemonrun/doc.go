// Package daemonrun assembles and runs the reviewbot agent process: signal
// handling, the per-run log file and its reviewbot.log pointer, log retention,
// the pid file, the startup credential check and component wiring.
package daemonrun
