// Package daemonctl controls a running reviewbot agent from another process
// using the pid file and single-instance lock the agent maintains.
package daemonctl
