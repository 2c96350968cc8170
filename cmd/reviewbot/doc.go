// Package main hosts the reviewbot CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration (TOML file, .env file and
// environment), then hands off to internal packages: daemonrun for the
// polling agent, reviewapi and homework for one-off checks, and
// notifications for delivery tests.
package main
