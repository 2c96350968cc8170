// Package logs reads the agent's run log for the `reviewbot logs` command.
package logs
