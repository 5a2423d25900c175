// Package app wires configuration, clients, and services into the CLI
// commands. Each ExecuteXxxCommand function builds exactly the components
// its command needs, runs the operation, and makes sure the session summary
// is printed even when the run panics or is interrupted.
package app
