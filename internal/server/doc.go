// Package server wires and runs the application's transport servers.
//
// It provides orchestration for the HTTP server lifecycle, including
// startup, signal handling, and graceful shutdown. Shutdown hooks allow
// other subsystems (background workers, the vault) to release their
// resources when the process stops.
package server
