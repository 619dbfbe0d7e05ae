package server

// Server is the lifecycle contract for the transport layer. [NewServer]
// returns one; cmd/server drives it.
//
// RunServer blocks until a stop signal arrives; Shutdown stops accepting
// requests and then runs the registered shutdown hooks (worker stop, vault
// lock).
type Server interface {
	RunServer()
	Shutdown()
}
