package realtime

// Session is one live client connection bound to a user identity. A single
// identity may own any number of concurrent sessions (tabs, devices); a
// reconnect is always a new Session instance.
//
// Lifecycle: Unbound -> Bound (identity set, registered) -> Bound with
// accumulated room memberships -> Closed. There are no transitions back.
type Session interface {
	// ID uniquely identifies this connection.
	ID() string

	// Identity returns the user id the session is bound to, or the empty
	// string before setup.
	Identity() string

	// Push delivers a frame to the client. It must never block and must
	// never fail upward: transport trouble is the session's problem, not the
	// dispatcher's.
	Push(frame Frame)

	// Close terminates the session and removes it from the registry.
	// Idempotent.
	Close()
}
