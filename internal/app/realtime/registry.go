/*
Package realtime implements the presence-aware delivery core.

This file defines the Registry, the in-memory index from rooms to the live
sessions subscribed to them. A room is either a user's personal channel
(keyed by the user id, joined implicitly at setup) or a chat room (keyed by
the chat id, joined explicitly). State lives only as long as the process;
clients rebuild it by replaying their setup and join signals on reconnect.
*/
package realtime

import "sync"

// Registry indexes live sessions by room. It is owned by the dispatcher and
// the sessions; collaborators never touch it directly.
type Registry struct {
	mu sync.RWMutex

	// rooms maps a room id to the sessions currently subscribed.
	rooms map[string]map[Session]struct{}

	// memberships maps a session to every room it has joined, for cleanup
	// on unregister.
	memberships map[Session]map[string]struct{}

	// registered is the set of sessions that completed setup, used for
	// process-wide broadcasts.
	registered map[Session]struct{}
}

// NewRegistry returns an empty Registry. Each test and each process gets its
// own instance; there is no package-level state.
func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[string]map[Session]struct{}),
		memberships: make(map[Session]map[string]struct{}),
		registered:  make(map[Session]struct{}),
	}
}

// Register binds a session to its identity's personal channel. Idempotent
// per session.
func (reg *Registry) Register(identity string, s Session) {
	if identity == "" || s == nil {
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.registered[s] = struct{}{}
	reg.join(s, identity)
}

// JoinRoom subscribes the session to a room. Idempotent; joining twice
// leaves exactly one membership entry.
func (reg *Registry) JoinRoom(s Session, roomID string) {
	if roomID == "" || s == nil {
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.join(s, roomID)
}

// join indexes the session under roomID. Caller holds the write lock.
func (reg *Registry) join(s Session, roomID string) {
	if reg.rooms[roomID] == nil {
		reg.rooms[roomID] = make(map[Session]struct{})
	}
	reg.rooms[roomID][s] = struct{}{}

	if reg.memberships[s] == nil {
		reg.memberships[s] = make(map[string]struct{})
	}
	reg.memberships[s][roomID] = struct{}{}
}

// Unregister removes the session from every room it joined. No-op if the
// session is unknown, which makes a double disconnect harmless.
func (reg *Registry) Unregister(s Session) {
	if s == nil {
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for roomID := range reg.memberships[s] {
		sessions := reg.rooms[roomID]
		delete(sessions, s)
		if len(sessions) == 0 {
			delete(reg.rooms, roomID)
		}
	}

	delete(reg.memberships, s)
	delete(reg.registered, s)
}

// SessionsFor returns the live sessions currently joined to a room. An
// unknown room yields an empty slice, never an error: delivering to nobody
// is a successful no-op.
func (reg *Registry) SessionsFor(roomID string) []Session {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	members := reg.rooms[roomID]
	sessions := make([]Session, 0, len(members))
	for s := range members {
		sessions = append(sessions, s)
	}

	return sessions
}

// Sessions returns every registered session, for process-wide broadcasts.
func (reg *Registry) Sessions() []Session {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	sessions := make([]Session, 0, len(reg.registered))
	for s := range reg.registered {
		sessions = append(sessions, s)
	}

	return sessions
}
