package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_SessionsForUnknownRoom_IsEmpty(t *testing.T) {
	reg := NewRegistry()

	sessions := reg.SessionsFor("nowhere")

	require.NotNil(t, sessions)
	require.Empty(t, sessions)
}

func TestRegistry_RegisterJoinsPersonalChannel(t *testing.T) {
	reg := NewRegistry()
	s := newFakeSession("s1", "u1")

	reg.Register("u1", s)

	require.Len(t, reg.SessionsFor("u1"), 1)
	require.Len(t, reg.Sessions(), 1)
}

func TestRegistry_RegisterIsIdempotentPerSession(t *testing.T) {
	reg := NewRegistry()
	s := newFakeSession("s1", "u1")

	reg.Register("u1", s)
	reg.Register("u1", s)

	require.Len(t, reg.SessionsFor("u1"), 1)
	require.Len(t, reg.Sessions(), 1)
}

func TestRegistry_MultipleSessionsPerIdentity(t *testing.T) {
	reg := NewRegistry()
	s1 := newFakeSession("s1", "u1")
	s2 := newFakeSession("s2", "u1")

	reg.Register("u1", s1)
	reg.Register("u1", s2)

	require.Len(t, reg.SessionsFor("u1"), 2)
}

func TestRegistry_JoinRoomIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	s := newFakeSession("s1", "u1")
	reg.Register("u1", s)

	reg.JoinRoom(s, "c1")
	reg.JoinRoom(s, "c1")

	require.Len(t, reg.SessionsFor("c1"), 1)
}

func TestRegistry_UnregisterRemovesEveryMembership(t *testing.T) {
	reg := NewRegistry()
	s := newFakeSession("s1", "u1")
	reg.Register("u1", s)
	reg.JoinRoom(s, "c1")
	reg.JoinRoom(s, "c2")

	reg.Unregister(s)

	require.Empty(t, reg.SessionsFor("u1"))
	require.Empty(t, reg.SessionsFor("c1"))
	require.Empty(t, reg.SessionsFor("c2"))
	require.Empty(t, reg.Sessions())
}

func TestRegistry_UnregisterTwiceIsHarmless(t *testing.T) {
	reg := NewRegistry()
	s := newFakeSession("s1", "u1")
	reg.Register("u1", s)

	reg.Unregister(s)
	reg.Unregister(s)

	require.Empty(t, reg.SessionsFor("u1"))
}

func TestRegistry_UnregisterLeavesOtherSessionsAlone(t *testing.T) {
	reg := NewRegistry()
	s1 := newFakeSession("s1", "u1")
	s2 := newFakeSession("s2", "u1")
	reg.Register("u1", s1)
	reg.Register("u1", s2)
	reg.JoinRoom(s1, "c1")
	reg.JoinRoom(s2, "c1")

	reg.Unregister(s1)

	require.Len(t, reg.SessionsFor("u1"), 1)
	require.Len(t, reg.SessionsFor("c1"), 1)
}
