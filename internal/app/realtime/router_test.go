package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouter_ResolveTargets_NoExclusions(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)
	s1 := newFakeSession("s1", "u1")
	s2 := newFakeSession("s2", "u2")
	reg.Register("u1", s1)
	reg.Register("u2", s2)
	reg.JoinRoom(s1, "c1")
	reg.JoinRoom(s2, "c1")

	targets := rt.ResolveTargets("c1", nil)

	require.Len(t, targets, 2)
}

func TestRouter_ResolveTargets_ExcludesEverySessionOfIdentity(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)
	s1 := newFakeSession("s1", "u1")
	s1b := newFakeSession("s1b", "u1")
	s2 := newFakeSession("s2", "u2")
	for _, s := range []*fakeSession{s1, s1b, s2} {
		reg.Register(s.identity, s)
		reg.JoinRoom(s, "c1")
	}

	targets := rt.ResolveTargets("c1", map[string]struct{}{"u1": {}})

	require.Len(t, targets, 1)
	require.Equal(t, "u2", targets[0].Identity())
}

func TestRouter_ResolveTargets_UnknownRoom(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	require.Empty(t, rt.ResolveTargets("nowhere", map[string]struct{}{"u1": {}}))
}
