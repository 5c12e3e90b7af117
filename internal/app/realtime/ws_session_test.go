package realtime

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newUnconnectedSession builds a WSSession without an underlying socket. The
// signal handling and queueing paths never touch the connection, so they can
// be exercised directly.
func newUnconnectedSession(identity string) (*WSSession, *Registry) {
	reg := NewRegistry()
	return NewWSSession(nil, identity, reg, NewDispatcher(reg)), reg
}

// drainFrames empties the session's send queue and decodes each frame.
func drainFrames(t *testing.T, s *WSSession) []Frame {
	t.Helper()

	var frames []Frame
	for {
		select {
		case data := <-s.send:
			var f Frame
			require.NoError(t, json.Unmarshal(data, &f))
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func TestWSSessionSetup_BindsAndAcks(t *testing.T) {
	s, reg := newUnconnectedSession("u1")

	require.Empty(t, s.Identity())

	s.handleSignal([]byte(`{"event":"setup"}`))

	require.Equal(t, "u1", s.Identity())
	require.Contains(t, reg.SessionsFor("u1"), Session(s))

	frames := drainFrames(t, s)
	require.Len(t, frames, 1)
	require.Equal(t, EventConnected, frames[0].Event)
}

func TestWSSessionSignalsBeforeSetup_AreIgnored(t *testing.T) {
	s, reg := newUnconnectedSession("u1")

	observer := newFakeSession("s-obs", "u2")
	reg.Register("u2", observer)
	reg.JoinRoom(observer, "c1")

	s.handleSignal([]byte(`{"event":"join chat","payload":"c1"}`))
	s.handleSignal([]byte(`{"event":"typing","payload":"c1"}`))
	s.handleSignal([]byte(`{"event":"stop typing","payload":"c1"}`))

	require.Empty(t, s.Identity())
	require.NotContains(t, reg.SessionsFor("c1"), Session(s))
	require.Empty(t, observer.pushed())
}

func TestWSSessionJoinChat_SubscribesOnce(t *testing.T) {
	s, reg := newUnconnectedSession("u1")

	s.handleSignal([]byte(`{"event":"setup"}`))
	s.handleSignal([]byte(`{"event":"join chat","payload":"c1"}`))
	s.handleSignal([]byte(`{"event":"join chat","payload":"c1"}`))

	require.Equal(t, []Session{s}, reg.SessionsFor("c1"))
}

func TestWSSessionTyping_ReachesRoomButNotOrigin(t *testing.T) {
	s, reg := newUnconnectedSession("u1")

	observer := newFakeSession("s-obs", "u2")
	reg.Register("u2", observer)
	reg.JoinRoom(observer, "c1")

	s.handleSignal([]byte(`{"event":"setup"}`))
	s.handleSignal([]byte(`{"event":"join chat","payload":"c1"}`))
	s.handleSignal([]byte(`{"event":"typing","payload":"c1"}`))
	s.handleSignal([]byte(`{"event":"stop typing","payload":"c1"}`))

	require.Equal(t, []string{EventTyping, EventStopTyping}, observer.eventNames())

	frames := drainFrames(t, s)
	require.Len(t, frames, 1)
	require.Equal(t, EventConnected, frames[0].Event)
}

func TestWSSessionPush_DropsWhenQueueFull(t *testing.T) {
	s, _ := newUnconnectedSession("u1")

	for i := 0; i < sendQueueSize; i++ {
		s.Push(Frame{Event: EventMessageReceived, Payload: fmt.Sprintf("m%d", i)})
	}
	require.Len(t, s.send, sendQueueSize)

	done := make(chan struct{})
	go func() {
		s.Push(Frame{Event: EventMessageReceived, Payload: "overflow"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push on a full queue blocked instead of dropping the frame")
	}

	require.Len(t, s.send, sendQueueSize)
}

func TestWSSessionClose_StopsDelivery(t *testing.T) {
	s, reg := newUnconnectedSession("u1")

	s.handleSignal([]byte(`{"event":"setup"}`))
	s.handleSignal([]byte(`{"event":"join chat","payload":"c1"}`))
	drainFrames(t, s)

	s.Close()
	s.Close()

	require.Empty(t, reg.SessionsFor("u1"))
	require.Empty(t, reg.SessionsFor("c1"))

	s.Push(Frame{Event: EventMessageReceived})
	require.Empty(t, drainFrames(t, s))
}

func TestWSSessionMalformedSignals_AreTolerated(t *testing.T) {
	s, reg := newUnconnectedSession("u1")

	require.NotPanics(t, func() {
		s.handleSignal([]byte(`not json at all`))
		s.handleSignal([]byte(`{"event":"no such signal"}`))
		s.handleSignal([]byte(`{"event":"setup"}`))
		s.handleSignal([]byte(`{"event":"join chat"}`))
		s.handleSignal([]byte(`{"event":"join chat","payload":42}`))
		s.handleSignal([]byte(`{"event":"typing","payload":""}`))
	})

	require.Equal(t, []Session{s}, reg.SessionsFor("u1"))
	require.Empty(t, reg.SessionsFor("42"))
}
