package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linkup/internal/app/records"
	"linkup/internal/app/user"
)

// Two tabs of the same user both receive a notification aimed at that
// user's personal channel; the sender's sessions receive nothing.
func TestDispatchNotification_ReachesEverySessionOfRecipient(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	tab1 := newFakeSession("s1", "u1")
	tab2 := newFakeSession("s2", "u1")
	senderTab := newFakeSession("s3", "u2")
	reg.Register("u1", tab1)
	reg.Register("u1", tab2)
	reg.Register("u2", senderTab)

	n := records.Notification{
		ID:        "n1",
		Recipient: "u1",
		Sender:    user.Summary{ID: "u2", Name: "User u2"},
		Type:      records.NotificationLike,
		PostID:    "p1",
	}
	ev, err := NotificationCreatedEvent(n)
	require.NoError(t, err)

	d.DispatchNotification(ev)

	require.Equal(t, []string{EventNotificationReceived}, tab1.eventNames())
	require.Equal(t, []string{EventNotificationReceived}, tab2.eventNames())
	require.Equal(t, tab1.pushed()[0].Payload, tab2.pushed()[0].Payload)
	require.Empty(t, senderTab.pushed())
}

func TestDispatchNewMessage_ExcludesEverySenderSession(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	a1 := newFakeSession("a1", "a")
	a2 := newFakeSession("a2", "a")
	b := newFakeSession("b1", "b")
	c := newFakeSession("c1", "c")
	for _, s := range []*fakeSession{a1, a2, b, c} {
		reg.Register(s.identity, s)
		reg.JoinRoom(s, "chat1")
	}

	ev, err := NewMessageEvent(messageRecord("m1", "chat1", "a", "b", "c"))
	require.NoError(t, err)

	d.DispatchNewMessage(ev)

	require.Empty(t, a1.pushed())
	require.Empty(t, a2.pushed())
	require.Equal(t, []string{EventMessageReceived}, b.eventNames())
	require.Equal(t, []string{EventMessageReceived}, c.eventNames())
}

// A participant whose session never joined the chat room gets no live push,
// even though their identity is registered. Regression test for preserved
// behavior: chat-message delivery is room-membership-gated, not
// identity-gated.
func TestDispatchNewMessage_RoomMembershipGated(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	u1 := newFakeSession("s1", "u1")
	u2 := newFakeSession("s2", "u2")
	reg.Register("u1", u1)
	reg.Register("u2", u2)
	reg.JoinRoom(u1, "c1")
	// u2 never joins c1.

	ev, err := NewMessageEvent(messageRecord("m1", "c1", "u1", "u2"))
	require.NoError(t, err)

	d.DispatchNewMessage(ev)

	require.Empty(t, u2.pushed())
}

func TestDispatchNewMessage_DoubleJoinDeliversOnce(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	sender := newFakeSession("s1", "u1")
	receiver := newFakeSession("s2", "u2")
	reg.Register("u1", sender)
	reg.Register("u2", receiver)
	reg.JoinRoom(sender, "c1")
	reg.JoinRoom(receiver, "c1")
	reg.JoinRoom(receiver, "c1")

	ev, err := NewMessageEvent(messageRecord("m1", "c1", "u1", "u2"))
	require.NoError(t, err)

	d.DispatchNewMessage(ev)

	require.Len(t, receiver.pushed(), 1)
}

func TestDispatch_NothingAfterUnregister(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	sender := newFakeSession("s1", "u1")
	receiver := newFakeSession("s2", "u2")
	reg.Register("u1", sender)
	reg.Register("u2", receiver)
	reg.JoinRoom(sender, "c1")
	reg.JoinRoom(receiver, "c1")

	reg.Unregister(receiver)

	ev, err := NewMessageEvent(messageRecord("m1", "c1", "u1", "u2"))
	require.NoError(t, err)
	d.DispatchNewMessage(ev)

	n := records.Notification{ID: "n1", Recipient: "u2", Sender: user.Summary{ID: "u1"}, Type: records.NotificationMessage}
	nev, err := NotificationCreatedEvent(n)
	require.NoError(t, err)
	d.DispatchNotification(nev)

	require.Empty(t, receiver.pushed())
}

func TestDispatchNewMessage_FIFOPerRoom(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	sender := newFakeSession("s1", "u1")
	receiver := newFakeSession("s2", "u2")
	reg.Register("u1", sender)
	reg.Register("u2", receiver)
	reg.JoinRoom(sender, "c1")
	reg.JoinRoom(receiver, "c1")

	first, err := NewMessageEvent(messageRecord("m1", "c1", "u1", "u2"))
	require.NoError(t, err)
	second, err := NewMessageEvent(messageRecord("m2", "c1", "u1", "u2"))
	require.NoError(t, err)

	d.DispatchNewMessage(first)
	d.DispatchNewMessage(second)

	frames := receiver.pushed()
	require.Len(t, frames, 2)
	require.Equal(t, "m1", frames[0].Payload.(records.Message).ID)
	require.Equal(t, "m2", frames[1].Payload.(records.Message).ID)
}

func TestDispatchMessagesRead_BroadcastsToWholeRoom(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	reader := newFakeSession("s1", "u1")
	other := newFakeSession("s2", "u2")
	reg.Register("u1", reader)
	reg.Register("u2", other)
	reg.JoinRoom(reader, "c1")
	reg.JoinRoom(other, "c1")

	ev, err := MessagesReadEvent("c1", "u1")
	require.NoError(t, err)

	d.DispatchMessagesRead(ev)

	require.Equal(t, []string{EventMessagesRead}, reader.eventNames())
	require.Equal(t, []string{EventMessagesRead}, other.eventNames())

	payload, ok := other.pushed()[0].Payload.(messagesReadPayload)
	require.True(t, ok)
	require.Equal(t, "c1", payload.ChatID)
	require.Equal(t, "u1", payload.UserID)
}

// Typing exclusion is per session, not per identity: the typist's second
// tab still receives the indicator.
func TestDispatchTyping_ExcludesOriginSessionOnly(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	typistTab1 := newFakeSession("s1", "u1")
	typistTab2 := newFakeSession("s2", "u1")
	other := newFakeSession("s3", "u2")
	for _, s := range []*fakeSession{typistTab1, typistTab2, other} {
		reg.Register(s.identity, s)
		reg.JoinRoom(s, "c1")
	}

	start, err := TypingStartedEvent("c1")
	require.NoError(t, err)
	stop, err := TypingStoppedEvent("c1")
	require.NoError(t, err)

	d.DispatchTypingStarted(start, typistTab1)
	d.DispatchTypingStopped(stop, typistTab1)

	require.Empty(t, typistTab1.pushed())
	require.Equal(t, []string{EventTyping, EventStopTyping}, typistTab2.eventNames())
	require.Equal(t, []string{EventTyping, EventStopTyping}, other.eventNames())
}

func TestDispatchNewPost_ReachesEveryRegisteredSession(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	authorTab := newFakeSession("s1", "u1")
	readerTab := newFakeSession("s2", "u2")
	unjoined := newFakeSession("s3", "u3")
	reg.Register("u1", authorTab)
	reg.Register("u2", readerTab)
	reg.Register("u3", unjoined)

	post := records.Post{ID: "p1", Author: user.Summary{ID: "u1"}, Content: "hi", Likes: []string{}}
	ev, err := NewPostEvent(post)
	require.NoError(t, err)

	d.DispatchNewPost(ev)

	require.Equal(t, []string{EventNewPost}, authorTab.eventNames())
	require.Equal(t, []string{EventNewPost}, readerTab.eventNames())
	require.Equal(t, []string{EventNewPost}, unjoined.eventNames())
}

func TestDispatch_DeadSessionDoesNotBlockOthers(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	dead := newFakeSession("s1", "u2")
	dead.panics = true
	alive := newFakeSession("s2", "u3")
	sender := newFakeSession("s3", "u1")
	for _, s := range []*fakeSession{dead, alive, sender} {
		reg.Register(s.identity, s)
		reg.JoinRoom(s, "c1")
	}

	ev, err := NewMessageEvent(messageRecord("m1", "c1", "u1", "u2", "u3"))
	require.NoError(t, err)

	require.NotPanics(t, func() {
		d.DispatchNewMessage(ev)
	})

	require.Equal(t, []string{EventMessageReceived}, alive.eventNames())
}

func TestDispatch_NilEventsAreNoOps(t *testing.T) {
	d := NewDispatcher(NewRegistry())

	require.NotPanics(t, func() {
		d.DispatchNewMessage(nil)
		d.DispatchNotification(nil)
		d.DispatchMessagesRead(nil)
		d.DispatchTypingStarted(nil, nil)
		d.DispatchTypingStopped(nil, nil)
		d.DispatchNewPost(nil)
	})
}
