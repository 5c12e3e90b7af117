/*
Package realtime implements the presence-aware delivery core.

This file defines the Dispatcher, which turns domain events into room
deliveries. Collaborators call it only after their durable write succeeded,
so nothing here ever propagates an error back: a missed live push degrades
to "the client sees the update on next fetch".
*/
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"linkup/internal/pkg/logx"
)

// Dispatcher fans domain events out to live sessions. Dispatches are
// serialized by an internal mutex: two messages sent to the same room are
// always delivered to every target of the first before any target of the
// second, which gives each recipient session FIFO order per room. Pushes
// are enqueue-and-return, so a slow client never stalls a dispatch.
type Dispatcher struct {
	registry *Registry
	router   *Router

	mu sync.Mutex

	logger zerolog.Logger
}

// NewDispatcher builds a Dispatcher over the given registry. The registry is
// injected rather than global so tests can run against fresh instances.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		router:   NewRouter(registry),
		logger:   logx.Logger().With().Str("component", "dispatcher").Logger(),
	}
}

// DispatchNewMessage delivers a chat message to the sessions currently
// joined to the chat room, excluding every session of the sender.
//
// Delivery is room-membership-gated, not identity-gated: a recipient whose
// session never joined the chat room gets no live push and only sees the
// message on its next fetch.
func (d *Dispatcher) DispatchNewMessage(ev *NewMessage) {
	if ev == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	targets := d.router.ResolveTargets(ev.ChatID, map[string]struct{}{ev.SenderID: {}})

	d.logger.Debug().
		Str("chat_id", ev.ChatID).
		Str("sender_id", ev.SenderID).
		Int("targets", len(targets)).
		Msg("Dispatching new message")

	d.deliver(Frame{Event: EventMessageReceived, Payload: ev.Message}, targets)
}

// DispatchNotification delivers a notification to every session of the
// recipient's personal channel. Personal channels are joined at setup, so
// this path reaches all of a user's sessions regardless of what they have
// joined since.
func (d *Dispatcher) DispatchNotification(ev *NotificationCreated) {
	if ev == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	targets := d.registry.SessionsFor(ev.RecipientID)

	d.logger.Debug().
		Str("recipient_id", ev.RecipientID).
		Str("type", ev.Notification.Type).
		Int("targets", len(targets)).
		Msg("Dispatching notification")

	d.deliver(Frame{Event: EventNotificationReceived, Payload: ev.Notification}, targets)
}

// DispatchMessagesRead broadcasts a read receipt to every session joined to
// the chat room, the reader's included, so all open views update.
func (d *Dispatcher) DispatchMessagesRead(ev *MessagesRead) {
	if ev == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	targets := d.registry.SessionsFor(ev.ChatID)

	frame := Frame{
		Event:   EventMessagesRead,
		Payload: messagesReadPayload{ChatID: ev.ChatID, UserID: ev.ReaderID},
	}

	d.deliver(frame, targets)
}

// DispatchTypingStarted broadcasts a typing indicator to the room, skipping
// only the originating session. Exclusion is per session, not per identity:
// another tab of the same user does receive the event.
func (d *Dispatcher) DispatchTypingStarted(ev *TypingStarted, origin Session) {
	if ev == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.deliver(Frame{Event: EventTyping}, d.withoutSession(d.registry.SessionsFor(ev.RoomID), origin))
}

// DispatchTypingStopped is the counterpart of DispatchTypingStarted.
func (d *Dispatcher) DispatchTypingStopped(ev *TypingStopped, origin Session) {
	if ev == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.deliver(Frame{Event: EventStopTyping}, d.withoutSession(d.registry.SessionsFor(ev.RoomID), origin))
}

// DispatchNewPost broadcasts a new post to every registered session,
// unconditionally. This is the one event that ignores rooms; unifying it
// with room routing would change observable behavior.
func (d *Dispatcher) DispatchNewPost(ev *NewPostBroadcast) {
	if ev == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	targets := d.registry.Sessions()

	d.logger.Debug().
		Str("post_id", ev.Post.ID).
		Int("targets", len(targets)).
		Msg("Broadcasting new post")

	d.deliver(Frame{Event: EventNewPost, Payload: ev.Post}, targets)
}

// withoutSession filters one session out of the target list.
func (d *Dispatcher) withoutSession(sessions []Session, origin Session) []Session {
	if origin == nil {
		return sessions
	}

	targets := sessions[:0]
	for _, s := range sessions {
		if s != origin {
			targets = append(targets, s)
		}
	}

	return targets
}

// deliver pushes the frame to each target. Zero targets is success. A push
// that panics (a dead transport misbehaving) is contained so the remaining
// targets still receive the frame.
func (d *Dispatcher) deliver(frame Frame, targets []Session) {
	for _, s := range targets {
		d.push(s, frame)
	}
}

func (d *Dispatcher) push(s Session, frame Frame) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn().
				Str("session_id", s.ID()).
				Str("event", frame.Event).
				Interface("panic", r).
				Msg("Push to session panicked, continuing with remaining targets")
		}
	}()

	s.Push(frame)
}
