/*
Package realtime implements the presence-aware delivery core: the in-memory
presence registry, the room router, the event dispatcher, and the live
delivery sessions.

This file defines the outbound wire frame and the event names clients key on.
*/
package realtime

// Outbound event names. These strings are the socket wire contract and must
// not change; clients match on them verbatim.
const (
	EventConnected            = "connected"
	EventNotificationReceived = "notification received"
	EventMessageReceived      = "message received"
	EventMessagesRead         = "messages read"
	EventTyping               = "typing"
	EventStopTyping           = "stop typing"
	EventNewPost              = "new post"
)

// Inbound lifecycle signal names emitted by live connections.
const (
	SignalSetup      = "setup"
	SignalJoinChat   = "join chat"
	SignalTyping     = "typing"
	SignalStopTyping = "stop typing"
)

// Frame is the envelope pushed to a session: a named event plus its payload.
type Frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// messagesReadPayload is the payload of a "messages read" frame.
type messagesReadPayload struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}
