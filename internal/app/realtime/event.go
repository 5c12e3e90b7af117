/*
Package realtime implements the presence-aware delivery core.

This file defines the closed set of domain events the dispatcher accepts.
Events are immutable once constructed and carry fully denormalized records;
the delivery layer never queries the record store. Constructors validate the
routing fields so a collaborator bug surfaces at construction time instead of
being swallowed during dispatch.
*/
package realtime

import (
	"errors"

	"linkup/internal/app/records"
)

// DomainEvent is the closed union of events the dispatcher handles. Only
// types in this package implement it.
type DomainEvent interface {
	domainEvent()
}

// NewMessage announces a message persisted to a chat. Routing for live
// delivery goes through the chat-room id; RecipientIDs documents the durable
// membership the collaborator resolved at construction time.
type NewMessage struct {
	Message      records.Message
	ChatID       string
	SenderID     string
	RecipientIDs []string
}

// NotificationCreated announces a notification persisted for one user. It
// routes to the recipient's personal channel.
type NotificationCreated struct {
	Notification records.Notification
	RecipientID  string
}

// MessagesRead announces that a reader caught up on a chat.
type MessagesRead struct {
	ChatID   string
	ReaderID string
}

// TypingStarted announces keyboard activity in a chat room.
type TypingStarted struct {
	RoomID string
}

// TypingStopped announces the end of keyboard activity in a chat room.
type TypingStopped struct {
	RoomID string
}

// NewPostBroadcast announces a new feed post to every connected session.
// Unlike the other events it is not room-scoped; posts go server-wide to
// every registered session.
type NewPostBroadcast struct {
	Post records.Post
}

func (NewMessage) domainEvent()          {}
func (NotificationCreated) domainEvent() {}
func (MessagesRead) domainEvent()        {}
func (TypingStarted) domainEvent()       {}
func (TypingStopped) domainEvent()       {}
func (NewPostBroadcast) domainEvent()    {}

// NewMessageEvent builds a NewMessage from a populated message record. The
// recipient list is derived from the chat's participants minus the sender.
func NewMessageEvent(msg records.Message) (*NewMessage, error) {
	if msg.Chat.ID == "" {
		return nil, errors.New("new message event: missing chat id")
	}
	if msg.Sender.ID == "" {
		return nil, errors.New("new message event: missing sender id")
	}

	participants := msg.Chat.ParticipantIDs()
	recipients := make([]string, 0, len(participants))
	for _, id := range participants {
		if id != msg.Sender.ID {
			recipients = append(recipients, id)
		}
	}

	if len(recipients) == 0 {
		return nil, errors.New("new message event: chat has no recipients")
	}

	return &NewMessage{
		Message:      msg,
		ChatID:       msg.Chat.ID,
		SenderID:     msg.Sender.ID,
		RecipientIDs: recipients,
	}, nil
}

// NotificationCreatedEvent builds a NotificationCreated from a populated
// notification record.
func NotificationCreatedEvent(n records.Notification) (*NotificationCreated, error) {
	if n.Recipient == "" {
		return nil, errors.New("notification event: missing recipient id")
	}

	return &NotificationCreated{
		Notification: n,
		RecipientID:  n.Recipient,
	}, nil
}

// MessagesReadEvent builds a MessagesRead event.
func MessagesReadEvent(chatID, readerID string) (*MessagesRead, error) {
	if chatID == "" {
		return nil, errors.New("messages read event: missing chat id")
	}
	if readerID == "" {
		return nil, errors.New("messages read event: missing reader id")
	}

	return &MessagesRead{ChatID: chatID, ReaderID: readerID}, nil
}

// TypingStartedEvent builds a TypingStarted event.
func TypingStartedEvent(roomID string) (*TypingStarted, error) {
	if roomID == "" {
		return nil, errors.New("typing event: missing room id")
	}

	return &TypingStarted{RoomID: roomID}, nil
}

// TypingStoppedEvent builds a TypingStopped event.
func TypingStoppedEvent(roomID string) (*TypingStopped, error) {
	if roomID == "" {
		return nil, errors.New("stop typing event: missing room id")
	}

	return &TypingStopped{RoomID: roomID}, nil
}

// NewPostEvent builds a NewPostBroadcast from a populated post record.
func NewPostEvent(p records.Post) (*NewPostBroadcast, error) {
	if p.ID == "" {
		return nil, errors.New("new post event: missing post id")
	}

	return &NewPostBroadcast{Post: p}, nil
}
