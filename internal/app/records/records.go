/*
Package records defines the denormalized record shapes produced by the record
store and rendered by clients.

These structs are the wire contract of the delivery layer: a record pushed
over a socket must be field-compatible with the same record fetched over the
API, because clients render both the same way.
*/
package records

import (
	"time"

	"linkup/internal/app/user"
)

// Notification types accepted by the store and carried on the wire.
const (
	NotificationLike       = "like"
	NotificationComment    = "comment"
	NotificationConnection = "connection"
	NotificationMessage    = "message"
)

// Chat is a conversation between two or more users. Users is always fully
// populated; the delivery layer derives message recipients from it.
type Chat struct {
	ID      string         `json:"id"`
	Name    string         `json:"chatName,omitempty"`
	IsGroup bool           `json:"isGroupChat"`
	Users   []user.Summary `json:"users"`
}

// Message is a chat message with its sender and chat populated.
type Message struct {
	ID        string       `json:"id"`
	Chat      Chat         `json:"chat"`
	Sender    user.Summary `json:"sender"`
	Content   string       `json:"content"`
	Media     []string     `json:"media,omitempty"`
	ReadBy    []string     `json:"readBy"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Notification is a populated notification record. PostID is set for like
// and comment notifications only.
type Notification struct {
	ID        string       `json:"id"`
	Recipient string       `json:"recipient"`
	Sender    user.Summary `json:"sender"`
	Type      string       `json:"type"`
	PostID    string       `json:"post,omitempty"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Post is a feed post with its author populated.
type Post struct {
	ID        string       `json:"id"`
	Author    user.Summary `json:"user"`
	Content   string       `json:"content"`
	Image     string       `json:"image,omitempty"`
	Likes     []string     `json:"likes"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ParticipantIDs returns the ids of every user in the chat.
func (c Chat) ParticipantIDs() []string {
	ids := make([]string, 0, len(c.Users))
	for _, u := range c.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

// HasParticipant reports whether the given user is a member of the chat.
func (c Chat) HasParticipant(userID string) bool {
	for _, u := range c.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}
