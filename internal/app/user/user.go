/*
Package user contains the denormalized user representation carried inside
wire payloads.

The delivery layer never re-queries the record store, so every record that
crosses the socket embeds the sender or participant data clients need to
render it.
*/
package user

// Summary is the denormalized slice of a user account embedded in messages,
// notifications, and posts.
type Summary struct {

	// ID is the unique identifier of the user. It is also the routing key of
	// the user's personal notification channel.
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is included where the original record exposes it (chat
	// participant lists).
	Email string `json:"email,omitempty"`

	// ProfilePicture is the URL of the user's avatar.
	ProfilePicture string `json:"profilePicture,omitempty"`
}
