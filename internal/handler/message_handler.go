/*
Package handler provides the HTTP handlers and routing for the LinkUp
delivery server.

This file contains the messaging collaborators: sending a message and
marking a chat read. Each performs its durable write first and dispatches
the domain event after, so a missed live push can always be recovered on the
client's next fetch.
*/
package handler

import (
	"errors"
	"net/http"

	"linkup/internal/app/realtime"
	"linkup/internal/app/records"
	"linkup/internal/app/store"
	"linkup/internal/pkg/errs"
	"linkup/internal/pkg/logx"
	"linkup/internal/pkg/req"
	"linkup/internal/pkg/resp"
)

// MaxMessageContentBytes caps the text content of a chat message.
const MaxMessageContentBytes = 5000

// SendMessageInput is the request body for sending a chat message.
type SendMessageInput struct {
	ChatID  string   `json:"chatId"`
	Content string   `json:"content"`
	Media   []string `json:"media,omitempty"`
}

// HandleSendMessage persists a chat message, then pushes it to the sessions
// joined to the chat room and a message notification to each recipient's
// personal channel.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, authErr := requireIdentity(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input SendMessageInput
		if bindErr := req.BindJSON(w, r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		if input.ChatID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if input.Content == "" && len(input.Media) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentEmpty))
			return
		}
		if len(input.Content) > MaxMessageContentBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentTooLong))
			return
		}

		chat, err := deps.Store.ChatByID(r.Context(), input.ChatID)
		if errors.Is(err, store.ErrNotFound) {
			resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
			return
		}
		if err != nil {
			logx.Error(err, "Failed to load chat", "chat_id", input.ChatID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !chat.HasParticipant(claims.UserID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotChatParticipant))
			return
		}

		msg, err := deps.Store.SaveMessage(r.Context(), chat, claims.UserID, input.Content, input.Media)
		if err != nil {
			logx.Error(err, "Failed to save message", "chat_id", input.ChatID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// Durable write done; everything below is best-effort live delivery.
		dispatchMessage(deps, r, msg)

		resp.RespondSuccess(w, r, msg)
	}
}

// dispatchMessage fans a persisted message out: the message itself to the
// chat room, plus a notification per recipient.
func dispatchMessage(deps *AppDeps, r *http.Request, msg records.Message) {
	ev, err := realtime.NewMessageEvent(msg)
	if err != nil {
		// A malformed event here means the store returned an unpopulated
		// record, which is a bug worth a loud log, not a client error.
		logx.Error(err, "Refusing to dispatch malformed message event", "message_id", msg.ID)
		return
	}

	deps.Dispatcher.DispatchNewMessage(ev)

	for _, recipientID := range ev.RecipientIDs {
		n, err := deps.Store.SaveNotification(r.Context(), recipientID, msg.Sender.ID, records.NotificationMessage, "")
		if err != nil {
			logx.Error(err, "Failed to save message notification", "recipient_id", recipientID)
			continue
		}

		nev, err := realtime.NotificationCreatedEvent(n)
		if err != nil {
			logx.Error(err, "Refusing to dispatch malformed notification event", "notification_id", n.ID)
			continue
		}

		deps.Dispatcher.DispatchNotification(nev)
	}
}

// MarkReadInput is the request body for marking a chat read.
type MarkReadInput struct {
	ChatID string `json:"chatId"`
}

// HandleMarkMessagesRead records that the caller caught up on a chat and
// broadcasts the read receipt to the chat room.
func HandleMarkMessagesRead(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, authErr := requireIdentity(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input MarkReadInput
		if bindErr := req.BindJSON(w, r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		if input.ChatID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Store.MarkMessagesRead(r.Context(), input.ChatID, claims.UserID); err != nil {
			logx.Error(err, "Failed to mark messages read", "chat_id", input.ChatID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		ev, err := realtime.MessagesReadEvent(input.ChatID, claims.UserID)
		if err != nil {
			logx.Error(err, "Refusing to dispatch malformed messages read event", "chat_id", input.ChatID)
		} else {
			deps.Dispatcher.DispatchMessagesRead(ev)
		}

		resp.RespondSuccess(w, r, map[string]bool{"success": true})
	}
}
