/*
Package handler provides the HTTP handlers and routing for the LinkUp
delivery server.

This file contains the connection-request collaborator.
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

// ConnectionRequestInput is the request body for sending a connection request.
type ConnectionRequestInput struct {
	ReceiverID string `json:"receiverId"`
}

// HandleConnectionRequest records a pending connection and notifies the
// receiver on their personal channel, so every open tab sees it.
func HandleConnectionRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, authErr := requireIdentity(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input ConnectionRequestInput
		if bindErr := req.BindJSON(w, r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		if input.ReceiverID == "" || input.ReceiverID == claims.UserID {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		err := deps.Store.SaveConnectionRequest(r.Context(), claims.UserID, input.ReceiverID)
		if errors.Is(err, store.ErrDuplicate) {
			resp.RespondError(w, r, errs.NewError(errs.ErrConnectionExists))
			return
		}
		if err != nil {
			logx.Error(err, "Failed to save connection request", "receiver_id", input.ReceiverID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		n, err := deps.Store.SaveNotification(r.Context(), input.ReceiverID, claims.UserID, records.NotificationConnection, "")
		if err != nil {
			logx.Error(err, "Failed to save connection notification", "receiver_id", input.ReceiverID)
			resp.RespondSuccess(w, r, map[string]bool{"success": true})
			return
		}

		ev, err := realtime.NotificationCreatedEvent(n)
		if err != nil {
			logx.Error(err, "Refusing to dispatch malformed notification event", "notification_id", n.ID)
		} else {
			deps.Dispatcher.DispatchNotification(ev)
		}

		resp.RespondSuccess(w, r, n)
	}
}
