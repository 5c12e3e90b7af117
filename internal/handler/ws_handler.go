/*
Package handler provides the HTTP handlers and routing for the LinkUp
delivery server.

This file contains the WebSocket endpoint: rate limiting, token
authentication, the connection upgrade, and the session lifecycle. Identity
binding itself happens when the client sends its "setup" signal over the
established socket.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"linkup/internal/app/realtime"
	"linkup/internal/pkg/auth/jwt"
	"linkup/internal/pkg/errs"
	"linkup/internal/pkg/limiter"
	"linkup/internal/pkg/logx"
	"linkup/internal/pkg/resp"
)

// HandleWebSocket processes WebSocket connection requests. Browsers cannot
// set headers on a socket upgrade, so the identity token travels in the
// "token" query parameter.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			logx.Warn("WebSocket request rejected: Missing token")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		claims, err := jwt.ParseToken(token, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		// A token without a user id would produce a session that can never
		// bind to a personal channel.
		if claims.UserID == "" {
			logx.Warn("WebSocket request rejected: Token carries no user id")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		session := realtime.NewWSSession(conn, claims.UserID, deps.Registry, deps.Dispatcher)

		go session.WritePump()

		logx.Info("WebSocket connection established", "user_id", claims.UserID, "session_id", session.ID())

		session.ReadPump()
	}
}
