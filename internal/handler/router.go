/*
Package handler provides the HTTP handlers and routing for the LinkUp
delivery server.

This file assembles the main router: CORS, request logging, identity
extraction, per-IP rate limits, the collaborator API routes, and the
WebSocket endpoint.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"linkup/internal/pkg/auth/jwt"
	"linkup/internal/pkg/limiter"
	"linkup/internal/pkg/logx"
	"linkup/internal/pkg/resp"
)

const (
	// MessageRate and MessageBurst bound per-IP message sends.
	MessageRate  = 2.0
	MessageBurst = 10

	// ConnectRate and ConnectBurst bound per-IP socket connections.
	ConnectRate  = 0.2
	ConnectBurst = 5
)

// Router builds the HTTP routing table: global middleware, the API surface,
// and the WebSocket upgrade endpoint.
func Router(deps *AppDeps) http.Handler {
	messageLimiter := limiter.NewIPRateLimiter(rate.Limit(MessageRate), MessageBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "LinkUp Delivery Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractor(deps.Config.JWTSecret))

		api.Route("/messages", func(msg chi.Router) {
			msg.With(messageLimiter.Middleware).Post("/", HandleSendMessage(deps))
			msg.Post("/read", HandleMarkMessagesRead(deps))
		})

		api.Post("/connections/request", HandleConnectionRequest(deps))

		api.Route("/posts", func(posts chi.Router) {
			posts.Post("/", HandleCreatePost(deps))
			posts.Post("/{id}/like", HandleLikePost(deps))
			posts.Post("/{id}/comments", HandleCommentPost(deps))
		})

		api.Post("/media/presign-upload", HandlePresignMediaUpload(deps))
		api.Get("/media/presign-download", HandlePresignMediaDownload(deps))
		api.Post("/media/delete", HandleDeleteMedia(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
