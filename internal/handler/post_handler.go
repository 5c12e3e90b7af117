/*
Package handler provides the HTTP handlers and routing for the LinkUp
delivery server.

This file contains the feed collaborators: creating a post (broadcast to
every connected session) and interacting with one (notification to the
author's personal channel).
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkup/internal/app/realtime"
	"linkup/internal/app/records"
	"linkup/internal/app/store"
	"linkup/internal/pkg/errs"
	"linkup/internal/pkg/logx"
	"linkup/internal/pkg/req"
	"linkup/internal/pkg/resp"
)

// CreatePostInput is the request body for publishing a post.
type CreatePostInput struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// HandleCreatePost persists a post and broadcasts it to every connected
// session. The feed broadcast is deliberately global, not room-scoped.
func HandleCreatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, authErr := requireIdentity(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input CreatePostInput
		if bindErr := req.BindJSON(w, r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		if input.Content == "" && input.Image == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		post, err := deps.Store.SavePost(r.Context(), claims.UserID, input.Content, input.Image)
		if err != nil {
			logx.Error(err, "Failed to save post")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		ev, err := realtime.NewPostEvent(post)
		if err != nil {
			logx.Error(err, "Refusing to dispatch malformed post event", "post_id", post.ID)
		} else {
			deps.Dispatcher.DispatchNewPost(ev)
		}

		resp.RespondSuccess(w, r, post)
	}
}

// HandleLikePost records a like and notifies the post author. Liking your
// own post, or liking twice, produces no notification.
func HandleLikePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, authErr := requireIdentity(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		postID := chi.URLParam(r, "id")
		if postID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		post, err := deps.Store.PostByID(r.Context(), postID)
		if errors.Is(err, store.ErrNotFound) {
			resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
			return
		}
		if err != nil {
			logx.Error(err, "Failed to load post", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		liked, err := deps.Store.LikePost(r.Context(), postID, claims.UserID)
		if err != nil {
			logx.Error(err, "Failed to save like", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if liked && post.Author.ID != claims.UserID {
			notifyPostInteraction(deps, r, post, claims.UserID, records.NotificationLike)
		}

		resp.RespondSuccess(w, r, map[string]bool{"liked": liked})
	}
}

// CommentInput is the request body for commenting on a post.
type CommentInput struct {
	Content string `json:"content"`
}

// HandleCommentPost records a comment and notifies the post author, unless
// the author commented on their own post.
func HandleCommentPost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, authErr := requireIdentity(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		postID := chi.URLParam(r, "id")
		if postID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var input CommentInput
		if bindErr := req.BindJSON(w, r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		if input.Content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		post, err := deps.Store.PostByID(r.Context(), postID)
		if errors.Is(err, store.ErrNotFound) {
			resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
			return
		}
		if err != nil {
			logx.Error(err, "Failed to load post", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.SaveComment(r.Context(), postID, claims.UserID, input.Content); err != nil {
			logx.Error(err, "Failed to save comment", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if post.Author.ID != claims.UserID {
			notifyPostInteraction(deps, r, post, claims.UserID, records.NotificationComment)
		}

		resp.RespondSuccess(w, r, map[string]bool{"success": true})
	}
}

// notifyPostInteraction persists a like/comment notification for the post
// author and dispatches it to their personal channel.
func notifyPostInteraction(deps *AppDeps, r *http.Request, post records.Post, senderID, notifType string) {
	n, err := deps.Store.SaveNotification(r.Context(), post.Author.ID, senderID, notifType, post.ID)
	if err != nil {
		logx.Error(err, "Failed to save post interaction notification", "post_id", post.ID)
		return
	}

	ev, err := realtime.NotificationCreatedEvent(n)
	if err != nil {
		logx.Error(err, "Refusing to dispatch malformed notification event", "notification_id", n.ID)
		return
	}

	deps.Dispatcher.DispatchNotification(ev)
}
