/*
Package handler provides the HTTP handlers and routing for the LinkUp
delivery server.

This file contains the chat media presign endpoints. Clients upload files
directly against presigned URLs and put the resulting keys on their
messages; the server never touches file bytes.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"linkup/internal/pkg/errs"
	"linkup/internal/pkg/logx"
	"linkup/internal/pkg/req"
	"linkup/internal/pkg/resp"
)

const (
	// MaxMediaSize is the per-file upload limit (10 MB).
	MaxMediaSize = 10 * 1024 * 1024

	// PresignDuration is how long a presigned URL stays valid.
	PresignDuration = 5 * time.Minute
)

// allowedMediaTypes lists the MIME types accepted for chat media and
// profile pictures.
var allowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"video/mp4":  {},
}

// extToMIME maps file extensions to their expected MIME types.
var extToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
}

// validateMedia checks name, type, and size of a declared upload.
func validateMedia(fileName, mimeType string, fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if fileSize > MaxMediaSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	lowerMIME := strings.ToLower(mimeType)
	if _, ok := allowedMediaTypes[lowerMIME]; !ok {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expected, ok := extToMIME[ext]
	if !ok || expected != lowerMIME {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	return nil
}

// PresignUploadInput is the request body for requesting an upload URL.
type PresignUploadInput struct {
	ChatID   string `json:"chatId"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignMediaUpload validates the declared file and returns a
// presigned upload URL plus the storage key to reference on the message.
func HandlePresignMediaUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, authErr := requireIdentity(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input PresignUploadInput
		if bindErr := req.BindJSON(w, r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		if input.ChatID == "" || input.FileName == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if validateErr := validateMedia(input.FileName, input.MimeType, input.FileSize); validateErr != nil {
			resp.RespondError(w, r, validateErr)
			return
		}

		ext := strings.ToLower(filepath.Ext(input.FileName))
		key := fmt.Sprintf("chat_media/%s/%s%s", input.ChatID, uuid.New().String(), ext)

		url, err := deps.Media.PresignUpload(r.Context(), key, strings.ToLower(input.MimeType), input.FileSize, PresignDuration)
		if err != nil {
			logx.Error(err, "Failed to presign media upload", "user_id", claims.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"uploadUrl": url,
			"fileKey":   key,
		})
	}
}

// DeleteMediaInput is the request body for removing an uploaded file.
type DeleteMediaInput struct {
	Key string `json:"key"`
}

// HandleDeleteMedia removes an uploaded file, for clients backing out of a
// send after the upload already happened.
func HandleDeleteMedia(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, authErr := requireIdentity(r); authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input DeleteMediaInput
		if bindErr := req.BindJSON(w, r, &input); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		if input.Key == "" || !strings.HasPrefix(input.Key, "chat_media/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Media.Delete(r.Context(), input.Key); err != nil {
			logx.Error(err, "Failed to delete media", "key", input.Key)
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]bool{"success": true})
	}
}

// HandlePresignMediaDownload returns a presigned download URL for a stored
// media key.
func HandlePresignMediaDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, authErr := requireIdentity(r); authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		key := r.URL.Query().Get("key")
		if key == "" || !strings.HasPrefix(key, "chat_media/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.Media.PresignDownload(r.Context(), key, PresignDuration)
		if err != nil {
			logx.Error(err, "Failed to presign media download", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"downloadUrl": url})
	}
}
