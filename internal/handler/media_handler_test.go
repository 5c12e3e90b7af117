package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linkup/internal/pkg/auth/jwt"
	"linkup/internal/pkg/errs"
	"linkup/internal/pkg/resp"
)

// fakeMediaStorage records storage calls without touching a real backend.
type fakeMediaStorage struct {
	deleted   []string
	deleteErr error
}

func (f *fakeMediaStorage) PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

func (f *fakeMediaStorage) PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error) {
	return "https://storage.test/download/" + key, nil
}

func (f *fakeMediaStorage) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

// authedJSONRequest builds a request that already passed identity extraction.
func authedJSONRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	ctx := context.WithValue(r.Context(), jwt.ContextClaimsKey, &jwt.Claims{UserID: "u1"})
	return r.WithContext(ctx)
}

func TestValidateMedia(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		fileSize int64
		wantCode int
	}{
		{"valid jpeg", "photo.jpg", "image/jpeg", 1024, 0},
		{"valid mp4", "clip.mp4", "video/mp4", MaxMediaSize, 0},
		{"uppercase mime accepted", "photo.PNG", "IMAGE/PNG", 1024, 0},
		{"zero size", "photo.jpg", "image/jpeg", 0, errs.ErrInvalidParams},
		{"negative size", "photo.jpg", "image/jpeg", -1, errs.ErrInvalidParams},
		{"over limit", "photo.jpg", "image/jpeg", MaxMediaSize + 1, errs.ErrFileSizeTooLarge},
		{"disallowed type", "doc.pdf", "application/pdf", 1024, errs.ErrFileTypeInvalid},
		{"extension mismatch", "photo.png", "image/jpeg", 1024, errs.ErrFileTypeInvalid},
		{"no extension", "photo", "image/jpeg", 1024, errs.ErrFileTypeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMedia(tt.fileName, tt.mimeType, tt.fileSize)
			if tt.wantCode == 0 {
				require.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			require.Equal(t, tt.wantCode, err.Code)
		})
	}
}

func TestHandleDeleteMedia_RemovesStoredFile(t *testing.T) {
	media := &fakeMediaStorage{}
	deps := &AppDeps{Media: media}

	w := httptest.NewRecorder()
	r := authedJSONRequest(t, http.MethodPost, "/api/media/delete", `{"key":"chat_media/c1/file.jpg"}`)

	HandleDeleteMedia(deps)(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"chat_media/c1/file.jpg"}, media.deleted)
}

func TestHandleDeleteMedia_RejectsForeignKey(t *testing.T) {
	media := &fakeMediaStorage{}
	deps := &AppDeps{Media: media}

	w := httptest.NewRecorder()
	r := authedJSONRequest(t, http.MethodPost, "/api/media/delete", `{"key":"other_prefix/file.jpg"}`)

	HandleDeleteMedia(deps)(w, r)

	var body resp.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, errs.ErrInvalidParams, body.Code)
	require.Empty(t, media.deleted)
}

func TestHandleDeleteMedia_ReportsStorageFailure(t *testing.T) {
	media := &fakeMediaStorage{deleteErr: errors.New("backend unavailable")}
	deps := &AppDeps{Media: media}

	w := httptest.NewRecorder()
	r := authedJSONRequest(t, http.MethodPost, "/api/media/delete", `{"key":"chat_media/c1/file.jpg"}`)

	HandleDeleteMedia(deps)(w, r)

	var body resp.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, errs.ErrStorageFailed, body.Code)
}

func TestHandleDeleteMedia_RequiresIdentity(t *testing.T) {
	media := &fakeMediaStorage{}
	deps := &AppDeps{Media: media}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/media/delete", strings.NewReader(`{"key":"chat_media/c1/file.jpg"}`))
	r.Header.Set("Content-Type", "application/json")

	HandleDeleteMedia(deps)(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, media.deleted)
}
