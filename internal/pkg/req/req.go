/*
Package req provides helpers for HTTP request parsing and data binding.

It wraps JSON body decoding with strict field checking so handlers get
well-formed input or a ready-to-send business error.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"linkup/internal/pkg/errs"
)

// MaxBodyBytes caps the request body size accepted by BindJSON (1 MB). The
// API carries records and ids only; media go through presigned uploads.
const MaxBodyBytes int64 = 1 << 20

// BindJSON decodes the JSON request body into dst. Unknown fields and
// trailing content are rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
