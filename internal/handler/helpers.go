package handler

import (
	"net/http"

	"linkup/internal/pkg/auth/jwt"
	"linkup/internal/pkg/errs"
)

// requireIdentity returns the caller's validated claims or an unauthorized
// business error. Handlers on authenticated routes call this first.
func requireIdentity(r *http.Request) (*jwt.Claims, *errs.CustomError) {
	claims := jwt.ClaimsFromContext(r)
	if claims == nil || claims.UserID == "" {
		return nil, errs.NewError(errs.ErrUnauthorized)
	}

	return claims, nil
}
