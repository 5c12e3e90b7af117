package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the identity token payload. Tokens are issued by the
// account service and shared with this server through the signing secret;
// the socket layer binds sessions to the UserID carried here.
type Claims struct {
	// StandardClaims embeds the JWT standard fields (Exp, Iat, Iss) used
	// for validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the unique identifier of the authenticated user. It doubles
	// as the personal notification channel key on the socket layer.
	UserID string `json:"uid"`

	// Name is the display name of the user, carried for logging context.
	Name string `json:"name"`
}
