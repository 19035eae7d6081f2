package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims of a Rubie's Chat session.
// The token is the session: it is issued on sign-in, carried in the session cookie
// (or an Authorization header for API clients), and never stored server side.
type Payload struct {
	// StandardClaims carries Exp, Iat, Iss and Sub; Sub mirrors ID.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the user's identifier.
	ID string `json:"id"`

	// Email is the address the user signed in with. It keys presence lookups.
	Email string `json:"email"`

	// Name is the display name at the time the token was issued.
	Name string `json:"name"`

	// Image is the avatar URL at the time the token was issued.
	Image string `json:"image,omitempty"`

	// Provider records how the session was established: "credentials", "github" or "google".
	Provider string `json:"provider"`
}
