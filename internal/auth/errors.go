package auth

import "errors"

// Validation failure kinds. Handlers collapse all of them into a single
// generic 401 so a caller cannot tell a forged token from an expired or
// revoked one; they stay distinct here for logging and tests.
var (
	ErrMalformedAuthHeader = errors.New("malformed authorization header")

	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrIssuerMismatch = errors.New("invalid token issuer")
	ErrMissingSubject = errors.New("no user id in token")

	ErrTokenNotFound = errors.New("refresh token not found")
	ErrTokenRevoked  = errors.New("refresh token revoked")
)
