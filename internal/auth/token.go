package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer is the iss claim stamped into every access token. Validation
// rejects tokens minted by anything else, so a token signed with the same
// secret by another service is still unusable here.
const TokenIssuer = "chirpy"

// MakeJWT issues a stateless HS256-signed access token for the given user.
// Claims are exactly {iss, sub, iat, exp}; a negative ttl produces a token
// that is already expired, which is occasionally useful in tests.
func MakeJWT(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateJWT verifies the signature and claims of an access token and
// returns the subject user id. Failure kinds are distinguishable via
// errors.Is (ErrTokenInvalid, ErrTokenExpired, ErrIssuerMismatch,
// ErrMissingSubject) but callers at the HTTP boundary must collapse them
// into a single unauthenticated response.
func ValidateJWT(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if claims.Issuer != TokenIssuer {
		return "", ErrIssuerMismatch
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
