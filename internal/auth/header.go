package auth

import "strings"

// BearerToken extracts the access token from an Authorization header value.
// The Bearer scheme is case-sensitive and must be the leading token;
// whitespace around the credential is trimmed.
func BearerToken(header string) (string, error) {
	return credentialFromHeader(header, "Bearer")
}

// APIKey extracts a trusted-caller key from an Authorization header value
// using the ApiKey scheme. Same contract as BearerToken.
func APIKey(header string) (string, error) {
	return credentialFromHeader(header, "ApiKey")
}

func credentialFromHeader(header, scheme string) (string, error) {
	if header == "" {
		return "", ErrMalformedAuthHeader
	}
	rest, ok := strings.CutPrefix(header, scheme)
	if !ok {
		return "", ErrMalformedAuthHeader
	}
	// The scheme must be a whole token, not a prefix of a longer word.
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", ErrMalformedAuthHeader
	}
	cred := strings.TrimSpace(rest)
	if cred == "" {
		return "", ErrMalformedAuthHeader
	}
	return cred, nil
}
