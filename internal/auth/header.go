package auth

import "strings"

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", newError(MissingHeader, nil)
	}

	parts := strings.Fields(header)
	switch {
	case len(parts) == 0 || !strings.EqualFold(parts[0], "bearer"):
		return "", newHeaderError(`Authorization header must start with "Bearer".`)
	case len(parts) == 1:
		return "", newHeaderError("Token not found.")
	case len(parts) > 2:
		return "", newHeaderError("Authorization header must be bearer token.")
	}

	return parts[1], nil
}
