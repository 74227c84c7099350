package utils

import (
	"github.com/lestrrat-go/jwx/jwt"
)

// SubjectFromToken extracts the subject claim from a bearer token issued by
// the auth provider. The token signature is not verified here: the service sits
// behind the provider's session handling and only needs the stable user id.
func SubjectFromToken(token string) (string, error) {
	if token == "" {
		return "", Unauthorized("missing token")
	}

	parsed, err := jwt.ParseString(token)
	if err != nil {
		return "", Unauthorized("invalid token: " + err.Error())
	}

	sub := parsed.Subject()
	if sub == "" {
		return "", Unauthorized("no user id in token")
	}
	return sub, nil
}

// EmailFromToken returns the email claim when present, empty otherwise.
func EmailFromToken(token string) string {
	parsed, err := jwt.ParseString(token)
	if err != nil {
		return ""
	}
	if email, ok := parsed.Get("email"); ok {
		if s, ok := email.(string); ok {
			return s
		}
	}
	return ""
}
