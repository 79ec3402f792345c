package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-wardlow/tt/internal/oauth"
)

// stateClaims is the OAuth state parameter: a short-lived signed token
// binding the callback to the provider that started the flow.
type stateClaims struct {
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

func issueState(secret string, p oauth.Provider, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := stateClaims{
		Provider: string(p),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseState validates the signed state and checks it belongs to the
// provider handling the callback.
func parseState(secret, raw string, p oauth.Provider) error {
	parsed, err := jwt.ParseWithClaims(raw, &stateClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	claims, ok := parsed.Claims.(*stateClaims)
	if !ok || !parsed.Valid {
		return errors.New("invalid state token")
	}
	if claims.Provider != string(p) {
		return errors.New("state issued for a different provider")
	}
	return nil
}
