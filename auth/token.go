package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the cookie token. The token only
// carries the opaque session id; everything else lives server side in
// the session store.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// TokenSigner signs and verifies the session cookie token.
type TokenSigner struct {
	key []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{key: []byte(secret)}
}

// Sign creates a signed token for a session id, valid for ttl.
// Reissued on every authenticated request so the expiry rolls.
func (s *TokenSigner) Sign(sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "plaza",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// Parse validates the signature and expiry and returns the session id.
func (s *TokenSigner) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return "", err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims.SessionID, nil
	}
	return "", jwt.ErrSignatureInvalid
}
