package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// PlayerClaims identifies a seated player for websocket authentication.
type PlayerClaims struct {
	SessionToken string `json:"session_token"`
	PlayerID     string `json:"player_id"`
	jwt.RegisteredClaims
}

// IssuePlayerToken signs a token binding a player to a session.
func IssuePlayerToken(secret, sessionToken, playerID string, ttl time.Duration) (string, error) {
	claims := PlayerClaims{
		SessionToken: sessionToken,
		PlayerID:     playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyPlayerToken validates a player token and returns its claims.
func VerifyPlayerToken(secret, tokenString string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
