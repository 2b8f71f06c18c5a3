// middleware/token.go
package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"contentboost/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and verifies the HS256 bearer tokens handed out at login.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(u models.User) (string, error) {
	return t.sign(u.ID, u.Username)
}

// Refresh re-signs a still valid token with a fresh expiry.
func (t *Tokens) Refresh(raw string) (string, error) {
	claims, err := t.Parse(raw)
	if err != nil {
		return "", err
	}
	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	return t.sign(userID, username)
}

func (t *Tokens) Parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if id, _ := claims["user_id"].(string); id == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (t *Tokens) sign(userID, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      t.now().Add(t.ttl).Unix(),
	})
	return token.SignedString(t.secret)
}
