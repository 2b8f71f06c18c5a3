package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"contentboost/models"
)

func TestTokensIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(models.User{ID: "user-1", Username: "maya"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims["user_id"] != "user-1" || claims["username"] != "maya" {
		t.Fatalf("unexpected claims %v", claims)
	}

	if _, err := NewTokens("other", time.Hour).Parse(raw); err == nil {
		t.Fatalf("token signed with another secret must not verify")
	}
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	raw, _ := tokens.Issue(models.User{ID: "user-1"})

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := tokens.Parse(raw); err == nil {
		t.Fatalf("expired token accepted")
	}
	if _, err := tokens.Refresh(raw); err == nil {
		t.Fatalf("expired token refreshed")
	}
}

func TestTokensRejectNoneAlgAndMissingUser(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "user-1"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := tokens.Parse(raw); err == nil {
		t.Fatalf("unsigned token accepted")
	}

	anon, _ := tokens.sign("", "nobody")
	if _, err := tokens.Parse(anon); err == nil {
		t.Fatalf("token without user id accepted")
	}
}
