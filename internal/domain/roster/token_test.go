package roster

import (
	"testing"
	"time"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, err := tokens.Issue("coach")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Subject != "coach" || claims.ID == "" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	tokens.now = func() time.Time { return issued }
	signed, err := tokens.Issue("coach")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	tokens.now = time.Now
	if _, err := tokens.Parse(signed); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestTokensRejectForeignSecret(t *testing.T) {
	signed, err := NewTokens("one", time.Hour).Issue("coach")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := NewTokens("two", time.Hour).Parse(signed); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
	if _, err := NewTokens("one", time.Hour).Parse("not-a-token"); err == nil {
		t.Fatal("garbage must be rejected")
	}
}
