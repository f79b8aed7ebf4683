package session

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestInspectToken(t *testing.T) {
	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	expires := issued.Add(2 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "demo",
		"iat": issued.Unix(),
		"exp": expires.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := InspectToken(signed)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.Subject != "demo" {
		t.Fatalf("subject %q, want demo", claims.Subject)
	}
	if !claims.IssuedAt.Equal(issued) {
		t.Fatalf("issued %v, want %v", claims.IssuedAt, issued)
	}
	if !claims.ExpiresAt.Equal(expires) {
		t.Fatalf("expires %v, want %v", claims.ExpiresAt, expires)
	}
	if claims.Expired(time.Now()) {
		t.Fatal("token should not be expired yet")
	}
	if !claims.Expired(expires.Add(time.Minute)) {
		t.Fatal("token should be expired after exp")
	}
}

func TestInspectTokenOpaque(t *testing.T) {
	if _, err := InspectToken("not-a-jwt"); err == nil {
		t.Fatal("expected error for opaque token")
	}
}

func TestClaimsWithoutExpiryNeverExpire(t *testing.T) {
	if (Claims{}).Expired(time.Now()) {
		t.Fatal("zero expiry must not count as expired")
	}
}
