package auth

import (
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	token, err := m.Issue("user-123", "sam@example.com")

	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if token == "" {
		t.Fatalf("Issue returned empty token")
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("got userID %q, want %q", claims.UserID, "user-123")
	}

	if claims.Email != "sam@example.com" {
		t.Errorf("got email %q, want %q", claims.Email, "sam@example.com")
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected iat and exp to be set")
	}

	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("got ttl %v, want %v", got, time.Hour)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{name: "zero_ttl", ttl: 0},
		{name: "past_expiry", ttl: -time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("test-secret-key", tt.ttl)

			token, err := m.Issue("user-123", "sam@example.com")

			if err != nil {
				t.Fatalf("Issue returned error: %v", err)
			}

			if _, err := m.Verify(token); err == nil {
				t.Fatalf("expected expired token to be rejected")
			}
		})
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-one", time.Hour)
	verifier := NewManager("secret-two", time.Hour)

	token, err := issuer.Issue("user-123", "sam@example.com")

	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expected signature mismatch to be rejected")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(raw); err == nil {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	token, err := m.Issue("user-123", "sam@example.com")

	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"

	if _, err := m.Verify(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}
