package services

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.Issue("frag_user", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	username, err := svc.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if username != "frag_user" {
		t.Errorf("subject = %q, want frag_user", username)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.Issue("frag_user", time.Now().Add(-TokenTTL-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Verify(token); err == nil {
		t.Error("expired token must fail verification")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("frag_user", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenService("secret-b").Verify(token); err == nil {
		t.Error("token signed with another secret must fail")
	}
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(bad); err == nil {
			t.Errorf("Verify(%q) should fail", bad)
		}
	}
}
