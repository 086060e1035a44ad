package model

import (
	"testing"
	"time"
)

func TestTokenStateTerminal(t *testing.T) {
	if TokenStatePending.Terminal() {
		t.Error("pending must not be terminal")
	}
	for _, s := range []TokenState{TokenStateConsumed, TokenStateExpired, TokenStateRevoked} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestTokenStateTransitions(t *testing.T) {
	all := []TokenState{TokenStatePending, TokenStateConsumed, TokenStateExpired, TokenStateRevoked}

	for _, next := range []TokenState{TokenStateConsumed, TokenStateExpired, TokenStateRevoked} {
		if !TokenStatePending.CanTransitionTo(next) {
			t.Errorf("pending -> %s must be allowed", next)
		}
	}
	if TokenStatePending.CanTransitionTo(TokenStatePending) {
		t.Error("pending -> pending must not be allowed")
	}

	for _, from := range all {
		if from == TokenStatePending {
			continue
		}
		for _, next := range all {
			if from.CanTransitionTo(next) {
				t.Errorf("%s -> %s must not be allowed", from, next)
			}
		}
	}
}

func TestAccessTokenExpiredAt(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &AccessToken{ExpiresAt: expiry}

	if token.ExpiredAt(expiry.Add(-time.Second)) {
		t.Error("token must still be live one second before expiry")
	}
	if !token.ExpiredAt(expiry) {
		t.Error("token must be expired exactly at the expiry instant")
	}
	if !token.ExpiredAt(expiry.Add(time.Hour)) {
		t.Error("token must be expired after the expiry instant")
	}
}
