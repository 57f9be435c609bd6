package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("0123456789abcdef")

	token, err := m.GenerateToken("user-42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	userID, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != "user-42" {
		t.Fatalf("userID=%q", userID)
	}
}

func TestParseTokenRejects(t *testing.T) {
	m := NewManager("0123456789abcdef")
	other := NewManager("fedcba9876543210")

	foreign, _ := other.GenerateToken("user-42", time.Hour)
	if _, err := m.ParseToken(foreign); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("foreign token err=%v", err)
	}

	past := time.Now().Add(-2 * time.Hour)
	old := &Manager{secret: m.secret, now: func() time.Time { return past }}
	expired, _ := old.GenerateToken("user-42", time.Hour)
	if _, err := m.ParseToken(expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expired token err=%v", err)
	}

	if _, err := m.GenerateToken("", time.Hour); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("empty subject err=%v", err)
	}
	if _, err := m.ParseToken("garbage"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, ok := TokenFromRequest(r)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("%q: got %q,%v want %q,%v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUserIDContext(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatalf("empty context has user")
	}
	ctx := WithUserID(context.Background(), "u1")
	if id, ok := UserIDFromContext(ctx); !ok || id != "u1" {
		t.Fatalf("got %q,%v", id, ok)
	}
}
