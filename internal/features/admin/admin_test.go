package admin

import (
	"errors"
	"testing"
	"time"

	"serotonyl.ru/bible-reading/internal/common"
)

// Лёгкие параметры, чтобы тесты не тратили 64 MB на хеш
var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	ok, err := VerifyPassword("s3cret", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword(correct)=%v, %v", ok, err)
	}
	ok, err = VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Fatalf("VerifyPassword(wrong)=%v, %v", ok, err)
	}

	other, _ := HashPassword("s3cret", testParams)
	if other == hash {
		t.Fatalf("two hashes of the same password share a salt")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	for _, h := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		if _, err := VerifyPassword("pw", h); !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("VerifyPassword(%q) err=%v, want ErrInvalidHash", h, err)
		}
	}
}

func TestAuthenticateLockout(t *testing.T) {
	hash, err := HashPassword("s3cret", testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	clock := &common.FixedClock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(hash, clock)

	if err := svc.Authenticate("10.0.0.1", "s3cret"); err != nil {
		t.Fatalf("correct password: %v", err)
	}
	for i := 0; i < MaxAttempts; i++ {
		if err := svc.Authenticate("10.0.0.1", "nope"); !errors.Is(err, ErrBadPassword) {
			t.Fatalf("attempt %d: err=%v", i, err)
		}
	}
	if err := svc.Authenticate("10.0.0.1", "s3cret"); !errors.Is(err, ErrTooManyTries) {
		t.Fatalf("locked address: err=%v, want ErrTooManyTries", err)
	}
	if err := svc.Authenticate("10.0.0.2", "s3cret"); err != nil {
		t.Fatalf("other address must not be locked: %v", err)
	}

	clock.Advance(AttemptWindow + time.Second)
	if err := svc.Authenticate("10.0.0.1", "s3cret"); err != nil {
		t.Fatalf("lock must expire after the window: %v", err)
	}
}

func TestDisabled(t *testing.T) {
	svc := NewService("", common.SystemClock{})
	if svc.Enabled() {
		t.Fatalf("empty hash must disable admin")
	}
	if err := svc.Authenticate("x", "y"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err=%v, want ErrDisabled", err)
	}
}
