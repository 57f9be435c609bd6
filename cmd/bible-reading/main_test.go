package main

import (
	"bytes"
	"strings"
	"testing"

	"serotonyl.ru/bible-reading/internal/auth"
	"serotonyl.ru/bible-reading/internal/features/admin"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	token, err := run(t, "token", "--user", "reader-1", "--ttl", "1h")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	userID, err := auth.NewManager("0123456789abcdef").ParseToken(token)
	if err != nil || userID != "reader-1" {
		t.Fatalf("ParseToken=%q, %v", userID, err)
	}

	if _, err := run(t, "token"); err == nil {
		t.Fatalf("token without --user succeeded")
	}
}

func TestHashPasswordCommand(t *testing.T) {
	hash, err := run(t, "hash-password", "s3cret")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	ok, err := admin.VerifyPassword("s3cret", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword=%v, %v (hash %q)", ok, err, hash)
	}

	if _, err := run(t, "hash-password"); err == nil {
		t.Fatalf("hash-password without argument succeeded")
	}
}
