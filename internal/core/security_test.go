// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Correct12345!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("Correct12345!", hash)
	if err != nil || !ok {
		t.Fatalf("verify correct password: ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("Wrong12345!!", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, _ := HashPassword("Correct12345!")
	b, _ := HashPassword("Correct12345!")

	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("x", "not-a-hash"); err == nil {
		t.Fatal("malformed hash must error")
	}
}

func TestPasswordNeedsRehash(t *testing.T) {
	fresh, err := HashPassword("Correct12345!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if PasswordNeedsRehash(fresh) {
		t.Error("a digest from current parameters must not need a rehash")
	}

	legacy := strings.Replace(fresh, "m=65536", "m=32768", 1)
	if legacy == fresh {
		t.Fatal("expected to rewrite the memory parameter")
	}
	if !PasswordNeedsRehash(legacy) {
		t.Error("a digest with drifted cost parameters must need a rehash")
	}

	if !PasswordNeedsRehash("not-a-hash") {
		t.Error("an undecodable digest must need a rehash")
	}
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	// A nil digest always reports false, never an error, after burning the
	// same work as a real verification.
	ok, err := VerifyPasswordTimingSafe("anything", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("nil digest must never verify")
	}

	empty := ""
	ok, err = VerifyPasswordTimingSafe("anything", &empty)
	if err != nil || ok {
		t.Fatalf("empty digest must never verify: ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordTimingSafeRealHash(t *testing.T) {
	hash, _ := HashPassword("Correct12345!")

	ok, err := VerifyPasswordTimingSafe("Correct12345!", &hash)
	if err != nil || !ok {
		t.Fatalf("real digest must verify: ok=%v err=%v", ok, err)
	}
}

func TestSecureTokenGeneration(t *testing.T) {
	a, err := NewTokenSecret()
	if err != nil {
		t.Fatalf("token secret: %v", err)
	}
	b, _ := NewTokenSecret()

	if a == b {
		t.Fatal("token secrets must be unique")
	}
	if len(a) == 0 {
		t.Fatal("token secret must not be empty")
	}

	sid, err := NewSessionID()
	if err != nil {
		t.Fatalf("session id: %v", err)
	}
	if sid == a {
		t.Fatal("independent identifiers must differ")
	}
}
