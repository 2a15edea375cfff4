package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPasswordWithCost("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the password")
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "S3cret"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrPasswordMismatch", err)
	}
	if err := CheckPassword("garbage", "s3cret"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("malformed hash should be a distinct error, got %v", err)
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password must be rejected")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, _ := HashPasswordWithCost("same", bcrypt.MinCost)
	b, _ := HashPasswordWithCost("same", bcrypt.MinCost)
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}
