package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for new hashes.
const PasswordCost = bcrypt.DefaultCost

var ErrPasswordMismatch = errors.New("password does not match")

func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, PasswordCost)
}

func HashPasswordWithCost(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword returns nil when password matches hash, ErrPasswordMismatch
// when it does not, and another error when hash is malformed.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck runs one comparison against a throwaway hash so a lookup
// miss takes as long as a wrong password.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), PasswordCost)
		if err == nil {
			dummyHash = string(h)
		}
	})
	if dummyHash != "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	}
}
