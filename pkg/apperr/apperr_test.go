package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageWrapsOnce(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("upsert attendance", cause)
	if !IsStorage(err) {
		t.Fatal("expected StorageError")
	}
	if !errors.Is(err, cause) {
		t.Fatal("StorageError should unwrap to its cause")
	}
	if err.Error() != "storage: failed to upsert attendance" {
		t.Errorf("message leaks detail: %q", err.Error())
	}

	again := Storage("other op", fmt.Errorf("wrapped: %w", err))
	var se *StorageError
	if !errors.As(again, &se) || se.Op != "upsert attendance" {
		t.Errorf("expected the original StorageError to survive, got %v", again)
	}

	if Storage("noop", nil) != nil {
		t.Error("Storage(nil) should be nil")
	}
}

func TestClassification(t *testing.T) {
	v := Invalid("section", "must be one of 1A 1B 2 3 4 5")
	if !IsValidation(v) || IsStorage(v) || IsAuthFailure(v) {
		t.Error("validation error misclassified")
	}
	if v.Error() != "section: must be one of 1A 1B 2 3 4 5" {
		t.Errorf("unexpected message %q", v.Error())
	}
	a := &AuthFailure{Message: "nope"}
	if !IsAuthFailure(fmt.Errorf("login: %w", a)) {
		t.Error("wrapped AuthFailure not detected")
	}
}
