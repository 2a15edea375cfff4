// Command hash-password prints a bcrypt hash for seeding credential rows by hand.
package main

import (
	"fmt"
	"os"

	"github.com/schoolattendance/backend/internal/logger"
	"github.com/schoolattendance/backend/pkg/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: hash-password <password>")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		logger.LogError("Failed to hash password", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
