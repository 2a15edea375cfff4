// Command add-user provisions schools and login credentials.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	constants "github.com/schoolattendance/backend/internal/constants"
	"github.com/schoolattendance/backend/internal/logger"
	authmodel "github.com/schoolattendance/backend/models/auth"
	"github.com/schoolattendance/backend/pkg/auth"
	"github.com/schoolattendance/backend/pkg/db"
	"github.com/schoolattendance/backend/pkg/school"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "school", "teacher", "central-office":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := run(context.Background(), command, args); err != nil {
		logger.LogError("Failed to "+command, err)
		os.Exit(1)
	}
}

// run owns the pool so its deferred Close runs before main exits.
func run(ctx context.Context, command string, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	connectionString := os.Getenv(constants.DATABASE_URL)
	if connectionString == "" {
		return fmt.Errorf("%s environment variable is not set", constants.DATABASE_URL)
	}

	conn, err := db.NewDB(ctx, connectionString, db.WithMaxConns(2))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	switch command {
	case "school":
		return addSchool(ctx, conn, args)
	case "teacher":
		return addTeacher(ctx, conn, args)
	case "central-office":
		return addCentralOfficeUser(ctx, conn, args)
	}
	return fmt.Errorf("unknown command %q", command)
}

func addSchool(ctx context.Context, conn *db.DB, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: add-user school <name>")
	}
	s, err := school.CreateSchool(ctx, conn, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("School created: %s (%s)\n", s.Name, s.ID)
	return nil
}

func addTeacher(ctx context.Context, conn *db.DB, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: add-user teacher <username> <password> <school_id> [full name]")
	}

	s, err := school.GetSchoolByID(ctx, conn, args[2])
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("school %s does not exist", args[2])
	}

	hash, err := auth.HashPassword(args[1])
	if err != nil {
		return err
	}
	c := authmodel.TeacherCredential{
		Username:     args[0],
		PasswordHash: hash,
		SchoolID:     s.ID,
	}
	if len(args) > 3 {
		name := strings.Join(args[3:], " ")
		c.FullName = &name
	}

	created, err := auth.NewPostgresStore(conn).CreateTeacher(ctx, c)
	if err != nil {
		return err
	}
	fmt.Printf("Teacher created: %s (%s) at %s\n", created.Username, created.ID, s.Name)
	return nil
}

func addCentralOfficeUser(ctx context.Context, conn *db.DB, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: add-user central-office <username> <password>")
	}

	hash, err := auth.HashPassword(args[1])
	if err != nil {
		return err
	}
	created, err := auth.NewPostgresStore(conn).CreateCentralOfficeUser(ctx, authmodel.CentralOfficeCredential{
		Username:     args[0],
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Central office user created: %s (%s)\n", created.Username, created.ID)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stdout, `Usage: add-user <command> [arguments]

Commands:
  school <name>                                        Create a school
  teacher <username> <password> <school_id> [name]     Create a teacher login
  central-office <username> <password>                 Create a central office login

Environment Variables:
  %s        Database connection URL (also read from .env)
`, constants.DATABASE_URL)
}
