package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolattendance/backend/models/auth"
	"github.com/schoolattendance/backend/pkg/db"
)

// PostgresStore reads credentials from the teachers and central_office_users tables.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) TeacherByUsername(ctx context.Context, username string) (*auth.TeacherCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	c := &auth.TeacherCredential{}
	err := s.db.Pool().QueryRow(ctx,
		"SELECT id, username, password_hash, school_id, full_name FROM teachers WHERE lower(username) = $1",
		username,
	).Scan(&c.ID, &c.Username, &c.PasswordHash, &c.SchoolID, &c.FullName)
	switch err {
	case pgx.ErrNoRows:
		return nil, nil
	case nil:
		return c, nil
	default:
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
}

func (s *PostgresStore) CentralOfficeUserByUsername(ctx context.Context, username string) (*auth.CentralOfficeCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	c := &auth.CentralOfficeCredential{}
	err := s.db.Pool().QueryRow(ctx,
		"SELECT id, username, password_hash FROM central_office_users WHERE lower(username) = $1",
		username,
	).Scan(&c.ID, &c.Username, &c.PasswordHash)
	switch err {
	case pgx.ErrNoRows:
		return nil, nil
	case nil:
		return c, nil
	default:
		return nil, fmt.Errorf("failed to get central office user: %w", err)
	}
}

// CreateTeacher inserts a teacher credential. Username is normalised first.
func (s *PostgresStore) CreateTeacher(ctx context.Context, c auth.TeacherCredential) (*auth.TeacherCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	c.Username = auth.NormalizeUsername(c.Username)
	err := s.db.Pool().QueryRow(ctx,
		`INSERT INTO teachers (username, password_hash, school_id, full_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		c.Username, c.PasswordHash, c.SchoolID, c.FullName,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCentralOfficeUser(ctx context.Context, c auth.CentralOfficeCredential) (*auth.CentralOfficeCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	c.Username = auth.NormalizeUsername(c.Username)
	err := s.db.Pool().QueryRow(ctx,
		`INSERT INTO central_office_users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id`,
		c.Username, c.PasswordHash,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create central office user: %w", err)
	}
	return &c, nil
}
