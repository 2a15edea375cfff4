package school

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolattendance/backend/models/school"
	"github.com/schoolattendance/backend/pkg/db"
)

// ListSchools returns every school ordered by name.
func ListSchools(ctx context.Context, db *db.DB) ([]school.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	rows, err := db.Pool().Query(ctx, "SELECT id, name FROM schools ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	schools, err := pgx.CollectRows(rows, pgx.RowToStructByName[school.School])
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

func GetSchoolByID(ctx context.Context, db *db.DB, id string) (*school.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	s := &school.School{}
	err := db.Pool().QueryRow(ctx, "SELECT id, name FROM schools WHERE id = $1", id).Scan(&s.ID, &s.Name)
	switch err {
	case pgx.ErrNoRows:
		return nil, nil
	case nil:
		return s, nil
	default:
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
}

// GetSchoolNames maps each known id to its school name. Unknown ids are absent.
func GetSchoolNames(ctx context.Context, db *db.DB, ids []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := db.Pool().Query(ctx, "SELECT id, name FROM schools WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get school names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan school: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get school names: %w", err)
	}
	return names, nil
}

func CreateSchool(ctx context.Context, db *db.DB, name string) (*school.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	s := &school.School{}
	err := db.Pool().QueryRow(ctx, "INSERT INTO schools (name) VALUES ($1) RETURNING id, name", name).Scan(&s.ID, &s.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create school: %w", err)
	}
	return s, nil
}
