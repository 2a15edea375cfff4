package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/schoolattendance/backend/models/attendance"
	"github.com/schoolattendance/backend/pkg/apperr"
	"github.com/schoolattendance/backend/pkg/db"
)

const recordColumns = "id, school_id, section, date, boys_present, girls_present, teacher_id, created_at, updated_at"

// upsertSQL relies on the attendance_records_school_section_date_key
// constraint; the row lock taken by ON CONFLICT serialises racing writers.
const upsertSQL = `INSERT INTO attendance_records (school_id, section, date, boys_present, girls_present, teacher_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (school_id, section, date) DO UPDATE
SET boys_present = EXCLUDED.boys_present,
    girls_present = EXCLUDED.girls_present,
    teacher_id = EXCLUDED.teacher_id,
    updated_at = now()
RETURNING ` + recordColumns

// PostgresStore stores records in the attendance_records table.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, recs []attendance.Record) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	if len(recs) == 1 {
		rec, err := scanRecord(s.db.Pool().QueryRow(ctx, upsertSQL, upsertArgs(recs[0])...))
		if err != nil {
			return nil, classifyWriteError(err)
		}
		return []attendance.Record{rec}, nil
	}

	out := make([]attendance.Record, 0, len(recs))
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, rec := range recs {
			batch.Queue(upsertSQL, upsertArgs(rec)...)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range recs {
			rec, err := scanRecord(results.QueryRow())
			if err != nil {
				results.Close()
				return fmt.Errorf("failed to upsert row %d: %w", i, err)
			}
			out = append(out, rec)
		}
		return results.Close()
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}
	return out, nil
}

func (s *PostgresStore) Query(ctx context.Context, f attendance.Filter) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var (
		conds []string
		args  []any
	)
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.SchoolID != "" {
		args = append(args, f.SchoolID)
		conds = append(conds, fmt.Sprintf("school_id = $%d", len(args)))
	}
	if f.Section != "" {
		args = append(args, string(f.Section))
		conds = append(conds, fmt.Sprintf("section = $%d", len(args)))
	}

	query := "SELECT " + recordColumns + " FROM attendance_records"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// COLLATE "C" keeps tie-breaks in byte order, matching SortRecords.
	query += ` ORDER BY date DESC, school_id COLLATE "C", section COLLATE "C"`

	rows, err := s.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (attendance.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	return recs, nil
}

func upsertArgs(rec attendance.Record) []any {
	return []any{rec.SchoolID, string(rec.Section), rec.Date, rec.BoysPresent, rec.GirlsPresent, rec.TeacherID}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		rec     attendance.Record
		section string
	)
	err := row.Scan(&rec.ID, &rec.SchoolID, &section, &rec.Date, &rec.BoysPresent, &rec.GirlsPresent, &rec.TeacherID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Section = attendance.Section(section)
	rec.Date = attendance.NormalizeDate(rec.Date)
	return rec, nil
}

// classifyWriteError maps constraint violations to validation failures.
func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503": // foreign_key_violation
		if strings.Contains(pgErr.ConstraintName, "teacher") {
			return apperr.Invalid("teacher_id", "does not exist")
		}
		return apperr.Invalid("school_id", "does not exist")
	case "23514": // check_violation
		return apperr.Invalid("", "attendance values violate a table constraint")
	default:
		return err
	}
}
