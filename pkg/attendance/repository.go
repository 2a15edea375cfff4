// Package attendance owns the attendance record write path and its query
// surface. (school_id, section, date) identifies a record; a later
// submission for the same key replaces the stored counts.
package attendance

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/schoolattendance/backend/internal/logger"
	"github.com/schoolattendance/backend/models/attendance"
	"github.com/schoolattendance/backend/pkg/apperr"
)

// UnknownSchoolName is shown for records whose school cannot be resolved.
const UnknownSchoolName = "Unknown"

// Store persists records. Upsert must resolve key collisions atomically in
// the datastore and apply the whole slice or nothing. Query must return
// records in SortRecords order.
type Store interface {
	Upsert(ctx context.Context, recs []attendance.Record) ([]attendance.Record, error)
	Query(ctx context.Context, f attendance.Filter) ([]attendance.Record, error)
}

// SchoolNamer resolves school ids to display names.
type SchoolNamer interface {
	SchoolNames(ctx context.Context, ids []string) (map[string]string, error)
}

type Repository struct {
	store    Store
	validate *validator.Validate
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store, validate: newValidator()}
}

// Upsert validates in and stores it, replacing any record with the same key.
func (r *Repository) Upsert(ctx context.Context, in attendance.Input) (attendance.Record, error) {
	rec, err := r.validateInput(in)
	if err != nil {
		return attendance.Record{}, err
	}

	stored, err := r.store.Upsert(ctx, []attendance.Record{rec})
	if err != nil {
		return attendance.Record{}, r.storeFailure("upsert attendance", err, "school_id", rec.SchoolID, "section", string(rec.Section), "date", attendance.FormatDate(rec.Date))
	}
	return stored[0], nil
}

// UpsertBatch stores every row of b or none of them.
func (r *Repository) UpsertBatch(ctx context.Context, b attendance.BatchInput) (attendance.BatchResult, error) {
	recs, err := r.validateBatch(b)
	if err != nil {
		return attendance.BatchResult{}, err
	}

	stored, err := r.store.Upsert(ctx, recs)
	if err != nil {
		return attendance.BatchResult{}, r.storeFailure("upsert attendance batch", err, "school_id", b.SchoolID, "date", b.Date, "rows", len(recs))
	}
	return attendance.BatchResult{Count: len(stored), Records: stored}, nil
}

// Query returns matching records, most recent date first. No match is an
// empty slice.
func (r *Repository) Query(ctx context.Context, f attendance.Filter) ([]attendance.Record, error) {
	f, err := validateFilter(f)
	if err != nil {
		return nil, err
	}

	recs, err := r.store.Query(ctx, f)
	if err != nil {
		return nil, r.storeFailure("query attendance", err, "school_id", f.SchoolID)
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return recs, nil
}

// QueryWithSchools is Query with each record's school name attached.
func (r *Repository) QueryWithSchools(ctx context.Context, f attendance.Filter, names SchoolNamer) ([]attendance.RecordView, error) {
	recs, err := r.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, rec := range recs {
		if _, ok := seen[rec.SchoolID]; !ok {
			seen[rec.SchoolID] = struct{}{}
			ids = append(ids, rec.SchoolID)
		}
	}

	lookup, err := names.SchoolNames(ctx, ids)
	if err != nil {
		return nil, r.storeFailure("look up school names", err)
	}

	views := make([]attendance.RecordView, 0, len(recs))
	for _, rec := range recs {
		name, ok := lookup[rec.SchoolID]
		if !ok {
			name = UnknownSchoolName
		}
		views = append(views, attendance.RecordView{Record: rec, SchoolName: name})
	}
	return views, nil
}

// storeFailure logs a store error and returns it as the caller should see it.
// Validation failures detected by the datastore pass through unchanged.
func (r *Repository) storeFailure(op string, err error, args ...any) error {
	if apperr.IsValidation(err) {
		return err
	}
	logger.LogError("Failed to "+op, err, args...)
	return apperr.Storage(op, err)
}

// SortRecords orders records by date descending, then school id and section
// ascending by byte order.
func SortRecords(recs []attendance.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.SchoolID != b.SchoolID {
			return a.SchoolID < b.SchoolID
		}
		return a.Section < b.Section
	})
}
