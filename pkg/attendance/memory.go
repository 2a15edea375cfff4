package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/schoolattendance/backend/models/attendance"
)

// MemoryStore keeps records in process. A single mutex serialises writes,
// so concurrent upserts of one key never produce two rows.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]attendance.Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]attendance.Record),
		now:     time.Now,
	}
}

func memoryKey(k attendance.Key) string {
	return k.SchoolID + "\x00" + string(k.Section) + "\x00" + attendance.FormatDate(k.Date)
}

func (s *MemoryStore) Upsert(ctx context.Context, recs []attendance.Record) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	out := make([]attendance.Record, 0, len(recs))
	for _, rec := range recs {
		rec.Date = attendance.NormalizeDate(rec.Date)
		key := memoryKey(rec.Key())

		if existing, ok := s.records[key]; ok {
			existing.BoysPresent = rec.BoysPresent
			existing.GirlsPresent = rec.GirlsPresent
			existing.TeacherID = rec.TeacherID
			existing.UpdatedAt = now
			rec = existing
		} else {
			rec.ID = uuid.NewString()
			rec.CreatedAt = now
			rec.UpdatedAt = now
		}
		s.records[key] = rec
		out = append(out, rec)
	}
	return out, nil
}

func (s *MemoryStore) Query(ctx context.Context, f attendance.Filter) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	out := make([]attendance.Record, 0)
	for _, rec := range s.records {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	s.mu.Unlock()

	SortRecords(out)
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
