package school

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/schoolattendance/backend/models/school"
	"github.com/schoolattendance/backend/pkg/apperr"
	"github.com/schoolattendance/backend/pkg/db"
)

// Directory is the read side of school reference data.
type Directory interface {
	ListSchools(ctx context.Context) ([]school.School, error)
	SchoolNames(ctx context.Context, ids []string) (map[string]string, error)
}

// PostgresDirectory serves Directory from the schools table.
type PostgresDirectory struct {
	db *db.DB
}

func NewPostgresDirectory(db *db.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) ListSchools(ctx context.Context) ([]school.School, error) {
	schools, err := ListSchools(ctx, d.db)
	return schools, apperr.Storage("list schools", err)
}

func (d *PostgresDirectory) SchoolNames(ctx context.Context, ids []string) (map[string]string, error) {
	names, err := GetSchoolNames(ctx, d.db, ids)
	return names, apperr.Storage("look up school names", err)
}

// MemoryDirectory is an in-process Directory.
type MemoryDirectory struct {
	mu      sync.RWMutex
	schools map[string]school.School
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{schools: make(map[string]school.School)}
}

// Add registers a school. An empty id is replaced with a new UUID.
func (d *MemoryDirectory) Add(s school.School) school.School {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	d.mu.Lock()
	d.schools[s.ID] = s
	d.mu.Unlock()
	return s
}

func (d *MemoryDirectory) ListSchools(ctx context.Context) ([]school.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	out := make([]school.School, 0, len(d.schools))
	for _, s := range d.schools {
		out = append(out, s)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (d *MemoryDirectory) SchoolNames(ctx context.Context, ids []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if s, ok := d.schools[id]; ok {
			names[id] = s.Name
		}
	}
	return names, nil
}
