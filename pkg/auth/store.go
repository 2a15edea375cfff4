package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/schoolattendance/backend/models/auth"
)

// CredentialStore looks up one credential row by normalised username.
// A miss is reported as (nil, nil).
type CredentialStore interface {
	TeacherByUsername(ctx context.Context, username string) (*auth.TeacherCredential, error)
	CentralOfficeUserByUsername(ctx context.Context, username string) (*auth.CentralOfficeCredential, error)
}

// MemoryStore is an in-process CredentialStore.
type MemoryStore struct {
	mu       sync.RWMutex
	teachers map[string]auth.TeacherCredential
	office   map[string]auth.CentralOfficeCredential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teachers: make(map[string]auth.TeacherCredential),
		office:   make(map[string]auth.CentralOfficeCredential),
	}
}

// AddTeacher stores c under its normalised username. An empty ID is replaced
// with a new UUID.
func (s *MemoryStore) AddTeacher(c auth.TeacherCredential) (auth.TeacherCredential, error) {
	c.Username = auth.NormalizeUsername(c.Username)
	if c.Username == "" {
		return c, fmt.Errorf("username must not be empty")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[c.Username]; ok {
		return c, fmt.Errorf("teacher %q already exists", c.Username)
	}
	s.teachers[c.Username] = c
	return c, nil
}

func (s *MemoryStore) AddCentralOfficeUser(c auth.CentralOfficeCredential) (auth.CentralOfficeCredential, error) {
	c.Username = auth.NormalizeUsername(c.Username)
	if c.Username == "" {
		return c, fmt.Errorf("username must not be empty")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.office[c.Username]; ok {
		return c, fmt.Errorf("central office user %q already exists", c.Username)
	}
	s.office[c.Username] = c
	return c, nil
}

func (s *MemoryStore) TeacherByUsername(ctx context.Context, username string) (*auth.TeacherCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.teachers[username]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) CentralOfficeUserByUsername(ctx context.Context, username string) (*auth.CentralOfficeCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.office[username]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
