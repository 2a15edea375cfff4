// Package auth verifies teacher and central office credentials and encodes
// the resulting identity for transport between requests.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/schoolattendance/backend/internal/logger"
	"github.com/schoolattendance/backend/models/auth"
	"github.com/schoolattendance/backend/pkg/apperr"
)

// InvalidCredentialsMessage is the only failure text shown for a bad login,
// whether the user is unknown or the password is wrong.
const InvalidCredentialsMessage = "invalid username or password"

var ErrInvalidCredentials = &apperr.AuthFailure{Message: InvalidCredentialsMessage}

var ErrInvalidRole = apperr.Invalid("role", "must be teacher or central_office")

type Service struct {
	store CredentialStore
}

func NewService(store CredentialStore) *Service {
	return &Service{store: store}
}

// Authenticate checks username and password against the credential table for
// role. Failures are ErrInvalidRole, ErrInvalidCredentials or a StorageError.
func (s *Service) Authenticate(ctx context.Context, username, password string, role auth.Role) (auth.Identity, error) {
	if !role.Valid() {
		return auth.Identity{}, ErrInvalidRole
	}
	if err := ctx.Err(); err != nil {
		return auth.Identity{}, err
	}

	username = auth.NormalizeUsername(username)
	if username == "" || password == "" {
		return auth.Identity{}, ErrInvalidCredentials
	}

	var (
		hash     string
		identity auth.Identity
		found    bool
	)
	switch role {
	case auth.RoleTeacher:
		c, err := s.store.TeacherByUsername(ctx, username)
		if err != nil {
			logger.LogError("Failed to look up teacher", err, "username", username)
			return auth.Identity{}, apperr.Storage("look up credentials", err)
		}
		if c != nil {
			hash, identity, found = c.PasswordHash, c.Identity(), true
		}
	case auth.RoleCentralOffice:
		c, err := s.store.CentralOfficeUserByUsername(ctx, username)
		if err != nil {
			logger.LogError("Failed to look up central office user", err, "username", username)
			return auth.Identity{}, apperr.Storage("look up credentials", err)
		}
		if c != nil {
			hash, identity, found = c.PasswordHash, c.Identity(), true
		}
	default:
		return auth.Identity{}, ErrInvalidRole
	}

	if !found {
		logger.LogDebug("No credential for username", "username", username, "role", role.String())
		burnPasswordCheck(password)
		return auth.Identity{}, ErrInvalidCredentials
	}

	if err := CheckPassword(hash, password); err != nil {
		if !errors.Is(err, ErrPasswordMismatch) {
			logger.LogWarn("Stored password hash is unusable", "username", username, "role", role.String(), "error", err)
		}
		return auth.Identity{}, ErrInvalidCredentials
	}

	return identity, nil
}

// AuthenticateWithRoleName parses roleName before authenticating.
func (s *Service) AuthenticateWithRoleName(ctx context.Context, username, password, roleName string) (auth.Identity, error) {
	role, err := auth.ParseRole(strings.TrimSpace(roleName))
	if err != nil {
		return auth.Identity{}, ErrInvalidRole
	}
	return s.Authenticate(ctx, username, password, role)
}
