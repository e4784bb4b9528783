package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

// ErrUserNotFound is returned when no user matches an identifier under
// the requested role/status filters.
var ErrUserNotFound = errors.New("user not found")

// LookupService resolves a human-supplied identifier (id, username or
// email) to a user of a given role. It has no side effects.
type LookupService struct {
	store  storage.Store
	logger *zap.Logger
}

// NewLookupService creates a new LookupService
func NewLookupService(store storage.Store, logger *zap.Logger) *LookupService {
	return &LookupService{
		store:  store,
		logger: logger.Named("lookup-service"),
	}
}

// FindByIdentifier resolves identifier to a user with the required role.
// When the identifier is syntactically a document id, an id match is
// attempted first; if the id does not resolve to a user satisfying the
// role/status filters, the lookup falls through to username/email.
// With requireActive set, only status=active users match.
func (s *LookupService) FindByIdentifier(ctx context.Context, identifier string, role domain.Role, requireActive bool) (*domain.User, error) {
	if identifier == "" {
		return nil, ErrUserNotFound
	}

	if domain.IsValidID(identifier) {
		user, err := s.store.Users().GetByID(ctx, identifier)
		if err == nil && s.eligible(user, role, requireActive) {
			return user, nil
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user by id: %w", err)
		}
	}

	user, err := s.store.Users().GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !s.eligible(user, role, requireActive) {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *LookupService) eligible(user *domain.User, role domain.Role, requireActive bool) bool {
	if user.Role != role {
		return false
	}
	if requireActive && !user.IsActive() {
		return false
	}
	return true
}
