package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
	"github.com/classpoint/school-backend/internal/storage/memory"
	"github.com/classpoint/school-backend/pkg/config"
)

func storageListQuery() storage.ListQuery {
	q := storage.ListQuery{}
	q.Normalize()
	return q
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Storage: config.StorageConfig{Type: "memory"},
		JWT: config.JWTConfig{
			Secret:      "test-secret-key-for-testing-only",
			Issuer:      "test-issuer",
			ExpiryHours: 24,
		},
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// testServices wires every service against a fresh memory store.
func testServices(t *testing.T) (*Services, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewServices(store, testConfig(), testLogger()), store
}

func seedUser(t *testing.T, store *memory.Store, role domain.Role, username string) *domain.User {
	t.Helper()
	return seedUserWithStatus(t, store, role, username, domain.StatusActive)
}

func seedUserWithStatus(t *testing.T, store *memory.Store, role domain.Role, username string, status domain.Status) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        domain.NewUserID(),
		Username:  username,
		Email:     username + "@school.test",
		Role:      role,
		Status:    status,
		FirstName: "Test",
		LastName:  username,
	}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func seedSubject(t *testing.T, store *memory.Store, name string) *domain.Subject {
	t.Helper()
	subject := &domain.Subject{
		ID:         domain.NewSubjectID(),
		Name:       name,
		SchoolYear: "2026-2027",
		StudentIDs: []string{},
	}
	if err := store.Subjects().Create(context.Background(), subject); err != nil {
		t.Fatalf("failed to seed subject %s: %v", name, err)
	}
	return subject
}

// reloadSubject fetches the stored state after service mutations.
func reloadSubject(t *testing.T, store *memory.Store, id string) *domain.Subject {
	t.Helper()
	subject, err := store.Subjects().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload subject %s: %v", id, err)
	}
	return subject
}

func reloadUser(t *testing.T, store *memory.Store, id string) *domain.User {
	t.Helper()
	user, err := store.Users().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload user %s: %v", id, err)
	}
	return user
}
