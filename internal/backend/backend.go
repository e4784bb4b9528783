// Package backend selects and constructs the storage implementation
// from configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/classpoint/school-backend/internal/storage"
	"github.com/classpoint/school-backend/internal/storage/memory"
	"github.com/classpoint/school-backend/internal/storage/mongodb"
	"github.com/classpoint/school-backend/pkg/config"
)

// Type defines the type of storage backend
type Type string

const (
	// TypeMemory uses in-memory storage (for testing/development)
	TypeMemory Type = "memory"
	// TypeMongoDB uses MongoDB storage (for production)
	TypeMongoDB Type = "mongodb"
)

// New creates a storage backend based on the configuration
func New(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch Type(cfg.Storage.Type) {
	case TypeMemory:
		return memory.NewStore(), nil
	case TypeMongoDB:
		return mongodb.NewStore(ctx, &cfg.Storage.MongoDB)
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Storage.Type)
	}
}
