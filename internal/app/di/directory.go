// Package di wires infrastructure into the auth feature.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "unseen/internal/feature/auth/adapters"
	"unseen/internal/feature/auth/usecase"
	"unseen/internal/platform/cache"
)

// NewUserRepository creates the UserRepository behind the User Directory.
// A nil db selects the in-memory implementation; otherwise GORM is used.
// The Redis read-through cache wraps the GORM repository only: cached entries
// would outlive an in-memory directory across restarts.
func NewUserRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) usecase.UserRepository {
	if db == nil {
		return authadapters.NewUserMemory()
	}
	repo := authadapters.NewUserGorm(db)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, cacheTTL, repo, "users")
	}
	return repo
}
