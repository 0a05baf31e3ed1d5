package memory

import (
	"context"
	"time"

	"github.com/Srushti-17/Docolab/internal/entity"
	"github.com/Srushti-17/Docolab/internal/repository/contract"
	"github.com/Srushti-17/Docolab/internal/repository/specification"

	"github.com/patrickmn/go-cache"
)

// CachedUserRepository decorates the identity-directory reads with a short
// TTL cache. The directory is external and effectively append-only from this
// core's point of view, so brief staleness is acceptable.
type CachedUserRepository struct {
	inner contract.UserRepository
	cache *cache.Cache
}

func NewCachedUserRepository(inner contract.UserRepository) contract.UserRepository {
	// Entries expire after 5 minutes, purge sweep every 10.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &CachedUserRepository{
		inner: inner,
		cache: c,
	}
}

func (r *CachedUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	key, cacheable := cacheKey(specs)
	if cacheable {
		if x, found := r.cache.Get(key); found {
			return x.(*entity.User), nil
		}
	}

	user, err := r.inner.FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	// Absence is not cached: a user may register between lookups.
	if cacheable && user != nil {
		r.cache.Set(key, user, cache.DefaultExpiration)
	}
	return user, nil
}

func (r *CachedUserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return r.inner.FindAll(ctx, specs...)
}

// cacheKey only recognizes single exact-match lookups; anything else goes
// straight to the database.
func cacheKey(specs []specification.Specification) (string, bool) {
	if len(specs) != 1 {
		return "", false
	}
	switch s := specs[0].(type) {
	case specification.ByID:
		return "id:" + s.ID.String(), true
	case specification.ByEmail:
		return "email:" + s.Email, true
	default:
		return "", false
	}
}
