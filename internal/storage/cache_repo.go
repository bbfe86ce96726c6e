package storage

import (
	"time"

	"github.com/foqos/foqos/internal/model"
)

// CachedProfileRepo stores the local copy of remote user profiles. It is read
// and written concurrently by foreground fetches and background refreshes;
// Badger transactions make individual reads and writes safe, and conflicting
// writes resolve last-write-wins.
type CachedProfileRepo struct {
	db *DB
}

// NewCachedProfileRepo creates a new cached profile repository.
func NewCachedProfileRepo(db *DB) *CachedProfileRepo {
	return &CachedProfileRepo{db: db}
}

// Get retrieves the cache record for a user, or ErrKeyNotFound.
func (r *CachedProfileRepo) Get(userID string) (*model.CachedProfile, error) {
	cached := &model.CachedProfile{}
	if err := r.db.Get(model.GenerateCachedProfileKey(userID), cached); err != nil {
		return nil, err
	}
	return cached, nil
}

// Put overwrites the cache record for a user with a fresh UpdatedAt.
func (r *CachedProfileRepo) Put(cached *model.CachedProfile) error {
	cached.Key = model.GenerateCachedProfileKey(cached.UserID)
	cached.UpdatedAt = time.Now()
	return r.db.Set(cached)
}
