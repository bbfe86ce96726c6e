package profilesync

import (
	"context"
	"sync"

	"github.com/foqos/foqos/internal/logging"
	"github.com/foqos/foqos/internal/model"
	"github.com/foqos/foqos/internal/storage"
)

// Repository is a cache-aside layer over the remote profile store.
//
// Reads serve the cache when possible and revalidate in the background;
// writes go through to the remote first and only then overwrite the cache.
// A background refresh and a foreground write may race on the cache record;
// whichever write lands last wins, and both stamp UpdatedAt at write time, so
// callers must not assume read-after-write consistency within the refresh
// window.
type Repository struct {
	cache  *storage.CachedProfileRepo
	remote RemoteStore

	// refreshes tracks in-flight background revalidations so Close and tests
	// can wait them out.
	refreshes sync.WaitGroup
}

// NewRepository creates a profile repository over the given cache and remote.
func NewRepository(cache *storage.CachedProfileRepo, remote RemoteStore) *Repository {
	return &Repository{cache: cache, remote: remote}
}

// FetchProfile returns the user's profile. A cache hit is returned
// immediately and revalidated in the background; a miss falls through to a
// synchronous remote fetch that populates the cache on success.
func (r *Repository) FetchProfile(ctx context.Context, userID string) (Profile, error) {
	cached, err := r.cache.Get(userID)
	if err == nil {
		r.refreshes.Add(1)
		go func() {
			defer r.refreshes.Done()
			r.refresh(userID)
		}()
		return Profile{
			Username: cached.Username,
			FullName: cached.FullName,
			Website:  cached.Website,
		}, nil
	}
	if !storage.IsErrKeyNotFound(err) {
		return Profile{}, err
	}

	// Network fallback: no cached value to offer on failure.
	profile, err := r.remote.Fetch(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if err := r.writeCache(userID, profile); err != nil {
		logging.Warn("failed to cache profile", logging.KeyUser, userID, logging.KeyError, err)
	}
	return profile, nil
}

// UpsertProfile writes through to the remote store and, on success,
// overwrites the cache record. A remote failure leaves the cache untouched.
func (r *Repository) UpsertProfile(ctx context.Context, userID string, params UpsertParams) error {
	if err := r.remote.Upsert(ctx, userID, params); err != nil {
		return err
	}

	profile := Profile{
		Username: params.Username,
		FullName: params.FullName,
		Website:  params.Website,
	}
	if err := r.writeCache(userID, profile); err != nil {
		logging.Warn("failed to cache profile", logging.KeyUser, userID, logging.KeyError, err)
	}
	return nil
}

// Wait blocks until all in-flight background refreshes complete.
func (r *Repository) Wait() {
	r.refreshes.Wait()
}

// refresh re-fetches the remote row and overwrites the cache. Its failures
// are logged and swallowed; the caller already has a usable value.
func (r *Repository) refresh(userID string) {
	profile, err := r.remote.Fetch(context.Background(), userID)
	if err != nil {
		logging.Debug("background profile refresh failed",
			logging.KeyUser, userID, logging.KeyError, err)
		return
	}
	if err := r.writeCache(userID, profile); err != nil {
		logging.Debug("background profile cache write failed",
			logging.KeyUser, userID, logging.KeyError, err)
	}
}

func (r *Repository) writeCache(userID string, profile Profile) error {
	return r.cache.Put(&model.CachedProfile{
		UserID:   userID,
		Username: profile.Username,
		FullName: profile.FullName,
		Website:  profile.Website,
	})
}
