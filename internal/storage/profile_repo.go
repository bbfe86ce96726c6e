package storage

import (
	"sort"

	"github.com/google/uuid"

	"github.com/foqos/foqos/internal/model"
)

// ProfileRepo provides operations for Profile entities.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new profile repository.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Create creates a new profile with a generated key.
func (r *ProfileRepo) Create(profile *model.Profile) error {
	// Generate UUID v7 for time-sortable keys
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	profile.Key = model.GenerateProfileKey(id.String())
	return r.db.Set(profile)
}

// Get retrieves a profile by key.
func (r *ProfileRepo) Get(key string) (*model.Profile, error) {
	profile := &model.Profile{}
	if err := r.db.Get(key, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update updates an existing profile.
func (r *ProfileRepo) Update(profile *model.Profile) error {
	return r.db.Set(profile)
}

// Delete removes a profile by key. Sessions referencing it are kept; ghost
// reconciliation closes any open one.
func (r *ProfileRepo) Delete(key string) error {
	return r.db.Delete(key)
}

// Exists checks whether a profile exists.
func (r *ProfileRepo) Exists(key string) (bool, error) {
	return r.db.Exists(key)
}

// List retrieves all profiles in display order: order index ascending, then
// newest created first.
func (r *ProfileRepo) List() ([]*model.Profile, error) {
	profiles, err := GetAllByPrefix(r.db, model.PrefixProfile+":", func() *model.Profile {
		return &model.Profile{}
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].OrderIndex != profiles[j].OrderIndex {
			return profiles[i].OrderIndex < profiles[j].OrderIndex
		}
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})

	return profiles, nil
}

// FindByName retrieves the first profile with the given name.
func (r *ProfileRepo) FindByName(name string) (*model.Profile, error) {
	matches, err := GetFilteredByPrefix(r.db, model.PrefixProfile+":", func() *model.Profile {
		return &model.Profile{}
	}, func(p *model.Profile) bool {
		return p.Name == name
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrKeyNotFound
	}
	return matches[0], nil
}
