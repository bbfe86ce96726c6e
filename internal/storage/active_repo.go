package storage

import (
	"github.com/foqos/foqos/internal/model"
)

// ActiveSessionRepo provides operations for the ActiveSession singleton.
type ActiveSessionRepo struct {
	db *DB
}

// NewActiveSessionRepo creates a new active session repository.
func NewActiveSessionRepo(db *DB) *ActiveSessionRepo {
	return &ActiveSessionRepo{db: db}
}

// Get retrieves the active session state.
func (r *ActiveSessionRepo) Get() (*model.ActiveSession, error) {
	active := model.NewActiveSession()
	err := r.db.Get(model.KeyActiveSession, active)
	if err != nil {
		if IsErrKeyNotFound(err) {
			// Return empty handle if not found
			return active, nil
		}
		return nil, err
	}
	return active, nil
}

// Save persists the active session state.
func (r *ActiveSessionRepo) Save(active *model.ActiveSession) error {
	active.Key = model.KeyActiveSession
	return r.db.Set(active)
}

// Clear resets and persists the active session handle.
func (r *ActiveSessionRepo) Clear() error {
	active, err := r.Get()
	if err != nil {
		return err
	}
	active.Clear()
	return r.Save(active)
}
