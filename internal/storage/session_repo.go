package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/foqos/foqos/internal/model"
)

// SessionRepo provides operations for Session entities.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session with a generated key.
func (r *SessionRepo) Create(session *model.Session) error {
	// Generate UUID v7 for time-sortable keys
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	session.Key = model.GenerateSessionKey(id.String())
	return r.db.Set(session)
}

// Get retrieves a session by key.
func (r *SessionRepo) Get(key string) (*model.Session, error) {
	session := &model.Session{}
	if err := r.db.Get(key, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Update updates an existing session.
func (r *SessionRepo) Update(session *model.Session) error {
	return r.db.Set(session)
}

// Delete removes a session by key. Completed history is never deleted; this
// exists for aborted starts only.
func (r *SessionRepo) Delete(key string) error {
	return r.db.Delete(key)
}

// List retrieves all sessions sorted by start time, newest first.
func (r *SessionRepo) List() ([]*model.Session, error) {
	sessions, err := GetAllByPrefix(r.db, model.PrefixSession+":", func() *model.Session {
		return &model.Session{}
	})
	if err != nil {
		return nil, err
	}
	sortByStartDesc(sessions)
	return sessions, nil
}

// ListOpen retrieves sessions without an end time.
func (r *SessionRepo) ListOpen() ([]*model.Session, error) {
	return GetFilteredByPrefix(r.db, model.PrefixSession+":", func() *model.Session {
		return &model.Session{}
	}, func(s *model.Session) bool {
		return s.IsOpen()
	}, 0)
}

// ListCompleted retrieves completed sessions sorted by start time, newest
// first. A limit of 0 means no limit.
func (r *SessionRepo) ListCompleted(limit int) ([]*model.Session, error) {
	sessions, err := GetFilteredByPrefix(r.db, model.PrefixSession+":", func() *model.Session {
		return &model.Session{}
	}, func(s *model.Session) bool {
		return !s.IsOpen()
	}, 0)
	if err != nil {
		return nil, err
	}
	sortByStartDesc(sessions)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// ListByTimeRange retrieves sessions whose start time falls within [start, end).
func (r *SessionRepo) ListByTimeRange(start, end time.Time) ([]*model.Session, error) {
	sessions, err := GetFilteredByPrefix(r.db, model.PrefixSession+":", func() *model.Session {
		return &model.Session{}
	}, func(s *model.Session) bool {
		if !start.IsZero() && s.StartTime.Before(start) {
			return false
		}
		if !end.IsZero() && !s.StartTime.Before(end) {
			return false
		}
		return true
	}, 0)
	if err != nil {
		return nil, err
	}
	sortByStartDesc(sessions)
	return sessions, nil
}

func sortByStartDesc(sessions []*model.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
}

// TotalDuration calculates the total duration of the given sessions.
func TotalDuration(sessions []*model.Session) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration()
	}
	return total
}
