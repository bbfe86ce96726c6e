package engine

import (
	"github.com/foqos/foqos/internal/logging"
)

// ReconcileGhostSessions force-closes sessions left open by a crash or by
// backgrounding. An open session is a ghost when its profile no longer exists
// or its start time predates the configured staleness threshold. Run once on
// process start and periodically by the daemon. Returns the number of
// sessions closed.
func (e *Engine) ReconcileGhostSessions() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	open, err := e.sessions.ListOpen()
	if err != nil {
		return 0, &PersistenceError{Op: "list open sessions", Err: err}
	}

	now := e.now()
	closed := 0
	for _, session := range open {
		profileExists, err := e.profiles.Exists(session.ProfileKey)
		if err != nil {
			return closed, &PersistenceError{Op: "check profile", Err: err}
		}

		stale := now.Sub(session.StartTime) >= e.cfg.GhostThreshold
		if profileExists && !stale {
			continue
		}

		session.EndTime = now
		if err := e.sessions.Update(session); err != nil {
			return closed, &PersistenceError{Op: "force-close session", Err: err}
		}
		closed++

		logging.Warn("ghost session closed",
			logging.KeySession, session.Key,
			logging.KeyDuration, session.Duration().Milliseconds())

		// Drop any handle that referenced the ghost.
		if e.session != nil && e.session.Key == session.Key {
			e.stopTickLocked()
			e.state = StateIdle
			e.session = nil
			e.profile = nil
			e.breakActive = false
			e.publishLocked()
		}
	}

	if closed > 0 {
		handle, err := e.active.Get()
		if err == nil && handle.IsActive() {
			if s, err := e.sessions.Get(handle.SessionKey); err != nil || !s.IsOpen() {
				if err := e.active.Clear(); err != nil {
					logging.Warn("failed to clear active handle", logging.KeyError, err)
				}
			}
		}
	}

	return closed, nil
}
