// Package engine implements the focus session lifecycle state machine.
package engine

import (
	"sync"
	"time"

	"github.com/foqos/foqos/internal/logging"
	"github.com/foqos/foqos/internal/model"
	"github.com/foqos/foqos/internal/storage"
	"github.com/foqos/foqos/internal/trigger"
)

// State is the engine lifecycle state.
type State int

const (
	StateIdle State = iota
	StateActive
	StateActiveOnBreak
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateActiveOnBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Config holds the engine's tunable values.
type Config struct {
	// TickInterval is how often elapsed time is recomputed for subscribers.
	TickInterval time.Duration
	// GhostThreshold is the age past which an open session is considered
	// abandoned and force-closed by reconciliation.
	GhostThreshold time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval:   time.Second,
		GhostThreshold: 24 * time.Hour,
	}
}

// Snapshot is the observable engine state published to subscribers.
type Snapshot struct {
	State       State
	Session     *model.Session
	Profile     *model.Profile
	BreakActive bool
	Elapsed     time.Duration
	LastError   string
}

// ProfileStore is the slice of the profile repository the engine reads.
type ProfileStore interface {
	Get(key string) (*model.Profile, error)
	Exists(key string) (bool, error)
}

// SessionStore is the slice of the session repository the engine writes.
type SessionStore interface {
	Create(session *model.Session) error
	Get(key string) (*model.Session, error)
	Update(session *model.Session) error
	Delete(key string) error
	ListOpen() ([]*model.Session, error)
}

// ActiveStore persists the singleton handle pairing the open session with its
// profile and break flag.
type ActiveStore interface {
	Get() (*model.ActiveSession, error)
	Save(active *model.ActiveSession) error
	Clear() error
}

// Engine is the single-writer session state machine. All state-mutating
// operations are serialized behind one mutex; the tick shares the same lock,
// so subscribers observe transitions in order.
type Engine struct {
	cfg      Config
	profiles ProfileStore
	sessions SessionStore
	active   ActiveStore
	enforcer Enforcer

	// now is swappable for tests.
	now func() time.Time

	mu          sync.Mutex
	state       State
	session     *model.Session
	profile     *model.Profile
	breakActive bool
	lastErr     string
	tickStop    chan struct{}
	subs        []chan Snapshot
}

// New creates an engine in the Idle state.
func New(cfg Config, profiles ProfileStore, sessions SessionStore, active ActiveStore, enforcer Enforcer) *Engine {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.GhostThreshold <= 0 {
		cfg.GhostThreshold = 24 * time.Hour
	}
	return &Engine{
		cfg:      cfg,
		profiles: profiles,
		sessions: sessions,
		active:   active,
		enforcer: enforcer,
		now:      time.Now,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Elapsed returns the running time of the open session, zero while idle.
// Break time counts; the timer is never rebased on break toggles.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

// LastError returns the most recent non-fatal failure description. It is
// cleared on the next successful transition.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Snapshot returns the current observable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe returns a channel of ordered state snapshots. Slow consumers drop
// updates rather than blocking a transition.
func (e *Engine) Subscribe() <-chan Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := make(chan Snapshot, 16)
	e.subs = append(e.subs, ch)
	return ch
}

// Start opens a session for the given profile and activates enforcement.
// Valid from Idle only. An enforcement failure does not fail the session; it
// is surfaced through LastError.
func (e *Engine) Start(profile *model.Profile) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(profile)
}

func (e *Engine) startLocked(profile *model.Profile) error {
	if e.state != StateIdle {
		return ErrAlreadyActive
	}

	session := model.NewSession(profile.Key, e.now())
	if err := e.sessions.Create(session); err != nil {
		return &PersistenceError{Op: "create session", Err: err}
	}

	handle := model.NewActiveSession()
	handle.Set(session.Key, profile.Key)
	if err := e.active.Save(handle); err != nil {
		// Remove the just-created row; an aborted start must leave no
		// session behind, open or closed.
		if derr := e.sessions.Delete(session.Key); derr != nil {
			logging.Error("failed to remove aborted session", logging.KeyError, derr)
		}
		return &PersistenceError{Op: "save active handle", Err: err}
	}

	e.state = StateActive
	e.session = session
	e.profile = profile
	e.breakActive = false
	e.lastErr = ""
	e.startTickLocked()

	if err := e.enforcer.Activate(profile.Strategy); err != nil {
		e.setLastErrLocked(&EnforcementError{Op: "activate", Err: err})
	}

	logging.Info("session started",
		logging.KeySession, session.Key,
		logging.KeyProfile, profile.Name)
	e.publishLocked()
	return nil
}

// Stop closes the open session and deactivates enforcement. Calling Stop from
// Idle is a no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopLocked()
}

func (e *Engine) stopLocked() error {
	if e.state == StateIdle {
		return nil
	}

	session := e.session
	session.EndTime = e.now()
	if err := e.sessions.Update(session); err != nil {
		// Stay active; the row still reads as open and a later stop or
		// reconciliation can retry the close.
		session.EndTime = time.Time{}
		return &PersistenceError{Op: "close session", Err: err}
	}

	if err := e.active.Clear(); err != nil {
		logging.Warn("failed to clear active handle", logging.KeyError, err)
	}

	e.stopTickLocked()
	e.state = StateIdle
	e.session = nil
	e.profile = nil
	e.breakActive = false
	e.lastErr = ""

	if err := e.enforcer.Deactivate(); err != nil {
		e.setLastErrLocked(&EnforcementError{Op: "deactivate", Err: err})
	}

	logging.Info("session stopped",
		logging.KeySession, session.Key,
		logging.KeyDuration, session.Duration().Milliseconds())
	e.publishLocked()
	return nil
}

// ToggleBreak suspends or resumes enforcement without closing the session or
// touching its start time. No-op while Idle.
func (e *Engine) ToggleBreak() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateIdle:
		return
	case StateActive:
		e.state = StateActiveOnBreak
		e.breakActive = true
		if err := e.enforcer.Deactivate(); err != nil {
			e.setLastErrLocked(&EnforcementError{Op: "suspend", Err: err})
		}
	case StateActiveOnBreak:
		e.state = StateActive
		e.breakActive = false
		if e.profile != nil {
			if err := e.enforcer.Activate(e.profile.Strategy); err != nil {
				e.setLastErrLocked(&EnforcementError{Op: "resume", Err: err})
			}
		}
	}

	e.persistBreakFlagLocked()
	logging.Info("break toggled", logging.KeyStatus, e.state.String())
	e.publishLocked()
}

// ToggleFromTrigger handles an external trigger event. Unknown profiles fail
// with ValidationError. From Idle it starts the profile's session; a trigger
// for the active profile stops it; a trigger for a different profile is
// rejected with ConflictError.
func (e *Engine) ToggleFromTrigger(ev trigger.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, err := e.profiles.Get(ev.ProfileKey)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return &ValidationError{ProfileKey: ev.ProfileKey}
		}
		return &PersistenceError{Op: "resolve profile", Err: err}
	}

	logging.Info("trigger received",
		logging.KeyProfile, profile.Name,
		logging.KeySource, string(ev.Source))

	if e.state == StateIdle {
		return e.startLocked(profile)
	}
	if e.session != nil && e.session.ProfileKey == profile.Key {
		return e.stopLocked()
	}
	return &ConflictError{
		ActiveProfileKey:    e.session.ProfileKey,
		RequestedProfileKey: profile.Key,
	}
}

// LoadActiveSession adopts a session left open by a previous process, if it
// exists. Called once on startup before any other operation.
func (e *Engine) LoadActiveSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return nil
	}

	handle, err := e.active.Get()
	if err != nil {
		return &PersistenceError{Op: "load active handle", Err: err}
	}
	if !handle.IsActive() {
		return nil
	}

	session, err := e.sessions.Get(handle.SessionKey)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			// Handle points at a vanished session; drop it.
			return e.clearHandleLocked()
		}
		return &PersistenceError{Op: "load session", Err: err}
	}
	if !session.IsOpen() {
		return e.clearHandleLocked()
	}

	// A deleted profile leaves the session adoptable; reconciliation will
	// close it.
	profile, err := e.profiles.Get(session.ProfileKey)
	if err != nil && !storage.IsErrKeyNotFound(err) {
		return &PersistenceError{Op: "load profile", Err: err}
	}

	e.session = session
	e.profile = profile
	e.breakActive = handle.BreakActive
	if e.breakActive {
		e.state = StateActiveOnBreak
	} else {
		e.state = StateActive
	}
	e.startTickLocked()

	logging.Info("session resumed", logging.KeySession, session.Key)
	e.publishLocked()
	return nil
}

// Close stops the tick and closes all subscriber channels. The session store
// is left untouched.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickLocked()
	for _, ch := range e.subs {
		close(ch)
	}
	e.subs = nil
}

func (e *Engine) clearHandleLocked() error {
	if err := e.active.Clear(); err != nil {
		return &PersistenceError{Op: "clear active handle", Err: err}
	}
	return nil
}

func (e *Engine) persistBreakFlagLocked() {
	handle, err := e.active.Get()
	if err != nil {
		logging.Warn("failed to load active handle", logging.KeyError, err)
		return
	}
	handle.BreakActive = e.breakActive
	if err := e.active.Save(handle); err != nil {
		logging.Warn("failed to persist break flag", logging.KeyError, err)
	}
}

func (e *Engine) setLastErrLocked(err error) {
	e.lastErr = err.Error()
	logging.Warn("non-fatal engine error", logging.KeyError, err)
}

func (e *Engine) elapsedLocked() time.Duration {
	if e.state == StateIdle || e.session == nil {
		return 0
	}
	return e.now().Sub(e.session.StartTime)
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:       e.state,
		Session:     e.session,
		Profile:     e.profile,
		BreakActive: e.breakActive,
		Elapsed:     e.elapsedLocked(),
		LastError:   e.lastErr,
	}
}

func (e *Engine) publishLocked() {
	snap := e.snapshotLocked()
	for _, ch := range e.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (e *Engine) startTickLocked() {
	if e.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	e.tickStop = stop

	go func() {
		ticker := time.NewTicker(e.cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.mu.Lock()
				if e.state != StateIdle {
					e.publishLocked()
				}
				e.mu.Unlock()
			}
		}
	}()
}

func (e *Engine) stopTickLocked() {
	if e.tickStop == nil {
		return
	}
	close(e.tickStop)
	e.tickStop = nil
}
