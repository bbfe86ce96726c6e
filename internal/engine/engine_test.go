package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foqos/foqos/internal/model"
	"github.com/foqos/foqos/internal/storage"
	"github.com/foqos/foqos/internal/trigger"
)

// fakeEnforcer records capability calls and can simulate failures.
type fakeEnforcer struct {
	mu            sync.Mutex
	activateErr   error
	deactivateErr error
	activations   []model.StrategyConfig
	deactivations int
}

func (f *fakeEnforcer) Activate(cfg model.StrategyConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activations = append(f.activations, cfg)
	return f.activateErr
}

func (f *fakeEnforcer) Deactivate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivations++
	return f.deactivateErr
}

func (f *fakeEnforcer) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.activations), f.deactivations
}

// flakySessions wraps a session store and fails selected calls. Error fields
// are set between engine operations only.
type flakySessions struct {
	SessionStore
	createErr error
	updateErr error
	listErr   error
}

func (f *flakySessions) Create(s *model.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.SessionStore.Create(s)
}

func (f *flakySessions) Update(s *model.Session) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.SessionStore.Update(s)
}

func (f *flakySessions) ListOpen() ([]*model.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.SessionStore.ListOpen()
}

// flakyActive wraps an active-handle store and fails saves on demand.
type flakyActive struct {
	ActiveStore
	saveErr error
}

func (f *flakyActive) Save(a *model.ActiveSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.ActiveStore.Save(a)
}

type fixture struct {
	db       *storage.DB
	profiles *storage.ProfileRepo
	sessions *storage.SessionRepo
	active   *storage.ActiveSessionRepo
	enforcer *fakeEnforcer
	engine   *Engine
}

func setup(t *testing.T) *fixture {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:       db,
		profiles: storage.NewProfileRepo(db),
		sessions: storage.NewSessionRepo(db),
		active:   storage.NewActiveSessionRepo(db),
		enforcer: &fakeEnforcer{},
	}
	f.engine = New(Config{TickInterval: 10 * time.Millisecond}, f.profiles, f.sessions, f.active, f.enforcer)
	t.Cleanup(f.engine.Close)
	return f
}

func (f *fixture) createProfile(t *testing.T, name string) *model.Profile {
	t.Helper()
	profile := model.NewProfile(name, 0, model.StrategyConfig{Kind: model.StrategyManual})
	require.NoError(t, f.profiles.Create(profile))
	return profile
}

func (f *fixture) openCount(t *testing.T) int {
	t.Helper()
	open, err := f.sessions.ListOpen()
	require.NoError(t, err)
	return len(open)
}

func TestStartStop(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")

	require.NoError(t, f.engine.Start(profile))
	assert.Equal(t, StateActive, f.engine.State())
	assert.Equal(t, 1, f.openCount(t))

	require.NoError(t, f.engine.Stop())
	assert.Equal(t, StateIdle, f.engine.State())
	assert.Equal(t, 0, f.openCount(t))

	completed, err := f.sessions.ListCompleted(0)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.False(t, completed[0].EndTime.Before(completed[0].StartTime))

	activations, deactivations := f.enforcer.counts()
	assert.Equal(t, 1, activations)
	assert.Equal(t, 1, deactivations)

	handle, err := f.active.Get()
	require.NoError(t, err)
	assert.False(t, handle.IsActive())
}

func TestStartWhileActiveRejected(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")
	other := f.createProfile(t, "Reading")

	require.NoError(t, f.engine.Start(profile))
	err := f.engine.Start(other)
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, 1, f.openCount(t), "at most one open session")
}

func TestStopFromIdleIsNoop(t *testing.T) {
	f := setup(t)
	assert.NoError(t, f.engine.Stop())
	assert.Equal(t, StateIdle, f.engine.State())
}

func TestToggleBreakFromIdleIsNoop(t *testing.T) {
	f := setup(t)
	f.engine.ToggleBreak()
	assert.Equal(t, StateIdle, f.engine.State())
	assert.Empty(t, f.engine.LastError())
	activations, deactivations := f.enforcer.counts()
	assert.Zero(t, activations)
	assert.Zero(t, deactivations)
}

func TestToggleBreakCycle(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")
	require.NoError(t, f.engine.Start(profile))

	f.engine.ToggleBreak()
	assert.Equal(t, StateActiveOnBreak, f.engine.State())
	_, deactivations := f.enforcer.counts()
	assert.Equal(t, 1, deactivations, "break suspends enforcement")
	assert.Equal(t, 1, f.openCount(t), "break does not close the session")

	// The elapsed timer keeps running across the break.
	time.Sleep(20 * time.Millisecond)
	assert.Greater(t, f.engine.Elapsed(), time.Duration(0))

	f.engine.ToggleBreak()
	assert.Equal(t, StateActive, f.engine.State())
	activations, _ := f.enforcer.counts()
	assert.Equal(t, 2, activations, "resume re-activates the strategy")
}

func TestBreakFlagPersistedAndDiscardedOnStop(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")
	require.NoError(t, f.engine.Start(profile))

	f.engine.ToggleBreak()
	handle, err := f.active.Get()
	require.NoError(t, err)
	assert.True(t, handle.BreakActive)

	require.NoError(t, f.engine.Stop())
	handle, err = f.active.Get()
	require.NoError(t, err)
	assert.False(t, handle.BreakActive)
}

func TestEnforcementFailureIsNonFatal(t *testing.T) {
	f := setup(t)
	f.enforcer.activateErr = errors.New("shield unavailable")
	profile := f.createProfile(t, "Deep Work")

	require.NoError(t, f.engine.Start(profile))
	assert.Equal(t, StateActive, f.engine.State())
	assert.Equal(t, 1, f.openCount(t), "session recorded despite enforcement failure")
	assert.Contains(t, f.engine.LastError(), "activate")

	// The next successful transition clears the error slot.
	require.NoError(t, f.engine.Stop())
	assert.Empty(t, f.engine.LastError())
}

func TestStartLeavesNoRowWhenHandleSaveFails(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")

	active := &flakyActive{ActiveStore: f.active, saveErr: errors.New("disk full")}
	eng := New(Config{TickInterval: 10 * time.Millisecond}, f.profiles, f.sessions, active, f.enforcer)
	t.Cleanup(eng.Close)

	err := eng.Start(profile)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StateIdle, eng.State())

	// The aborted start leaves no session at all, so neither history nor the
	// streak day set can pick it up.
	all, err := f.sessions.List()
	require.NoError(t, err)
	assert.Empty(t, all)

	// With the store healthy again the same profile starts normally.
	active.saveErr = nil
	require.NoError(t, eng.Start(profile))
	assert.Equal(t, StateActive, eng.State())
}

func TestStartFailsCleanlyWhenCreateFails(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")

	sessions := &flakySessions{SessionStore: f.sessions, createErr: errors.New("write failed")}
	eng := New(Config{TickInterval: 10 * time.Millisecond}, f.profiles, sessions, f.active, f.enforcer)
	t.Cleanup(eng.Close)

	err := eng.Start(profile)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StateIdle, eng.State())

	handle, err := f.active.Get()
	require.NoError(t, err)
	assert.False(t, handle.IsActive())
	assert.Equal(t, 0, f.openCount(t))
}

func TestStopStaysActiveWhenCloseFails(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")

	sessions := &flakySessions{SessionStore: f.sessions}
	eng := New(Config{TickInterval: 10 * time.Millisecond}, f.profiles, sessions, f.active, f.enforcer)
	t.Cleanup(eng.Close)
	require.NoError(t, eng.Start(profile))

	sessions.updateErr = errors.New("write failed")
	err := eng.Stop()
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StateActive, eng.State(), "state stays consistent with the last durable write")
	assert.Equal(t, 1, f.openCount(t), "the row still reads as open")

	// The next stop retries the close and succeeds.
	sessions.updateErr = nil
	require.NoError(t, eng.Stop())
	assert.Equal(t, StateIdle, eng.State())
	assert.Equal(t, 0, f.openCount(t))
}

func TestReconcileSurfacesListFailure(t *testing.T) {
	f := setup(t)

	sessions := &flakySessions{SessionStore: f.sessions, listErr: errors.New("iterator broken")}
	eng := New(Config{TickInterval: 10 * time.Millisecond}, f.profiles, sessions, f.active, f.enforcer)
	t.Cleanup(eng.Close)

	_, err := eng.ReconcileGhostSessions()
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
}

func TestElapsedZeroWhileIdle(t *testing.T) {
	f := setup(t)
	assert.Equal(t, time.Duration(0), f.engine.Elapsed())
}

func TestToggleFromTrigger(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")
	other := f.createProfile(t, "Reading")

	t.Run("unknown_profile", func(t *testing.T) {
		err := f.engine.ToggleFromTrigger(trigger.Event{ProfileKey: "profile:missing", Source: trigger.SourceNFC})
		assert.True(t, IsValidationError(err))
		assert.Equal(t, StateIdle, f.engine.State())
	})

	t.Run("starts_from_idle", func(t *testing.T) {
		err := f.engine.ToggleFromTrigger(trigger.Event{ProfileKey: profile.Key, Source: trigger.SourceDeeplink})
		require.NoError(t, err)
		assert.Equal(t, StateActive, f.engine.State())
	})

	t.Run("different_profile_rejected", func(t *testing.T) {
		err := f.engine.ToggleFromTrigger(trigger.Event{ProfileKey: other.Key, Source: trigger.SourceQR})
		assert.True(t, IsConflictError(err))
		assert.Equal(t, StateActive, f.engine.State())
		assert.Equal(t, 1, f.openCount(t))
	})

	t.Run("same_profile_stops", func(t *testing.T) {
		err := f.engine.ToggleFromTrigger(trigger.Event{ProfileKey: profile.Key, Source: trigger.SourceDeeplink})
		require.NoError(t, err)
		assert.Equal(t, StateIdle, f.engine.State())
		assert.Equal(t, 0, f.openCount(t))
	})
}

func TestLoadActiveSession(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")

	t.Run("empty_store", func(t *testing.T) {
		require.NoError(t, f.engine.LoadActiveSession())
		assert.Equal(t, StateIdle, f.engine.State())
	})

	// Simulate a previous process that died with a session open.
	session := model.NewSession(profile.Key, time.Now().Add(-5*time.Minute))
	require.NoError(t, f.sessions.Create(session))
	handle := model.NewActiveSession()
	handle.Set(session.Key, profile.Key)
	require.NoError(t, f.active.Save(handle))

	fresh := New(Config{TickInterval: 10 * time.Millisecond}, f.profiles, f.sessions, f.active, f.enforcer)
	t.Cleanup(fresh.Close)

	require.NoError(t, fresh.LoadActiveSession())
	assert.Equal(t, StateActive, fresh.State())
	assert.Greater(t, fresh.Elapsed(), 4*time.Minute)

	snap := fresh.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, session.Key, snap.Session.Key)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, profile.Key, snap.Profile.Key)
}

func TestLoadActiveSessionResumesBreak(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")

	session := model.NewSession(profile.Key, time.Now().Add(-time.Minute))
	require.NoError(t, f.sessions.Create(session))
	handle := model.NewActiveSession()
	handle.Set(session.Key, profile.Key)
	handle.BreakActive = true
	require.NoError(t, f.active.Save(handle))

	require.NoError(t, f.engine.LoadActiveSession())
	assert.Equal(t, StateActiveOnBreak, f.engine.State())
}

func TestSubscribeObservesOrderedTransitions(t *testing.T) {
	f := setup(t)
	profile := f.createProfile(t, "Deep Work")
	ch := f.engine.Subscribe()

	require.NoError(t, f.engine.Start(profile))
	f.engine.ToggleBreak()
	require.NoError(t, f.engine.Stop())

	states := []State{}
	for len(states) < 3 {
		snap := <-ch
		// Ticks repeat the current state; record transitions only.
		if len(states) == 0 || states[len(states)-1] != snap.State {
			states = append(states, snap.State)
		}
	}
	assert.Equal(t, []State{StateActive, StateActiveOnBreak, StateIdle}, states)
}
