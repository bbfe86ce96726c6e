package model

// ActiveSession is a singleton that pairs the currently open session with its
// profile and the break flag. It exists only while a session is open.
type ActiveSession struct {
	Key         string `json:"key"`
	SessionKey  string `json:"session_key,omitempty"`
	ProfileKey  string `json:"profile_key,omitempty"`
	BreakActive bool   `json:"break_active,omitempty"`
}

// SetKey sets the database key for this active session record.
func (a *ActiveSession) SetKey(key string) {
	a.Key = key
}

// GetKey returns the database key for this active session record.
func (a *ActiveSession) GetKey() string {
	return a.Key
}

// IsActive returns true if a session is currently open.
func (a *ActiveSession) IsActive() bool {
	return a.SessionKey != ""
}

// NewActiveSession creates a new active session singleton.
func NewActiveSession() *ActiveSession {
	return &ActiveSession{
		Key: KeyActiveSession,
	}
}

// Set records the given session and profile as active.
func (a *ActiveSession) Set(sessionKey, profileKey string) {
	a.SessionKey = sessionKey
	a.ProfileKey = profileKey
	a.BreakActive = false
}

// Clear resets the handle. The break flag is discarded with the session.
func (a *ActiveSession) Clear() {
	a.SessionKey = ""
	a.ProfileKey = ""
	a.BreakActive = false
}
