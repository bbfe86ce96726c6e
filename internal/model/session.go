package model

import "time"

// Session represents one focus session. A session with a zero EndTime is
// open; its elapsed time runs until it is stopped or reconciled away.
type Session struct {
	Key        string    `json:"key"`
	ProfileKey string    `json:"profile_key"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time,omitempty"`
}

// SetKey sets the database key for this session.
func (s *Session) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this session.
func (s *Session) GetKey() string {
	return s.Key
}

// IsOpen returns true if the session has not ended.
func (s *Session) IsOpen() bool {
	return s.EndTime.IsZero()
}

// Duration returns the session duration. Open sessions measure against the
// current time.
func (s *Session) Duration() time.Duration {
	if s.IsOpen() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// NewSession creates a new open session. The key is assigned by the
// repository on create.
func NewSession(profileKey string, start time.Time) *Session {
	return &Session{
		ProfileKey: profileKey,
		StartTime:  start,
	}
}
