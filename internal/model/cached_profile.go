package model

import "time"

// CachedProfile is the locally cached copy of a remote user profile row.
// UpdatedAt is stamped at cache-write time, not remote-write time.
type CachedProfile struct {
	Key      string `json:"key"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Website  string `json:"website,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// SetKey sets the database key for this cached profile.
func (c *CachedProfile) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this cached profile.
func (c *CachedProfile) GetKey() string {
	return c.Key
}
