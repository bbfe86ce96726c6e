package model

import "time"

// StrategyKind identifies how a profile's session is started and stopped.
type StrategyKind string

const (
	StrategyManual   StrategyKind = "manual"
	StrategyNFC      StrategyKind = "nfc"
	StrategyQR       StrategyKind = "qr"
	StrategyDeeplink StrategyKind = "deeplink"
)

// Valid reports whether the kind is one of the known strategies.
func (k StrategyKind) Valid() bool {
	switch k {
	case StrategyManual, StrategyNFC, StrategyQR, StrategyDeeplink:
		return true
	}
	return false
}

// StrategyConfig describes the blocking strategy attached to a profile.
type StrategyConfig struct {
	Kind StrategyKind `json:"kind"`
	// TagID pins NFC and QR strategies to one physical tag. Empty means any
	// tag toggles the profile.
	TagID string `json:"tag_id,omitempty"`
}

// Profile represents a focus profile.
type Profile struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	OrderIndex  int            `json:"order_index"`
	CreatedAt   time.Time      `json:"created_at"`
	Strategy    StrategyConfig `json:"strategy"`
	DeeplinkURL string         `json:"deeplink_url,omitempty"`
}

// SetKey sets the database key for this profile.
func (p *Profile) SetKey(key string) {
	p.Key = key
}

// GetKey returns the database key for this profile.
func (p *Profile) GetKey() string {
	return p.Key
}

// NewProfile creates a new profile. The key is assigned by the repository on
// create.
func NewProfile(name string, orderIndex int, strategy StrategyConfig) *Profile {
	return &Profile{
		Name:       name,
		OrderIndex: orderIndex,
		CreatedAt:  time.Now(),
		Strategy:   strategy,
	}
}
