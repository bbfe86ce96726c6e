// Package trigger defines the external events that toggle focus sessions.
package trigger

import (
	"fmt"
	"net/url"
	"strings"
)

// Source identifies what produced a trigger event.
type Source string

const (
	SourceManual   Source = "manual"
	SourceNFC      Source = "nfc"
	SourceQR       Source = "qr"
	SourceDeeplink Source = "deeplink"
)

// Event is a toggle request produced outside the engine (NFC tag scan, QR
// scan, deeplink open). Raw carries the original payload for logging.
type Event struct {
	ProfileKey string
	Source     Source
	Raw        string
}

// Scheme is the deeplink URL scheme handled by the app.
const Scheme = "foqos"

// ParseDeeplink parses a foqos://profile/<key> URL into a trigger event.
func ParseDeeplink(raw string) (Event, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Event{}, fmt.Errorf("parse deeplink: %w", err)
	}
	if u.Scheme != Scheme {
		return Event{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host != "profile" {
		return Event{}, fmt.Errorf("unsupported deeplink host %q", u.Host)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return Event{}, fmt.Errorf("deeplink missing profile key")
	}

	return Event{
		ProfileKey: key,
		Source:     SourceDeeplink,
		Raw:        raw,
	}, nil
}

// DeeplinkFor returns the deeplink URL that toggles the given profile.
func DeeplinkFor(profileKey string) string {
	return fmt.Sprintf("%s://profile/%s", Scheme, profileKey)
}

// TagEvent builds an event for a scanned NFC tag or QR payload. The payload
// is expected to carry the profile key directly or as a deeplink.
func TagEvent(source Source, payload string) (Event, error) {
	if strings.HasPrefix(payload, Scheme+"://") {
		ev, err := ParseDeeplink(payload)
		if err != nil {
			return Event{}, err
		}
		ev.Source = source
		return ev, nil
	}
	if payload == "" {
		return Event{}, fmt.Errorf("empty tag payload")
	}
	return Event{ProfileKey: payload, Source: source, Raw: payload}, nil
}
