package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeeplink(t *testing.T) {
	ev, err := ParseDeeplink("foqos://profile/profile:abc-123")
	require.NoError(t, err)
	assert.Equal(t, "profile:abc-123", ev.ProfileKey)
	assert.Equal(t, SourceDeeplink, ev.Source)
}

func TestParseDeeplinkRoundTrip(t *testing.T) {
	link := DeeplinkFor("profile:xyz")
	ev, err := ParseDeeplink(link)
	require.NoError(t, err)
	assert.Equal(t, "profile:xyz", ev.ProfileKey)
}

func TestParseDeeplinkRejectsMalformed(t *testing.T) {
	cases := []string{
		"https://profile/profile:abc",
		"foqos://settings/profile:abc",
		"foqos://profile/",
		"foqos://profile",
	}
	for _, raw := range cases {
		_, err := ParseDeeplink(raw)
		assert.Error(t, err, raw)
	}
}

func TestTagEvent(t *testing.T) {
	t.Run("plain_key", func(t *testing.T) {
		ev, err := TagEvent(SourceNFC, "profile:abc")
		require.NoError(t, err)
		assert.Equal(t, "profile:abc", ev.ProfileKey)
		assert.Equal(t, SourceNFC, ev.Source)
	})

	t.Run("deeplink_payload_keeps_source", func(t *testing.T) {
		ev, err := TagEvent(SourceQR, "foqos://profile/profile:abc")
		require.NoError(t, err)
		assert.Equal(t, "profile:abc", ev.ProfileKey)
		assert.Equal(t, SourceQR, ev.Source)
	})

	t.Run("empty_payload", func(t *testing.T) {
		_, err := TagEvent(SourceNFC, "")
		assert.Error(t, err)
	})
}
