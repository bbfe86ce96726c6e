package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/foqos/foqos/internal/engine"
)

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		30 * time.Second:             "30s",
		time.Minute:                  "1m",
		90 * time.Second:             "1m 30s",
		time.Hour:                    "1h",
		2*time.Hour + 15*time.Minute: "2h 15m",
		-5 * time.Second:             "0s",
	}
	for d, want := range cases {
		assert.Equal(t, want, FormatDuration(d))
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "05:07", FormatClock(5*time.Minute+7*time.Second))
	assert.Equal(t, "01:00:00", FormatClock(time.Hour))
	assert.Equal(t, "00:00", FormatClock(-time.Second))
}

func TestColorDisabledForBuffers(t *testing.T) {
	f := &Formatter{Writer: &bytes.Buffer{}, Format: FormatCLI, ColorMode: ColorAuto}
	assert.False(t, f.IsColorEnabled())

	f.ColorMode = ColorAlways
	assert.True(t, f.IsColorEnabled())

	f.ColorMode = ColorNever
	assert.False(t, f.IsColorEnabled())
}

func TestPrintStatusIdle(t *testing.T) {
	var buf bytes.Buffer
	cli := NewCLIFormatter(&Formatter{Writer: &buf, Format: FormatCLI, ColorMode: ColorNever})
	cli.PrintStatus(engine.Snapshot{State: engine.StateIdle})
	assert.Contains(t, buf.String(), "No active session")
}
