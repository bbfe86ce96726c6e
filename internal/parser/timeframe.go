// Package parser parses natural language timeframes for history queries.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// ParseTimestamp parses a natural language timestamp expression like
// "yesterday", "2 hours ago" or "2024-01-10".
func ParseTimestamp(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "now") {
		return time.Now(), nil
	}

	// Use go-dateparser for natural language parsing
	cfg := &dateparser.Configuration{
		CurrentTime: time.Now(),
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse timestamp %q: %w", input, err)
	}
	return result.Time, nil
}

// TimeRange is a half-open [Start, End) interval.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange parses from/until expressions into a range. Empty from means the
// beginning of time; empty until means now.
func ParseRange(from, until string) (TimeRange, error) {
	var r TimeRange

	if from != "" {
		start, err := ParseTimestamp(from)
		if err != nil {
			return r, err
		}
		r.Start = start
	}

	if until == "" {
		r.End = time.Now()
	} else {
		end, err := ParseTimestamp(until)
		if err != nil {
			return r, err
		}
		r.End = end
	}

	if !r.Start.IsZero() && r.End.Before(r.Start) {
		return r, fmt.Errorf("until (%s) is before from (%s)", r.End, r.Start)
	}
	return r, nil
}
