package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
)

// ClockTool reports the current time, optionally in a named IANA
// timezone.
type ClockTool struct {
	// now is replaceable for tests.
	now func() time.Time
}

// NewClockTool creates a new clock tool.
func NewClockTool() *ClockTool {
	return &ClockTool{now: time.Now}
}

// Spec returns the tool's declared schema.
func (t *ClockTool) Spec() driven.ToolSpec {
	return driven.ToolSpec{
		Name:        "clock",
		Description: "Current date and time, optionally for a timezone",
		Params: []driven.ToolParam{
			{Name: "timezone", Type: "string", Description: "IANA zone, e.g. Asia/Tokyo", Required: false},
		},
	}
}

// Handle returns the current time in the requested timezone, defaulting
// to UTC.
func (t *ClockTool) Handle(_ context.Context, args map[string]any) (string, error) {
	zone, _ := args["timezone"].(string)
	if zone == "" {
		zone = "UTC"
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q", zone)
	}

	now := t.now().In(loc)
	return fmt.Sprintf("Current time in %s: %s", zone, now.Format("Monday, 2 January 2006 15:04 MST")), nil
}
