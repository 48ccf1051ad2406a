package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHour converts a 12-hour clock hour with an am/pm marker to its
// 24-hour representation. 12am maps to 0 and 12pm to 12.
func ParseHour(hour, meridiem string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil {
		return 0, fmt.Errorf("invalid hour %q: %w", hour, err)
	}
	if h < 1 || h > 12 {
		return 0, fmt.Errorf("hour %d out of 12-hour range", h)
	}
	switch strings.ToLower(strings.TrimSpace(meridiem)) {
	case "am":
		if h == 12 {
			return 0, nil
		}
		return h, nil
	case "pm":
		if h == 12 {
			return 12, nil
		}
		return h + 12, nil
	}
	return 0, fmt.Errorf("invalid meridiem %q", meridiem)
}

// FormatHour12 renders a 24-hour hour as its 12-hour label, e.g. 8 -> "8am",
// 13 -> "1pm", 0 -> "12am".
func FormatHour12(h int) string {
	switch {
	case h == 0:
		return "12am"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	case h == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}
