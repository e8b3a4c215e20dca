package worktime

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// DURATION CODEC - "HH:MM:SS" <-> seconds
// =============================================================================

// ZeroDuration is the value stored for tasks that never logged time.
const ZeroDuration = "00:00:00"

// SecondsOf parses an HH:MM:SS duration into total seconds.
//
// Parsing is lenient: missing components count as 0, segments that are not
// integers count as 0, and no range check is applied to minutes or seconds
// ("00:90:00" is 5400). Components beyond the third are ignored. A negative
// total is reported as 0.
func SecondsOf(duration string) int64 {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0
	}

	parts := strings.Split(duration, ":")
	multipliers := [3]int64{3600, 60, 1}

	var total int64
	for i := 0; i < len(parts) && i < len(multipliers); i++ {
		n, err := strconv.ParseInt(strings.TrimSpace(parts[i]), 10, 64)
		if err != nil {
			continue
		}
		total += n * multipliers[i]
	}
	if total < 0 {
		return 0
	}
	return total
}

// DurationOf formats seconds as zero-padded HH:MM:SS. Hours are not wrapped
// at 24. Negative input formats as ZeroDuration.
func DurationOf(seconds int64) string {
	if seconds <= 0 {
		return ZeroDuration
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// NormalizeDuration returns d re-encoded through the codec, or ZeroDuration
// when d is empty.
func NormalizeDuration(d string) string {
	return DurationOf(SecondsOf(d))
}
