package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts a platform duration such as "PT1H2M3S" to seconds.
// The day designator ("P1DT2H") is accepted. "PT" and "P0D" are zero.
func ParseDuration(s string) (int, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "P")
	if !ok {
		return 0, fmt.Errorf("%w: duration %q has no P prefix", ErrInvalidInput, s)
	}

	datePart, timePart, hasTime := strings.Cut(rest, "T")

	total := 0
	days, err := parseDesignators(datePart, map[byte]int{'D': 86400, 'W': 7 * 86400})
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q: %v", ErrInvalidInput, s, err)
	}
	total += days

	if hasTime {
		secs, err := parseDesignators(timePart, map[byte]int{'H': 3600, 'M': 60, 'S': 1})
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q: %v", ErrInvalidInput, s, err)
		}
		total += secs
	}

	return total, nil
}

// parseDesignators sums number+designator pairs such as "1H2M3S".
func parseDesignators(s string, units map[byte]int) (int, error) {
	total := 0
	start := 0
	seen := make(map[byte]bool)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}

		mult, ok := units[c]
		if !ok {
			return 0, fmt.Errorf("unexpected designator %q", c)
		}
		if i == start {
			return 0, fmt.Errorf("designator %q without value", c)
		}
		if seen[c] {
			return 0, fmt.Errorf("repeated designator %q", c)
		}
		seen[c] = true

		n, err := strconv.Atoi(s[start:i])
		if err != nil {
			return 0, err
		}
		total += n * mult
		start = i + 1
	}

	if start != len(s) {
		return 0, fmt.Errorf("trailing value %q", s[start:])
	}
	return total, nil
}

// FormatDuration renders seconds as "1h 2m 3s", "2m 3s" or "3s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes, secs := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// EstimateProcessingSeconds approximates ingestion time for a video:
// one minute per full ten minutes of video plus a tenth of the remainder.
func EstimateProcessingSeconds(durationSeconds int) int {
	if durationSeconds <= 0 {
		return 0
	}
	return (durationSeconds/600)*60 + (durationSeconds%600)/10
}
