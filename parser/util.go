package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedTime = errors.New("malformed schedule time")

//*******************************************
// utility methods
//*******************************************

// Parses a schedule time "H:MM[:SS]" into minutes after midnight.
//
// Hours may exceed 24 for services running past midnight, the value is not wrapped.
func ParseScheduleTime(value string) (float64, error) {
	value = strings.TrimSpace(value)
	tokens := strings.Split(value, ":")
	if len(tokens) < 2 || len(tokens) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	var parts [3]int
	for i, token := range tokens {
		num, err := strconv.Atoi(token)
		if err != nil || num < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
		}
		parts[i] = num
	}
	if parts[1] >= 60 || parts[2] >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	return float64(parts[0]*60+parts[1]) + float64(parts[2])/60, nil
}

// Formats minutes after midnight as a time of day "HH:MM:SS", wrapping hours past 24.
func FormatScheduleTime(minutes float64) string {
	total := int(minutes*60 + 0.5)
	h := (total / 3600) % 24
	m := (total / 60) % 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func _ParseCoordinate(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}
