package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KHzFromMHzString parses a frequency given in MHz ("126.125", "118.6")
// into integer kHz. Frequencies are compared in kHz everywhere to avoid
// float equality trouble.
func KHzFromMHzString(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty frequency")
	}
	mhz, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q: %w", s, err)
	}
	if mhz <= 0 {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}
	return int(math.Round(mhz * 1000)), nil
}

// FormatKHz renders integer kHz as the usual MHz notation ("126.125").
func FormatKHz(khz int) string {
	return strconv.FormatFloat(float64(khz)/1000, 'f', 3, 64)
}
