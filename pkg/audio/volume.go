package audio

import "math"

// volumeToPower maps a 0.0-1.0 linear volume to beep's base-2 exponent.
// Unity gain is 0, halving the volume drops the exponent by one.
func volumeToPower(vol float64) float64 {
	if vol <= 0.01 {
		return -10 // Silent
	}
	return math.Log2(vol)
}
