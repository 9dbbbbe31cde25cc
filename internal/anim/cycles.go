package anim

import "math"

const (
	// BlinkHalfPeriod is the number of frames the cursor stays in one phase
	BlinkHalfPeriod = 15
	// PulseRate is the angular speed of the sound badge pulse, radians per frame
	PulseRate = 0.3
	// TypingSpeed is the default typing rate in characters per frame
	TypingSpeed = 1.5
)

// Blink reports whether the cursor is lit at frame. The phase is global.
func Blink(frame int) bool {
	return floorDiv(frame, BlinkHalfPeriod)&1 == 0
}

// Pulse returns the badge scale at frame, oscillating in [0.8, 1.0]
func Pulse(frame int) float64 {
	return Interpolate(math.Sin(float64(frame)*PulseRate), [2]float64{-1, 1}, [2]float64{0.8, 1})
}

// TypedChars returns how many of length characters are revealed after
// elapsed frames at speed characters per frame
func TypedChars(elapsed, length int, speed float64) int {
	if elapsed <= 0 || length <= 0 {
		return 0
	}
	// Clamp before converting: elapsed*speed may not fit in an int
	v := math.Floor(float64(elapsed) * speed)
	if v >= float64(length) {
		return length
	}
	return int(v)
}

// TypingDone returns the first elapsed frame at which all characters are shown
func TypingDone(length int, speed float64) int {
	return int(math.Ceil(float64(length) / speed))
}

// Elapsed is frame-start saturated to the int range
func Elapsed(frame, start int) int {
	d := frame - start
	if start < 0 && d < frame {
		return math.MaxInt
	}
	if start > 0 && d > frame {
		return math.MinInt
	}
	return d
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
