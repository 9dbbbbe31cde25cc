package anim

import (
	"math"

	"github.com/fogleman/ease"
)

// Easing remaps normalized progress t in [0,1]
type Easing func(t float64) float64

// Interpolate maps x from the input range to the output range linearly,
// clamped at both ends
func Interpolate(x float64, in, out [2]float64) float64 {
	return InterpolateEase(x, in, out, ease.Linear)
}

// InterpolateEase is Interpolate with an easing applied to the progress
func InterpolateEase(x float64, in, out [2]float64, easing Easing) float64 {
	if in[1] == in[0] {
		if x < in[0] {
			return out[0]
		}
		return out[1]
	}

	t := clamp01((x - in[0]) / (in[1] - in[0]))
	if easing != nil {
		t = easing(t)
	}
	return lerp(out[0], out[1], t)
}

// InterpolateFrame is Interpolate over integer frame numbers
func InterpolateFrame(frame, from, to int, out [2]float64) float64 {
	return Interpolate(float64(frame), [2]float64{float64(from), float64(to)}, out)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
