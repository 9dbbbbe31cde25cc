package anim

import "math"

// SpringConfig describes a damped spring moving from 0 to 1.
// Zero fields fall back to mass 1, stiffness 100, damping 10.
type SpringConfig struct {
	Mass              float64
	Stiffness         float64
	Damping           float64
	Delay             int  // Frames to wait before the spring starts
	OvershootClamping bool // Keep the value inside [0,1]
}

// Spring returns the position of a spring released at frame 0 after elapsed frames.
// Uses the closed-form solution of the damped harmonic oscillator, so the
// value depends on the frame only and never on previous calls.
func Spring(frame int, fps int, cfg SpringConfig) float64 {
	mass, stiffness, damping := cfg.Mass, cfg.Stiffness, cfg.Damping
	if mass <= 0 {
		mass = 1
	}
	if stiffness <= 0 {
		stiffness = 100
	}
	if damping <= 0 {
		damping = 10
	}
	if fps <= 0 {
		fps = 30
	}

	local := Elapsed(frame, cfg.Delay)
	if local <= 0 {
		return 0
	}
	t := float64(local) / float64(fps)

	omega := math.Sqrt(stiffness / mass)
	zeta := damping / (2 * math.Sqrt(stiffness*mass))

	var displacement float64
	switch {
	case math.Abs(zeta-1) < 1e-9:
		// Critically damped
		displacement = math.Exp(-omega*t) * (1 + omega*t)
	case zeta < 1:
		wd := omega * math.Sqrt(1-zeta*zeta)
		displacement = math.Exp(-zeta*omega*t) * (math.Cos(wd*t) + zeta*omega/wd*math.Sin(wd*t))
	default:
		root := math.Sqrt(zeta*zeta - 1)
		r1 := -omega * (zeta - root)
		r2 := -omega * (zeta + root)
		displacement = (r2*math.Exp(r1*t) - r1*math.Exp(r2*t)) / (r2 - r1)
	}

	value := 1 - displacement
	if cfg.OvershootClamping {
		value = clamp01(value)
	}
	return value
}
