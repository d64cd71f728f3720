// Package align turns a desired aim and a measured turret attitude
// into per-axis correction suggestions: direction, a proportional
// speed in [0,1], and an aligned flag once both axes sit inside
// tolerance. It suggests only; actuation lives outside this system.
package align

import (
	"math"

	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// Params are the controller tolerances and gains.
type Params struct {
	TolYawDeg   float64 // aligned when |yaw error| is within
	TolPitchDeg float64

	// proportional gains, suggested speed01 per degree of error;
	// conservative by default
	GainYaw   float64
	GainPitch float64

	MinSpeed01 float64 // floor while moving, to overcome stiction
	MaxSpeed01 float64
}

// DefaultParams returns the documented conservative defaults.
func DefaultParams() Params {
	return Params{
		TolYawDeg:   2.0,
		TolPitchDeg: 2.0,
		GainYaw:     0.02,
		GainPitch:   0.02,
		MinSpeed01:  0.08,
		MaxSpeed01:  0.40,
	}
}

// Guidance is one correction suggestion. Dir values are -1 (left/
// down), +1 (right/up), or 0 (hold).
type Guidance struct {
	YawErrorDeg   float64 // shortest signed desired-current
	PitchErrorDeg float64

	YawDir     int
	YawSpeed01 float64

	PitchDir     int
	PitchSpeed01 float64

	Aligned bool
}

// Suggest computes the correction from current to desired angles.
func Suggest(desiredYaw, desiredPitch, currentYaw, currentPitch float64, p Params) Guidance {
	dyaw := geo.AngleDiff(desiredYaw, currentYaw)
	dpitch := desiredPitch - currentPitch

	alignedYaw := math.Abs(dyaw) <= p.TolYawDeg
	alignedPitch := math.Abs(dpitch) <= p.TolPitchDeg

	g := Guidance{
		YawErrorDeg:   dyaw,
		PitchErrorDeg: dpitch,
		Aligned:       alignedYaw && alignedPitch,
	}

	if !alignedYaw {
		g.YawDir = 1
		if dyaw < 0 {
			g.YawDir = -1
		}
		g.YawSpeed01 = speed01(dyaw, p.GainYaw, p)
	}
	if !alignedPitch {
		g.PitchDir = 1
		if dpitch < 0 {
			g.PitchDir = -1
		}
		g.PitchSpeed01 = speed01(dpitch, p.GainPitch, p)
	}
	return g
}

func speed01(errDeg, gain float64, p Params) float64 {
	s := math.Abs(errDeg) * gain
	if s > p.MaxSpeed01 {
		s = p.MaxSpeed01
	}
	if s < p.MinSpeed01 {
		s = p.MinSpeed01
	}
	return s
}
