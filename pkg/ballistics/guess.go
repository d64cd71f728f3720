package ballistics

import (
	"math"

	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// fallbackPitchDeg is used when the vacuum solve has no usable root.
const fallbackPitchDeg = 45.0

// EstimateInitialPitch returns a closed-form pitch estimate that
// ignores drag and wind, for use as an optimizer seed.
//
// For horizontal range r and height difference dz, with u=tan(pitch),
// the vacuum trajectory gives a*u² - r*u + (a+dz) = 0 where
// a = g*r²/(2*v²). The low-angle root is preferred (flatter arc,
// least time-of-flight sensitivity to drag). Degenerate geometry —
// negative discriminant, negligible leading coefficient, or no root
// inside [1°,89°] — falls back to 45° rather than failing.
func EstimateInitialPitch(sc Scenario) float64 {
	low, _ := vacuumPitchRoots(sc)
	return low
}

// vacuumPitchRoots returns the low- and high-angle vacuum solutions in
// degrees. Roots outside [1°,89°] are discarded; when none survive
// both values are the 45° fallback, and when only one survives it is
// returned twice.
func vacuumPitchRoots(sc Scenario) (low, high float64) {
	dx, dy := geo.ToENU(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon)
	r := math.Hypot(dx, dy)
	dz := sc.Target.Elev - sc.Launch.Elev

	v := math.Max(0.1, sc.MuzzleSpeed)
	g := sc.Env.Gravity
	if g == 0 {
		g = StandardGravity
	}

	a := g * r * r / (2.0 * v * v)
	qa, qb, qc := a, -r, a+dz

	disc := qb*qb - 4*qa*qc
	if disc < 0 || math.Abs(qa) < 1e-12 {
		return fallbackPitchDeg, fallbackPitchDeg
	}

	sq := math.Sqrt(disc)
	var cands []float64
	for _, u := range []float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		theta := math.Atan(u) * 180.0 / math.Pi
		if theta >= 1.0 && theta <= 89.0 {
			cands = append(cands, theta)
		}
	}
	switch len(cands) {
	case 0:
		return fallbackPitchDeg, fallbackPitchDeg
	case 1:
		return cands[0], cands[0]
	default:
		if cands[0] <= cands[1] {
			return cands[0], cands[1]
		}
		return cands[1], cands[0]
	}
}
