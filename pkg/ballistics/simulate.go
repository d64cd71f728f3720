package ballistics

import (
	"fmt"
	"math"

	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// SimConfig controls one forward integration.
type SimConfig struct {
	Step          float64 // time step, seconds
	MaxFlightTime float64 // give-up time, seconds
}

// DefaultSimConfig is the full-resolution integration used for
// reported results.
func DefaultSimConfig() SimConfig {
	return SimConfig{Step: 0.01, MaxFlightTime: 30.0}
}

// CoarseSimConfig is the cheaper integration used inside optimizer
// inner loops.
func CoarseSimConfig() SimConfig {
	return SimConfig{Step: 0.02, MaxFlightTime: 30.0}
}

func (c SimConfig) withDefaults() SimConfig {
	if c.Step <= 0 {
		c.Step = 0.01
	}
	if c.MaxFlightTime <= 0 {
		c.MaxFlightTime = 30.0
	}
	return c
}

// Simulate integrates a shot at the given aim and reports where it
// lands relative to the target.
//
// The projectile starts at the launch point (local origin) and is
// stepped with semi-implicit Euler: quadratic drag against the
// wind-relative velocity, gravity on the vertical axis, velocity
// updated before position. Integration stops when the altitude crosses
// the target elevation plane; the crossing is linearly interpolated
// between the last two samples so the reported impact does not carry a
// step-size bias. A trajectory still airborne at MaxFlightTime returns
// with Timeout set and the miss measured at the final position.
func Simulate(sc Scenario, aim Aim, cfg SimConfig) (Result, error) {
	if err := sc.Validate(); err != nil {
		return Result{}, err
	}
	if aim.SpeedMPS <= 0 || math.IsNaN(aim.SpeedMPS) {
		return Result{}, fmt.Errorf("%w: aim speed must be positive (got %v m/s)", ErrInvalidInput, aim.SpeedMPS)
	}
	if math.IsNaN(aim.YawDeg) || math.IsNaN(aim.PitchDeg) {
		return Result{}, fmt.Errorf("%w: aim angles must be finite", ErrInvalidInput)
	}
	cfg = cfg.withDefaults()

	dx, dy := geo.ToENU(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon)
	dz := sc.Target.Elev - sc.Launch.Elev

	yaw := aim.YawDeg * math.Pi / 180.0
	pitch := aim.PitchDeg * math.Pi / 180.0

	// yaw 0=N => +north, 90=E => +east
	vx := aim.SpeedMPS * math.Cos(pitch) * math.Sin(yaw)
	vy := aim.SpeedMPS * math.Cos(pitch) * math.Cos(yaw)
	vz := aim.SpeedMPS * math.Sin(pitch)

	wx, wy := sc.Env.Wind.ENU()

	g := sc.Env.Gravity
	if g == 0 {
		g = StandardGravity
	}
	k0 := 0.5 * sc.Proj.DragCoeff * sc.Proj.Area() / sc.Proj.MassKG

	var x, y, z, t float64
	var px, py, pz, pt float64
	dt := cfg.Step

	for t < cfg.MaxFlightTime {
		rvx := vx - wx
		rvy := vy - wy
		rvz := vz
		// epsilon keeps the division defined when projectile and wind
		// are momentarily co-moving
		vmag := math.Sqrt(rvx*rvx+rvy*rvy+rvz*rvz) + 1e-12

		k := k0 * sc.Env.DensityAt(sc.Launch.Elev+z)
		ax := -k * vmag * rvx
		ay := -k * vmag * rvy
		az := -g - k*vmag*rvz

		vx += ax * dt
		vy += ay * dt
		vz += az * dt

		x += vx * dt
		y += vy * dt
		z += vz * dt
		t += dt

		if z <= dz {
			alpha := 0.0
			if math.Abs(z-pz) > 1e-9 {
				alpha = clamp((dz-pz)/(z-pz), 0.0, 1.0)
			}
			ix := px + alpha*(x-px)
			iy := py + alpha*(y-py)
			it := pt + alpha*(t-pt)
			return Result{
				ImpactEast:   ix,
				ImpactNorth:  iy,
				ImpactUp:     dz,
				TimeOfFlight: it,
				MissDistance: math.Hypot(ix-dx, iy-dy),
				TargetEast:   dx,
				TargetNorth:  dy,
			}, nil
		}

		px, py, pz, pt = x, y, z, t
	}

	return Result{
		ImpactEast:   x,
		ImpactNorth:  y,
		ImpactUp:     z,
		TimeOfFlight: t,
		MissDistance: math.Hypot(x-dx, y-dy),
		TargetEast:   dx,
		TargetNorth:  dy,
		Timeout:      true,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
