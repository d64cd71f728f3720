// Package ballistics computes launch parameters that deliver a
// projectile from a launch point to a target point under gravity,
// quadratic aerodynamic drag, and wind. It contains a forward
// trajectory integrator, a closed-form vacuum pitch estimate, a local
// pattern-search refiner for fixed muzzle speed, and a multi-start
// bounded global search for free muzzle speed.
//
// Coordinates are geodetic degrees at the boundary and a local ENU
// frame (x=East, y=North, z=Up, meters) internally. Yaw is bearing
// style: 0=North, 90=East. Pitch is degrees above horizontal.
package ballistics

import (
	"fmt"
	"math"
)

// StandardGravity is the default gravitational acceleration in m/s².
const StandardGravity = 9.80665

// SeaLevelDensity is the default air density in kg/m³.
const SeaLevelDensity = 1.225

// Point is a geodetic position with elevation above a common datum.
type Point struct {
	Lat  float64 // degrees
	Lon  float64 // degrees
	Elev float64 // meters
}

// Wind is a horizontal wind given as speed plus the direction it blows
// toward (not from), bearing style.
type Wind struct {
	SpeedMPS  float64
	TowardDeg float64 // 0=northward, 90=eastward
}

// ENU decomposes the wind into east/north components in m/s.
func (w Wind) ENU() (east, north float64) {
	th := w.TowardDeg * math.Pi / 180.0
	return w.SpeedMPS * math.Sin(th), w.SpeedMPS * math.Cos(th)
}

// Relative decomposes the wind against a launcher heading: headwind is
// the along-heading component (positive pushes the shot forward),
// crosswind the component pushing to the right of the heading.
func (w Wind) Relative(headingDeg float64) (headwind, crosswind float64) {
	we, wn := w.ENU()
	h := headingDeg * math.Pi / 180.0
	fwdE, fwdN := math.Sin(h), math.Cos(h)
	rightE, rightN := math.Sin(h+math.Pi/2), math.Cos(h+math.Pi/2)
	return we*fwdE + wn*fwdN, we*rightE + wn*rightN
}

// Environment holds the ambient conditions a shot is integrated under.
type Environment struct {
	Gravity    float64 // m/s²
	AirDensity float64 // kg/m³ at the reference altitude
	Wind       Wind

	// ExponentialAtmosphere switches drag to an altitude-dependent
	// density rho(h) = AirDensity * exp(-h / AtmosphereScaleHeightM),
	// evaluated at absolute altitude (launch elevation + height).
	ExponentialAtmosphere bool
}

// DefaultEnvironment returns still air at sea-level density and
// standard gravity.
func DefaultEnvironment() Environment {
	return Environment{Gravity: StandardGravity, AirDensity: SeaLevelDensity}
}

// Projectile describes the fired body. Diameter gives the reference
// cross-section for the drag term.
type Projectile struct {
	MassKG    float64
	DiameterM float64
	DragCoeff float64
}

// Area returns the cross-sectional reference area in m².
func (p Projectile) Area() float64 {
	r := p.DiameterM / 2.0
	return math.Pi * r * r
}

// Aim is a full launch parameter set.
type Aim struct {
	YawDeg   float64 // [0,360)
	PitchDeg float64 // above horizontal
	SpeedMPS float64 // muzzle speed, > 0
}

// Scenario bundles everything a solve needs besides the aim itself.
// MuzzleSpeed is the fixed speed used by Simulate, EstimateInitialPitch
// and RecommendFixedSpeed; RecommendFreeSpeed treats speed as free.
type Scenario struct {
	Launch      Point
	Target      Point
	Env         Environment
	Proj        Projectile
	MuzzleSpeed float64 // m/s
}

// Validate fails fast on inputs that would make integration
// meaningless. Zero-value Env fields are not an error here; Simulate
// substitutes defaults for gravity and density.
func (sc Scenario) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"launch latitude", sc.Launch.Lat},
		{"launch longitude", sc.Launch.Lon},
		{"launch elevation", sc.Launch.Elev},
		{"target latitude", sc.Target.Lat},
		{"target longitude", sc.Target.Lon},
		{"target elevation", sc.Target.Elev},
	} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidInput, c.name)
		}
	}
	if sc.Launch.Lat < -90 || sc.Launch.Lat > 90 || sc.Target.Lat < -90 || sc.Target.Lat > 90 {
		return fmt.Errorf("%w: latitude out of [-90,90]", ErrInvalidInput)
	}
	if sc.Proj.MassKG <= 0 {
		return fmt.Errorf("%w: projectile mass must be positive (got %v kg)", ErrInvalidInput, sc.Proj.MassKG)
	}
	if sc.Proj.DiameterM <= 0 {
		return fmt.Errorf("%w: projectile diameter must be positive (got %v m)", ErrInvalidInput, sc.Proj.DiameterM)
	}
	if sc.Proj.DragCoeff < 0 || math.IsNaN(sc.Proj.DragCoeff) {
		return fmt.Errorf("%w: drag coefficient must be >= 0 (got %v)", ErrInvalidInput, sc.Proj.DragCoeff)
	}
	return nil
}

// validateSpeed is the extra check for the fixed-speed operations.
func (sc Scenario) validateSpeed() error {
	if sc.MuzzleSpeed <= 0 || math.IsNaN(sc.MuzzleSpeed) {
		return fmt.Errorf("%w: muzzle speed must be positive (got %v m/s)", ErrInvalidInput, sc.MuzzleSpeed)
	}
	return nil
}

// Result is the outcome of one forward integration.
type Result struct {
	// Impact position in the launch-centered ENU frame, meters. When
	// Timeout is set this is the last integrated position instead of
	// an interpolated plane crossing.
	ImpactEast  float64
	ImpactNorth float64
	ImpactUp    float64

	TimeOfFlight float64 // seconds

	// MissDistance is the horizontal distance between the impact and
	// the target's projected position.
	MissDistance float64

	// TargetEast/TargetNorth is the target's ENU offset, for callers
	// that want to report geometry alongside the miss.
	TargetEast  float64
	TargetNorth float64

	// Timeout marks a trajectory that never crossed the target
	// elevation plane within the max flight time. Reported, not fatal.
	Timeout bool
}
