package ballistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateInitialPitchMatchesClosedForm(t *testing.T) {
	// flat ground: the vacuum solution is asin(g*r/v^2)/2
	sc := eastScenario(300, vacuumProjectile(), 80)
	analytic := math.Asin(StandardGravity*300/(80*80)) / 2 * 180 / math.Pi
	assert.InDelta(t, analytic, EstimateInitialPitch(sc), 1e-3)
}

func TestVacuumPitchRootsComplementary(t *testing.T) {
	// on flat ground the two vacuum arcs are mirrored around 45
	sc := eastScenario(300, vacuumProjectile(), 80)
	low, high := vacuumPitchRoots(sc)
	assert.Less(t, low, high)
	assert.InDelta(t, 90.0, low+high, 1e-3)
}

func TestEstimateInitialPitchUnreachableFallsBack(t *testing.T) {
	// 10 km at 50 m/s has no vacuum solution
	sc := eastScenario(10000, vacuumProjectile(), 50)
	assert.Equal(t, 45.0, EstimateInitialPitch(sc))

	low, high := vacuumPitchRoots(sc)
	assert.Equal(t, 45.0, low)
	assert.Equal(t, 45.0, high)
}

func TestEstimateInitialPitchElevatedTarget(t *testing.T) {
	// a raised target steepens the low arc
	flat := eastScenario(300, vacuumProjectile(), 80)
	raised := flat
	raised.Target.Elev = 50

	assert.Greater(t, EstimateInitialPitch(raised), EstimateInitialPitch(flat))
}

func TestEstimateInitialPitchZeroSpeedDoesNotPanic(t *testing.T) {
	sc := eastScenario(300, vacuumProjectile(), 0)
	// speed is floored internally; degenerate geometry falls back to 45
	assert.Equal(t, 45.0, EstimateInitialPitch(sc))
}
