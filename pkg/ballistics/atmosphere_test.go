package ballistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDensityAtConstant(t *testing.T) {
	env := Environment{AirDensity: 1.1}
	assert.Equal(t, 1.1, env.DensityAt(0))
	assert.Equal(t, 1.1, env.DensityAt(5000))
}

func TestDensityAtExponential(t *testing.T) {
	env := Environment{AirDensity: SeaLevelDensity, ExponentialAtmosphere: true}
	assert.InDelta(t, SeaLevelDensity, env.DensityAt(0), 1e-12)
	// one scale height up the density drops by a factor of e
	assert.InDelta(t, SeaLevelDensity/math.E, env.DensityAt(AtmosphereScaleHeightM), 1e-9)
	assert.Less(t, env.DensityAt(3000), env.DensityAt(1000))
}

func TestDensityAtZeroDefaultsToSeaLevel(t *testing.T) {
	var env Environment
	assert.Equal(t, SeaLevelDensity, env.DensityAt(0))
}

func TestDensityFromConditions(t *testing.T) {
	// ISA sea level: 1013.25 hPa at 15 C
	assert.InDelta(t, 1.2250, DensityFromConditions(1013.25, 15.0), 1e-3)
	// cold air is denser
	assert.Greater(t, DensityFromConditions(1013.25, -20.0), DensityFromConditions(1013.25, 30.0))
}
