package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestAlignedWithinTolerance(t *testing.T) {
	g := Suggest(90, 45, 91, 44.5, DefaultParams())

	assert.True(t, g.Aligned)
	assert.Zero(t, g.YawDir)
	assert.Zero(t, g.PitchDir)
	assert.Zero(t, g.YawSpeed01)
	assert.Zero(t, g.PitchSpeed01)
	assert.InDelta(t, -1.0, g.YawErrorDeg, 1e-9)
	assert.InDelta(t, 0.5, g.PitchErrorDeg, 1e-9)
}

func TestSuggestYawWrapsAcrossNorth(t *testing.T) {
	// desired 5, current 355: the short way is 10 degrees right
	g := Suggest(5, 45, 355, 45, DefaultParams())

	assert.False(t, g.Aligned)
	assert.Equal(t, 1, g.YawDir)
	assert.InDelta(t, 10.0, g.YawErrorDeg, 1e-9)
	assert.InDelta(t, 0.2, g.YawSpeed01, 1e-9) // 10 deg * 0.02 gain
	assert.Zero(t, g.PitchDir)
}

func TestSuggestSpeedClampedToMax(t *testing.T) {
	g := Suggest(180, 45, 0, 45, DefaultParams())
	assert.Equal(t, DefaultParams().MaxSpeed01, g.YawSpeed01)
}

func TestSuggestSpeedFloorOvercomesStiction(t *testing.T) {
	// 2.5 degrees of yaw error maps below the floor at the default gain
	g := Suggest(92.5, 45, 90, 45, DefaultParams())
	assert.False(t, g.Aligned)
	assert.Equal(t, DefaultParams().MinSpeed01, g.YawSpeed01)
}

func TestSuggestPitchDirection(t *testing.T) {
	g := Suggest(90, 30, 90, 60, DefaultParams())
	assert.Equal(t, -1, g.PitchDir)
	assert.InDelta(t, -30.0, g.PitchErrorDeg, 1e-9)
	assert.Equal(t, DefaultParams().MaxSpeed01, g.PitchSpeed01)

	g = Suggest(90, 60, 90, 30, DefaultParams())
	assert.Equal(t, 1, g.PitchDir)
}

func TestSuggestCustomTolerance(t *testing.T) {
	p := DefaultParams()
	p.TolYawDeg = 15
	p.TolPitchDeg = 15

	g := Suggest(100, 50, 90, 45, p)
	assert.True(t, g.Aligned)
}
