// Package state holds the one mutable scenario the tool server edits
// between solves: launch and target points, environment, projectile,
// muzzle speed, and the turret's current aim.
package state

import (
	"sync"

	"github.com/jmorneau/cannonaim-mcp/pkg/ballistics"
	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// Manager is a concurrent-safe scenario holder. Setters apply the same
// operational clamps the interactive tooling always has (pitch kept
// out of the vertical, speeds kept positive) so the stored scenario
// stays simulatable; full validation still happens in the solver.
type Manager struct {
	mu  sync.RWMutex
	sc  ballistics.Scenario
	yaw float64 // current turret yaw, degrees [0,360)
	pit float64 // current turret pitch, degrees
}

// NewManager returns a Manager seeded with the default test-range
// scenario: an 80 mm, 1 kg projectile at 60 m/s in still sea-level
// air.
func NewManager() *Manager {
	return &Manager{
		sc: ballistics.Scenario{
			Launch:      ballistics.Point{Lat: 45.5017, Lon: -73.5673},
			Target:      ballistics.Point{Lat: 45.5018, Lon: -73.5672},
			Env:         ballistics.DefaultEnvironment(),
			Proj:        ballistics.Projectile{MassKG: 1.0, DiameterM: 0.08, DragCoeff: 0.35},
			MuzzleSpeed: 60.0,
		},
		pit: 45.0,
	}
}

// Scenario returns a snapshot of the current scenario.
func (m *Manager) Scenario() ballistics.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sc
}

// Aim returns the turret's current yaw and pitch in degrees.
func (m *Manager) Aim() (yawDeg, pitchDeg float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.yaw, m.pit
}

// SetLaunch replaces the launch point.
func (m *Manager) SetLaunch(p ballistics.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sc.Launch = p
}

// SetTarget replaces the target point.
func (m *Manager) SetTarget(p ballistics.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sc.Target = p
}

// SetWind replaces the wind. Speed is floored at zero and the toward
// direction wrapped into [0,360).
func (m *Manager) SetWind(speedMPS, towardDeg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if speedMPS < 0 {
		speedMPS = 0
	}
	m.sc.Env.Wind = ballistics.Wind{SpeedMPS: speedMPS, TowardDeg: geo.NormalizeBearing(towardDeg)}
}

// SetAirDensity sets the reference density (floored at 0.2 kg/m³) and
// whether it decays exponentially with altitude.
func (m *Manager) SetAirDensity(rho float64, exponential bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rho < 0.2 {
		rho = 0.2
	}
	m.sc.Env.AirDensity = rho
	m.sc.Env.ExponentialAtmosphere = exponential
}

// SetProjectile replaces the projectile, flooring mass, diameter, and
// drag coefficient at small positive values.
func (m *Manager) SetProjectile(massKG, diameterM, dragCoeff float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if massKG < 0.01 {
		massKG = 0.01
	}
	if diameterM < 0.001 {
		diameterM = 0.001
	}
	if dragCoeff < 0.01 {
		dragCoeff = 0.01
	}
	m.sc.Proj = ballistics.Projectile{MassKG: massKG, DiameterM: diameterM, DragCoeff: dragCoeff}
}

// SetMuzzleSpeed sets the fixed muzzle speed, floored at 0.1 m/s.
func (m *Manager) SetMuzzleSpeed(v0 float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v0 < 0.1 {
		v0 = 0.1
	}
	m.sc.MuzzleSpeed = v0
}

// SetAim sets the turret's current aim. Yaw wraps into [0,360), pitch
// is clamped to [0,89.9].
func (m *Manager) SetAim(yawDeg, pitchDeg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yaw = geo.NormalizeBearing(yawDeg)
	m.pit = clampPitch(pitchDeg)
}

// JogAim nudges the current aim by the given deltas, with the same
// wrap and clamp as SetAim, and returns the new aim.
func (m *Manager) JogAim(dYawDeg, dPitchDeg float64) (yawDeg, pitchDeg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yaw = geo.NormalizeBearing(m.yaw + dYawDeg)
	m.pit = clampPitch(m.pit + dPitchDeg)
	return m.yaw, m.pit
}

func clampPitch(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 89.9 {
		return 89.9
	}
	return p
}
