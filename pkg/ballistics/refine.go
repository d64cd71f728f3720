package ballistics

import (
	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// RefineConfig controls the fixed-speed pattern search. Zero values
// take the documented defaults.
type RefineConfig struct {
	PitchMinDeg float64 // safe band floor, default 5
	PitchMaxDeg float64 // safe band ceiling, default 89

	YawStepDeg   float64 // initial yaw probe step, default 6
	PitchStepDeg float64 // initial pitch probe step, default 4
	MinStepDeg   float64 // stop once both steps shrink below, default 0.2
	MaxRounds    int     // probe-round cap, default 10

	Sim SimConfig // objective integration, default coarse (0.02 s step)
}

// DefaultRefineConfig returns the documented search defaults.
func DefaultRefineConfig() RefineConfig {
	return RefineConfig{
		PitchMinDeg:  5.0,
		PitchMaxDeg:  89.0,
		YawStepDeg:   6.0,
		PitchStepDeg: 4.0,
		MinStepDeg:   0.2,
		MaxRounds:    10,
		Sim:          CoarseSimConfig(),
	}
}

func (c RefineConfig) withDefaults() RefineConfig {
	d := DefaultRefineConfig()
	if c.PitchMinDeg == 0 {
		c.PitchMinDeg = d.PitchMinDeg
	}
	if c.PitchMaxDeg == 0 {
		c.PitchMaxDeg = d.PitchMaxDeg
	}
	if c.YawStepDeg == 0 {
		c.YawStepDeg = d.YawStepDeg
	}
	if c.PitchStepDeg == 0 {
		c.PitchStepDeg = d.PitchStepDeg
	}
	if c.MinStepDeg == 0 {
		c.MinStepDeg = d.MinStepDeg
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = d.MaxRounds
	}
	// a zero Sim gets the coarse optimizer step, not the reporting one
	if c.Sim.Step == 0 {
		c.Sim.Step = d.Sim.Step
	}
	c.Sim = c.Sim.withDefaults()
	return c
}

// FixedSpeedSolution is the outcome of RecommendFixedSpeed. The seed
// fields record the bearing/vacuum starting point before refinement.
type FixedSpeedSolution struct {
	YawDeg   float64
	PitchDeg float64
	MissM    float64

	SeedYawDeg   float64
	SeedPitchDeg float64
}

// RecommendFixedSpeed searches yaw and pitch for the scenario's fixed
// muzzle speed, minimizing the integrator's miss distance.
//
// The yaw seed is the bearing to the target; the pitch seed is
// whichever clamped vacuum root scores better at that bearing. From
// there a greedy pattern search probes yaw±step and pitch±step each
// round, keeps strictly improving moves, halves both steps on a round
// with no improvement, and stops once both fall below MinStepDeg or
// the round cap is reached. The result is a local minimum, guaranteed
// no worse than the seed.
func RecommendFixedSpeed(sc Scenario, cfg RefineConfig) (FixedSpeedSolution, error) {
	if err := sc.Validate(); err != nil {
		return FixedSpeedSolution{}, err
	}
	if err := sc.validateSpeed(); err != nil {
		return FixedSpeedSolution{}, err
	}
	cfg = cfg.withDefaults()

	score := func(yawDeg, pitchDeg float64) float64 {
		// inputs already validated; only the aim varies here
		res, err := Simulate(sc, Aim{YawDeg: yawDeg, PitchDeg: pitchDeg, SpeedMPS: sc.MuzzleSpeed}, cfg.Sim)
		if err != nil {
			return boundsPenalty
		}
		return res.MissDistance
	}

	seedYaw := geo.Bearing(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon)

	lowRoot, highRoot := vacuumPitchRoots(sc)
	seedPitch := clamp(lowRoot, cfg.PitchMinDeg, cfg.PitchMaxDeg)
	bestMiss := score(seedYaw, seedPitch)
	if hp := clamp(highRoot, cfg.PitchMinDeg, cfg.PitchMaxDeg); hp != seedPitch {
		if m := score(seedYaw, hp); m < bestMiss {
			seedPitch, bestMiss = hp, m
		}
	}

	bestYaw, bestPitch := seedYaw, seedPitch
	yawStep, pitchStep := cfg.YawStepDeg, cfg.PitchStepDeg

	for round := 0; round < cfg.MaxRounds; round++ {
		improved := false

		for _, dyaw := range []float64{-yawStep, 0.0, yawStep} {
			y2 := geo.NormalizeBearing(bestYaw + dyaw)
			if m2 := score(y2, bestPitch); m2 < bestMiss {
				bestMiss, bestYaw = m2, y2
				improved = true
			}
		}

		for _, dp := range []float64{-pitchStep, 0.0, pitchStep} {
			p2 := clamp(bestPitch+dp, cfg.PitchMinDeg, cfg.PitchMaxDeg)
			if m2 := score(bestYaw, p2); m2 < bestMiss {
				bestMiss, bestPitch = m2, p2
				improved = true
			}
		}

		if !improved {
			yawStep *= 0.5
			pitchStep *= 0.5
			if yawStep < cfg.MinStepDeg && pitchStep < cfg.MinStepDeg {
				break
			}
		}
	}

	return FixedSpeedSolution{
		YawDeg:       bestYaw,
		PitchDeg:     bestPitch,
		MissM:        bestMiss,
		SeedYawDeg:   seedYaw,
		SeedPitchDeg: seedPitch,
	}, nil
}
