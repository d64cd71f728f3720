package ballistics

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/optimize"

	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// boundsPenalty is the finite sentinel score returned for parameter
// proposals outside the declared box. Bounded derivative-free
// minimizers probe outside the box during line searches and need a
// defined objective everywhere; returning a large value instead of an
// error keeps them moving.
const boundsPenalty = 1e6

// Bounds is the search box for the free-speed solve. Yaw is always
// free in [0,360).
type Bounds struct {
	SpeedMin float64 // m/s
	SpeedMax float64
	PitchMin float64 // degrees
	PitchMax float64
}

// DefaultBounds matches the documented mortar envelope.
func DefaultBounds() Bounds {
	return Bounds{SpeedMin: 50, SpeedMax: 300, PitchMin: 45, PitchMax: 85}
}

// GlobalConfig controls RecommendFreeSpeed. Zero values take the
// documented defaults.
type GlobalConfig struct {
	Bounds Bounds

	// SpeedSeeds × PitchSeeds form the multi-start grid; every start
	// uses the bearing to the target as its azimuth seed.
	SpeedSeeds []float64
	PitchSeeds []float64

	// MaxRangeFactor scales the vacuum maximum range v²/g used for the
	// reachability guard; default 0.7.
	MaxRangeFactor float64

	Sim SimConfig // objective integration; default 0.01 s step, 120 s cap
}

// DefaultGlobalConfig returns the documented seed grid and envelope.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Bounds:         DefaultBounds(),
		SpeedSeeds:     []float64{150, 200, 250},
		PitchSeeds:     []float64{55, 60, 65},
		MaxRangeFactor: 0.7,
		Sim:            SimConfig{Step: 0.01, MaxFlightTime: 120.0},
	}
}

func (c GlobalConfig) withDefaults() GlobalConfig {
	d := DefaultGlobalConfig()
	if c.Bounds == (Bounds{}) {
		c.Bounds = d.Bounds
	}
	if len(c.SpeedSeeds) == 0 {
		c.SpeedSeeds = d.SpeedSeeds
	}
	if len(c.PitchSeeds) == 0 {
		c.PitchSeeds = d.PitchSeeds
	}
	if c.MaxRangeFactor == 0 {
		c.MaxRangeFactor = d.MaxRangeFactor
	}
	if c.Sim.Step == 0 {
		c.Sim.Step = d.Sim.Step
	}
	if c.Sim.MaxFlightTime == 0 {
		c.Sim.MaxFlightTime = d.Sim.MaxFlightTime
	}
	return c
}

// FreeSpeedSolution is the best aim found across all starts.
type FreeSpeedSolution struct {
	SpeedMPS float64
	PitchDeg float64
	YawDeg   float64
	MissM    float64

	// Starts is the number of seed combinations attempted.
	Starts int
}

// RecommendFreeSpeed searches speed, pitch, and yaw together,
// minimizing horizontal miss over the bounded box.
//
// The objective is the integrator's miss distance, with boundsPenalty
// returned for out-of-box proposals. Each seed combination runs an
// independent derivative-free Nelder–Mead minimization; seeds run
// concurrently (the integrator is pure) and the winner is
// deterministic regardless of scheduling: lowest miss, ties broken by
// seed order. A start that fails to converge is skipped; if every
// start fails the solve surfaces ErrNoConvergence. Targets beyond
// MaxRangeFactor·v_max²/g are rejected up front with ErrOutOfRange.
// Only best-of-starts is guaranteed, not global optimality.
func RecommendFreeSpeed(sc Scenario, cfg GlobalConfig) (FreeSpeedSolution, error) {
	if err := sc.Validate(); err != nil {
		return FreeSpeedSolution{}, err
	}
	cfg = cfg.withDefaults()

	g := sc.Env.Gravity
	if g == 0 {
		g = StandardGravity
	}
	dx, dy := geo.ToENU(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon)
	if dist := math.Hypot(dx, dy); dist > cfg.MaxRangeFactor*cfg.Bounds.SpeedMax*cfg.Bounds.SpeedMax/g {
		return FreeSpeedSolution{}, ErrOutOfRange
	}

	objective := func(x []float64) float64 {
		v0, pitch, yaw := x[0], x[1], x[2]
		if v0 < cfg.Bounds.SpeedMin || v0 > cfg.Bounds.SpeedMax ||
			pitch < cfg.Bounds.PitchMin || pitch > cfg.Bounds.PitchMax ||
			yaw < 0 || yaw >= 360 {
			return boundsPenalty
		}
		res, err := Simulate(sc, Aim{YawDeg: yaw, PitchDeg: pitch, SpeedMPS: v0}, cfg.Sim)
		if err != nil || res.Timeout {
			return boundsPenalty
		}
		return res.MissDistance
	}

	bearing := geo.Bearing(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon)

	type start struct{ v0, pitch float64 }
	var starts []start
	for _, v0 := range cfg.SpeedSeeds {
		for _, p := range cfg.PitchSeeds {
			starts = append(starts, start{v0: v0, pitch: p})
		}
	}

	type outcome struct {
		x  [3]float64
		f  float64
		ok bool
	}
	outcomes := make([]outcome, len(starts))

	var wg sync.WaitGroup
	for i, st := range starts {
		wg.Add(1)
		go func(i int, st start) {
			defer wg.Done()
			seed := []float64{st.v0, st.pitch, bearing}

			// the seed itself is always a candidate, so multi-start
			// can never do worse than its best seeded evaluation
			best := outcome{x: [3]float64{seed[0], seed[1], seed[2]}, f: objective(seed)}
			best.ok = best.f < boundsPenalty

			problem := optimize.Problem{Func: objective}
			res, err := optimize.Minimize(problem, seed, nil, &optimize.NelderMead{})
			if err == nil && res != nil && res.F < best.f &&
				!math.IsNaN(res.F) && res.F < boundsPenalty {
				best = outcome{x: [3]float64{res.X[0], res.X[1], res.X[2]}, f: res.F, ok: true}
			}
			outcomes[i] = best
		}(i, st)
	}
	wg.Wait()

	bestIdx := -1
	for i, o := range outcomes {
		if !o.ok {
			continue
		}
		if bestIdx < 0 || o.f < outcomes[bestIdx].f {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return FreeSpeedSolution{}, ErrNoConvergence
	}

	o := outcomes[bestIdx]
	return FreeSpeedSolution{
		SpeedMPS: o.x[0],
		PitchDeg: o.x[1],
		YawDeg:   geo.NormalizeBearing(o.x[2]),
		MissM:    o.f,
		Starts:   len(starts),
	}, nil
}
