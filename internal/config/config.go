package config

import (
	"os"
	"strconv"

	"github.com/jmorneau/cannonaim-mcp/pkg/ballistics"
)

// Config holds all application configuration.
type Config struct {
	Solver  SolverConfig
	Metrics MetricsConfig
}

// SolverConfig holds the numeric solver settings. All times are
// physics seconds, not wall-clock durations.
type SolverConfig struct {
	TimeStep         float64 // reporting integration step
	CoarseTimeStep   float64 // optimizer inner-loop step
	MaxFlightTime    float64 // fixed-speed give-up time
	GlobalFlightTime float64 // free-speed objective give-up time
	PitchMinDeg      float64 // refine search band floor
	PitchMaxDeg      float64 // refine search band ceiling
	SpeedMin         float64 // free-speed lower bound, m/s
	SpeedMax         float64 // free-speed upper bound, m/s
}

// MetricsConfig holds the optional Prometheus listener settings. An
// empty Addr disables the listener.
type MetricsConfig struct {
	Addr string
}

// Load reads configuration from environment variables, falling back to
// defaults.
func Load() Config {
	return Config{
		Solver: SolverConfig{
			TimeStep:         getEnvFloat("SOLVER_TIME_STEP", 0.01),
			CoarseTimeStep:   getEnvFloat("SOLVER_COARSE_TIME_STEP", 0.02),
			MaxFlightTime:    getEnvFloat("SOLVER_MAX_FLIGHT_TIME", 30.0),
			GlobalFlightTime: getEnvFloat("SOLVER_GLOBAL_FLIGHT_TIME", 120.0),
			PitchMinDeg:      getEnvFloat("SOLVER_PITCH_MIN_DEG", 5.0),
			PitchMaxDeg:      getEnvFloat("SOLVER_PITCH_MAX_DEG", 89.0),
			SpeedMin:         getEnvFloat("SOLVER_SPEED_MIN", 50.0),
			SpeedMax:         getEnvFloat("SOLVER_SPEED_MAX", 300.0),
		},
		Metrics: MetricsConfig{
			Addr: getEnvString("METRICS_ADDR", ""),
		},
	}
}

// SimConfig returns the full-resolution integration settings.
func (s SolverConfig) SimConfig() ballistics.SimConfig {
	return ballistics.SimConfig{Step: s.TimeStep, MaxFlightTime: s.MaxFlightTime}
}

// RefineConfig returns the fixed-speed search settings.
func (s SolverConfig) RefineConfig() ballistics.RefineConfig {
	cfg := ballistics.DefaultRefineConfig()
	cfg.PitchMinDeg = s.PitchMinDeg
	cfg.PitchMaxDeg = s.PitchMaxDeg
	cfg.Sim = ballistics.SimConfig{Step: s.CoarseTimeStep, MaxFlightTime: s.MaxFlightTime}
	return cfg
}

// GlobalConfig returns the free-speed search settings.
func (s SolverConfig) GlobalConfig() ballistics.GlobalConfig {
	cfg := ballistics.DefaultGlobalConfig()
	cfg.Bounds.SpeedMin = s.SpeedMin
	cfg.Bounds.SpeedMax = s.SpeedMax
	cfg.Sim = ballistics.SimConfig{Step: s.TimeStep, MaxFlightTime: s.GlobalFlightTime}
	return cfg
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
