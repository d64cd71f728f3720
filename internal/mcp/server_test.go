package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorneau/cannonaim-mcp/internal/config"
	"github.com/jmorneau/cannonaim-mcp/internal/elevation"
	internalmcp "github.com/jmorneau/cannonaim-mcp/internal/mcp"
	"github.com/jmorneau/cannonaim-mcp/internal/state"
	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// newSession connects a fresh server (default scenario) to an
// in-memory client session. elev may be nil.
func newSession(t *testing.T, elev elevation.Provider) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	srv := internalmcp.NewServer(state.NewManager(), elev, config.Load().Solver)
	st, ct := mcpsdk.NewInMemoryTransports()

	_, err := srv.Connect(ctx, st)
	require.NoError(t, err)

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "1.0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	return res
}

// decode unmarshals the single text content block of a tool result.
func decode(t *testing.T, res *mcpsdk.CallToolResult) map[string]any {
	t.Helper()
	require.Len(t, res.Content, 1)
	text := res.Content[0].(*mcpsdk.TextContent).Text
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &m))
	return m
}

func TestGetStatusDefaults(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "get_status", nil)

	require.False(t, res.IsError)
	m := decode(t, res)

	launch := m["launch"].(map[string]any)
	assert.InDelta(t, 45.5017, launch["latitude"].(float64), 1e-9)
	assert.InDelta(t, -73.5673, launch["longitude"].(float64), 1e-9)

	assert.InDelta(t, 13.58, m["distance_m"].(float64), 0.05)
	assert.InDelta(t, 35.03, m["bearing_deg"].(float64), 0.05)
	assert.Equal(t, 60.0, m["muzzle_speed_mps"].(float64))
	assert.Equal(t, 80.0, m["projectile_diameter_mm"].(float64))
	assert.Equal(t, 0.0, m["wind_speed_mps"].(float64))
	assert.Equal(t, 0.0, m["aim_yaw_deg"].(float64))
	assert.Equal(t, 45.0, m["aim_pitch_deg"].(float64))
}

func TestSetLaunchPointExplicitElevation(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "set_launch_point", map[string]any{
		"latitude": 44.0, "longitude": -72.0, "elevation_m": 120.0,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, 120.0, m["elevation_m"].(float64))

	status := decode(t, callTool(t, cs, "get_status", nil))
	launch := status["launch"].(map[string]any)
	assert.Equal(t, 44.0, launch["latitude"].(float64))
	assert.Equal(t, 120.0, launch["elevation_m"].(float64))
}

func TestSetPointKeepsElevationWithoutProvider(t *testing.T) {
	cs := newSession(t, nil)
	callTool(t, cs, "set_launch_point", map[string]any{
		"latitude": 44.0, "longitude": -72.0, "elevation_m": 50.0,
	})

	res := callTool(t, cs, "set_launch_point", map[string]any{
		"latitude": 44.5, "longitude": -72.5,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, 50.0, m["elevation_m"].(float64))
}

func TestSetTargetPointResolvesElevationFromProvider(t *testing.T) {
	cs := newSession(t, elevation.Static(25.0))
	res := callTool(t, cs, "set_target_point", map[string]any{
		"latitude": 45.51, "longitude": -73.56,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, 25.0, m["elevation_m"].(float64))
}

func TestSetPointElevationServiceError(t *testing.T) {
	failing := elevation.Func(func(ctx context.Context, lat, lon float64) (float64, error) {
		return 0, errors.New("service down")
	})
	cs := newSession(t, failing)

	res := callTool(t, cs, "set_launch_point", map[string]any{
		"latitude": 44.0, "longitude": -72.0,
	})
	require.True(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, "ELEVATION_UNAVAILABLE", m["code"])
	assert.Equal(t, true, m["recoverable"])
}

func TestSetWindClampsAndWraps(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "set_wind", map[string]any{
		"speed_mps": -3.0, "direction_toward_deg": 370.0,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, 0.0, m["wind_speed_mps"].(float64))
	assert.InDelta(t, 10.0, m["wind_toward_deg"].(float64), 1e-9)
}

func TestSetAirDensityFromConditions(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "set_air_density", map[string]any{
		"pressure_hpa": 1013.25, "temperature_c": 15.0,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.InDelta(t, 1.225, m["air_density_kg_m3"].(float64), 1e-3)
}

func TestSetAirDensityRequiresInput(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "set_air_density", nil)
	require.True(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, "INVALID_INPUT", m["code"])
	assert.Equal(t, true, m["recoverable"])
	assert.Equal(t, false, m["available"])
}

func TestSetProjectileConvertsMillimeters(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "set_projectile", map[string]any{
		"mass_kg": 2.0, "diameter_mm": 120.0, "drag_coefficient": 0.3,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, 2.0, m["mass_kg"].(float64))
	assert.InDelta(t, 120.0, m["diameter_mm"].(float64), 1e-9)
	assert.Equal(t, 0.3, m["drag_coefficient"].(float64))
}

func TestSetAndJogAim(t *testing.T) {
	cs := newSession(t, nil)

	m := decode(t, callTool(t, cs, "set_aim", map[string]any{
		"yaw_deg": 350.0, "pitch_deg": 80.0,
	}))
	assert.Equal(t, 350.0, m["yaw_deg"].(float64))
	assert.Equal(t, 80.0, m["pitch_deg"].(float64))

	m = decode(t, callTool(t, cs, "jog_aim", map[string]any{
		"yaw_delta_deg": 15.0, "pitch_delta_deg": 15.0,
	}))
	assert.InDelta(t, 5.0, m["yaw_deg"].(float64), 1e-9)
	assert.Equal(t, 89.9, m["pitch_deg"].(float64))
}

func TestSimulateShotAtRecommendedAim(t *testing.T) {
	cs := newSession(t, nil)

	rec := decode(t, callTool(t, cs, "recommend_aim", nil))
	callTool(t, cs, "set_aim", map[string]any{
		"yaw_deg": rec["yaw_deg"], "pitch_deg": rec["pitch_deg"],
	})

	res := callTool(t, cs, "simulate_shot", nil)
	require.False(t, res.IsError)
	m := decode(t, res)

	assert.False(t, m["timeout"].(bool))
	assert.Less(t, m["miss_distance_m"].(float64), 3.0)
	assert.InDelta(t, 13.58, m["target_distance_m"].(float64), 0.05)
	assert.InDelta(t, 45.5018, m["impact_latitude"].(float64), 0.001)
	assert.Greater(t, m["time_of_flight_s"].(float64), 1.0)
}

func TestRecommendAim(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "recommend_aim", nil)
	require.False(t, res.IsError)
	m := decode(t, res)

	yaw := m["yaw_deg"].(float64)
	pitch := m["pitch_deg"].(float64)
	assert.Less(t, m["predicted_miss_m"].(float64), 3.0)
	assert.GreaterOrEqual(t, pitch, 5.0)
	assert.LessOrEqual(t, pitch, 89.0)

	// deltas are measured from the default turret aim (0, 45)
	assert.InDelta(t, geo.AngleDiff(yaw, 0), m["yaw_delta_deg"].(float64), 1e-9)
	assert.InDelta(t, pitch-45.0, m["pitch_delta_deg"].(float64), 1e-9)
}

func TestSolveFreeSpeed(t *testing.T) {
	cs := newSession(t, nil)

	// move the target 1 km east of the launch point
	lat, lon := geo.FromENU(45.5017, -73.5673, 1000.0, 0.0)
	callTool(t, cs, "set_target_point", map[string]any{
		"latitude": lat, "longitude": lon,
	})

	res := callTool(t, cs, "solve_free_speed", nil)
	require.False(t, res.IsError)
	m := decode(t, res)

	speed := m["muzzle_speed_mps"].(float64)
	pitch := m["pitch_deg"].(float64)
	assert.GreaterOrEqual(t, speed, 50.0)
	assert.LessOrEqual(t, speed, 300.0)
	assert.GreaterOrEqual(t, pitch, 45.0)
	assert.LessOrEqual(t, pitch, 85.0)
	assert.Less(t, m["predicted_miss_m"].(float64), 50.0)
	assert.Equal(t, 9.0, m["optimizer_starts"].(float64))

	// a 1 kg round at mortar speeds is beyond the default chamber
	chamber := m["chamber"].(map[string]any)
	assert.Equal(t, false, chamber["possible"])
	assert.Greater(t, chamber["max_velocity_mps"].(float64), 0.0)
}

func TestSolveFreeSpeedOutOfRange(t *testing.T) {
	cs := newSession(t, nil)

	lat, lon := geo.FromENU(45.5017, -73.5673, 50000.0, 0.0)
	callTool(t, cs, "set_target_point", map[string]any{
		"latitude": lat, "longitude": lon,
	})

	res := callTool(t, cs, "solve_free_speed", nil)
	require.True(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, "TARGET_OUT_OF_RANGE", m["code"])
	assert.Equal(t, true, m["recoverable"])
}

func TestChamberFillDefaultSpeed(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "chamber_fill", nil)
	require.False(t, res.IsError)
	m := decode(t, res)

	// scenario default: 1 kg at 60 m/s in the 80x200 mm chamber
	assert.Equal(t, true, m["possible"])
	assert.InDelta(t, 0.0564, m["acetylene_mass_g"].(float64), 1e-3)
	assert.InDelta(t, 2250.0, m["energy_j"].(float64), 0.1)
}

func TestChamberFillImpossibleSpeed(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "chamber_fill", map[string]any{
		"muzzle_speed_mps": 300.0,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, false, m["possible"])
	assert.InDelta(t, 79.17, m["max_velocity_mps"].(float64), 0.01)
}

func TestChamberFillInvalidSpeed(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "chamber_fill", map[string]any{
		"muzzle_speed_mps": -5.0,
	})
	require.True(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, "INVALID_INPUT", m["code"])
}

func TestAlignmentGuidanceExplicitTarget(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "alignment_guidance", map[string]any{
		"desired_yaw_deg": 90.0, "desired_pitch_deg": 50.0,
		"current_yaw_deg": 80.0, "current_pitch_deg": 50.0,
	})
	require.False(t, res.IsError)
	m := decode(t, res)

	assert.InDelta(t, 10.0, m["yaw_error_deg"].(float64), 1e-9)
	assert.Equal(t, 1.0, m["yaw_dir"].(float64))
	assert.InDelta(t, 0.2, m["yaw_speed01"].(float64), 1e-9)
	assert.Equal(t, 0.0, m["pitch_dir"].(float64))
	assert.Equal(t, false, m["aligned"])
}

func TestAlignmentGuidanceAligned(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "alignment_guidance", map[string]any{
		"desired_yaw_deg": 90.0, "desired_pitch_deg": 50.0,
		"current_yaw_deg": 89.0, "current_pitch_deg": 49.5,
	})
	require.False(t, res.IsError)
	m := decode(t, res)
	assert.Equal(t, true, m["aligned"])
	assert.Equal(t, 0.0, m["yaw_speed01"].(float64))
}

func TestGetRiskSectorDefaults(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "get_risk_sector", nil)
	require.False(t, res.IsError)
	m := decode(t, res)

	assert.Equal(t, "FeatureCollection", m["type"])
	features := m["features"].([]any)
	require.Len(t, features, 1)
	feature := features[0].(map[string]any)

	props := feature["properties"].(map[string]any)
	assert.InDelta(t, 35.03, props["heading_deg"].(float64), 0.05)
	assert.Equal(t, 10.0, props["half_angle_deg"].(float64))
	assert.InDelta(t, 13.58*1.2, props["range_m"].(float64), 0.1)

	geom := feature["geometry"].(map[string]any)
	assert.Equal(t, "Polygon", geom["type"])
	ring := geom["coordinates"].([]any)[0].([]any)
	// apex, 25 arc points, apex again
	require.Len(t, ring, 27)
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestGetRiskSectorCustom(t *testing.T) {
	cs := newSession(t, nil)
	res := callTool(t, cs, "get_risk_sector", map[string]any{
		"heading_deg": 90.0, "half_angle_deg": 30.0, "range_m": 1000.0, "steps": 6,
	})
	require.False(t, res.IsError)
	m := decode(t, res)

	feature := m["features"].([]any)[0].(map[string]any)
	props := feature["properties"].(map[string]any)
	assert.Equal(t, 90.0, props["heading_deg"].(float64))
	assert.Equal(t, 1000.0, props["range_m"].(float64))

	ring := feature["geometry"].(map[string]any)["coordinates"].([]any)[0].([]any)
	require.Len(t, ring, 9)

	// the mid-arc point sits due east at the requested range
	mid := ring[4].([]any)
	lat2, lon2 := mid[1].(float64), mid[0].(float64)
	assert.InDelta(t, 1000.0, geo.Haversine(45.5017, -73.5673, lat2, lon2), 1.0)
	assert.InDelta(t, 90.0, geo.Bearing(45.5017, -73.5673, lat2, lon2), 0.1)
}
