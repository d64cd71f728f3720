package mcp

import (
	"context"
	"fmt"
	"math"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jmorneau/cannonaim-mcp/internal/align"
	"github.com/jmorneau/cannonaim-mcp/internal/chamber"
	"github.com/jmorneau/cannonaim-mcp/internal/metrics"
	"github.com/jmorneau/cannonaim-mcp/pkg/ballistics"
	"github.com/jmorneau/cannonaim-mcp/pkg/geo"
)

// Default combustion chamber used when a tool call does not size one
// explicitly: 80 mm bore, 200 mm length.
const (
	defaultChamberDiameterM = 0.08
	defaultChamberLengthM   = 0.2
)

type emptyInput struct{}

// --- get_status ---

// StatusResponse summarizes the scenario and the current aim.
type StatusResponse struct {
	Launch PointPayload `json:"launch"`
	Target PointPayload `json:"target"`

	DistanceM  float64 `json:"distance_m"`
	BearingDeg float64 `json:"bearing_deg"`

	WindSpeedMPS  float64 `json:"wind_speed_mps"`
	WindTowardDeg float64 `json:"wind_toward_deg"`
	HeadwindMPS   float64 `json:"headwind_mps"`
	CrosswindMPS  float64 `json:"crosswind_mps"`

	AirDensity            float64 `json:"air_density_kg_m3"`
	ExponentialAtmosphere bool    `json:"exponential_atmosphere"`

	MassKG     float64 `json:"projectile_mass_kg"`
	DiameterMM float64 `json:"projectile_diameter_mm"`
	DragCoeff  float64 `json:"projectile_drag_coefficient"`

	MuzzleSpeedMPS float64 `json:"muzzle_speed_mps"`

	AimYawDeg   float64 `json:"aim_yaw_deg"`
	AimPitchDeg float64 `json:"aim_pitch_deg"`
}

// PointPayload is a geodetic point in tool responses.
type PointPayload struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ElevationM float64 `json:"elevation_m"`
}

func (s *Server) handleGetStatus(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input emptyInput,
) (*mcpsdk.CallToolResult, any, error) {
	sc := s.scenario.Scenario()
	yaw, pitch := s.scenario.Aim()

	head, cross := sc.Env.Wind.Relative(yaw)
	res, err := textResult(StatusResponse{
		Launch:                PointPayload{sc.Launch.Lat, sc.Launch.Lon, sc.Launch.Elev},
		Target:                PointPayload{sc.Target.Lat, sc.Target.Lon, sc.Target.Elev},
		DistanceM:             geo.Haversine(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon),
		BearingDeg:            geo.Bearing(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon),
		WindSpeedMPS:          sc.Env.Wind.SpeedMPS,
		WindTowardDeg:         sc.Env.Wind.TowardDeg,
		HeadwindMPS:           head,
		CrosswindMPS:          cross,
		AirDensity:            sc.Env.AirDensity,
		ExponentialAtmosphere: sc.Env.ExponentialAtmosphere,
		MassKG:                sc.Proj.MassKG,
		DiameterMM:            sc.Proj.DiameterM * 1000,
		DragCoeff:             sc.Proj.DragCoeff,
		MuzzleSpeedMPS:        sc.MuzzleSpeed,
		AimYawDeg:             yaw,
		AimPitchDeg:           pitch,
	})
	return res, nil, err
}

// --- point setters ---

type setPointInput struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	ElevationM *float64 `json:"elevation_m,omitempty"`
}

// resolveElevation picks the elevation for a point edit: explicit
// argument first, then the configured elevation service, then the
// previous value. Service failures surface to the caller.
func (s *Server) resolveElevation(ctx context.Context, in setPointInput, prev float64) (float64, error) {
	if in.ElevationM != nil {
		return *in.ElevationM, nil
	}
	if s.elev == nil {
		return prev, nil
	}
	elev, err := s.elev.Elevation(ctx, in.Latitude, in.Longitude)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errElevationUnavailable, err)
	}
	return elev, nil
}

func (s *Server) handleSetLaunchPoint(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setPointInput,
) (*mcpsdk.CallToolResult, any, error) {
	elev, err := s.resolveElevation(ctx, input, s.scenario.Scenario().Launch.Elev)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	p := ballistics.Point{Lat: input.Latitude, Lon: input.Longitude, Elev: elev}
	s.scenario.SetLaunch(p)
	res, err := textResult(PointPayload{p.Lat, p.Lon, p.Elev})
	return res, nil, err
}

func (s *Server) handleSetTargetPoint(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setPointInput,
) (*mcpsdk.CallToolResult, any, error) {
	elev, err := s.resolveElevation(ctx, input, s.scenario.Scenario().Target.Elev)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	p := ballistics.Point{Lat: input.Latitude, Lon: input.Longitude, Elev: elev}
	s.scenario.SetTarget(p)
	res, err := textResult(PointPayload{p.Lat, p.Lon, p.Elev})
	return res, nil, err
}

// --- environment setters ---

type setWindInput struct {
	SpeedMPS           float64 `json:"speed_mps"`
	DirectionTowardDeg float64 `json:"direction_toward_deg"`
}

func (s *Server) handleSetWind(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setWindInput,
) (*mcpsdk.CallToolResult, any, error) {
	s.scenario.SetWind(input.SpeedMPS, input.DirectionTowardDeg)
	w := s.scenario.Scenario().Env.Wind
	res, err := textResult(map[string]float64{
		"wind_speed_mps":  w.SpeedMPS,
		"wind_toward_deg": w.TowardDeg,
	})
	return res, nil, err
}

type setAirDensityInput struct {
	DensityKGM3           *float64 `json:"density_kg_m3,omitempty"`
	PressureHPa           *float64 `json:"pressure_hpa,omitempty"`
	TemperatureC          *float64 `json:"temperature_c,omitempty"`
	ExponentialAtmosphere bool     `json:"exponential_atmosphere,omitempty"`
}

func (s *Server) handleSetAirDensity(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setAirDensityInput,
) (*mcpsdk.CallToolResult, any, error) {
	var rho float64
	switch {
	case input.DensityKGM3 != nil:
		rho = *input.DensityKGM3
	case input.PressureHPa != nil && input.TemperatureC != nil:
		rho = ballistics.DensityFromConditions(*input.PressureHPa, *input.TemperatureC)
	default:
		err := fmt.Errorf("%w: provide density_kg_m3 or both pressure_hpa and temperature_c", ballistics.ErrInvalidInput)
		return s.errorResult(err), nil, nil
	}
	s.scenario.SetAirDensity(rho, input.ExponentialAtmosphere)
	res, err := textResult(map[string]any{
		"air_density_kg_m3":      s.scenario.Scenario().Env.AirDensity,
		"exponential_atmosphere": input.ExponentialAtmosphere,
	})
	return res, nil, err
}

type setProjectileInput struct {
	MassKG          float64 `json:"mass_kg"`
	DiameterMM      float64 `json:"diameter_mm"`
	DragCoefficient float64 `json:"drag_coefficient"`
}

func (s *Server) handleSetProjectile(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setProjectileInput,
) (*mcpsdk.CallToolResult, any, error) {
	s.scenario.SetProjectile(input.MassKG, input.DiameterMM/1000.0, input.DragCoefficient)
	p := s.scenario.Scenario().Proj
	res, err := textResult(map[string]float64{
		"mass_kg":          p.MassKG,
		"diameter_mm":      p.DiameterM * 1000,
		"drag_coefficient": p.DragCoeff,
	})
	return res, nil, err
}

type setMuzzleSpeedInput struct {
	SpeedMPS float64 `json:"speed_mps"`
}

func (s *Server) handleSetMuzzleSpeed(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setMuzzleSpeedInput,
) (*mcpsdk.CallToolResult, any, error) {
	s.scenario.SetMuzzleSpeed(input.SpeedMPS)
	res, err := textResult(map[string]float64{
		"muzzle_speed_mps": s.scenario.Scenario().MuzzleSpeed,
	})
	return res, nil, err
}

// --- aim ---

type setAimInput struct {
	YawDeg   float64 `json:"yaw_deg"`
	PitchDeg float64 `json:"pitch_deg"`
}

func (s *Server) handleSetAim(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setAimInput,
) (*mcpsdk.CallToolResult, any, error) {
	s.scenario.SetAim(input.YawDeg, input.PitchDeg)
	yaw, pitch := s.scenario.Aim()
	res, err := textResult(map[string]float64{"yaw_deg": yaw, "pitch_deg": pitch})
	return res, nil, err
}

type jogAimInput struct {
	YawDeltaDeg   float64 `json:"yaw_delta_deg,omitempty"`
	PitchDeltaDeg float64 `json:"pitch_delta_deg,omitempty"`
}

func (s *Server) handleJogAim(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input jogAimInput,
) (*mcpsdk.CallToolResult, any, error) {
	yaw, pitch := s.scenario.JogAim(input.YawDeltaDeg, input.PitchDeltaDeg)
	res, err := textResult(map[string]float64{"yaw_deg": yaw, "pitch_deg": pitch})
	return res, nil, err
}

// --- simulate_shot ---

// SimulateResponse is the outcome of one simulated shot.
type SimulateResponse struct {
	ImpactEastM  float64 `json:"impact_east_m"`
	ImpactNorthM float64 `json:"impact_north_m"`
	ImpactUpM    float64 `json:"impact_up_m"`

	ImpactLatitude  float64 `json:"impact_latitude"`
	ImpactLongitude float64 `json:"impact_longitude"`

	TimeOfFlightS   float64 `json:"time_of_flight_s"`
	MissDistanceM   float64 `json:"miss_distance_m"`
	TargetDistanceM float64 `json:"target_distance_m"`
	Timeout         bool    `json:"timeout"`
}

func (s *Server) handleSimulateShot(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input emptyInput,
) (*mcpsdk.CallToolResult, any, error) {
	sc := s.scenario.Scenario()
	yaw, pitch := s.scenario.Aim()

	result, err := ballistics.Simulate(sc,
		ballistics.Aim{YawDeg: yaw, PitchDeg: pitch, SpeedMPS: sc.MuzzleSpeed},
		s.solver.SimConfig())
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	metrics.ObserveSimulation()

	ilat, ilon := geo.FromENU(sc.Launch.Lat, sc.Launch.Lon, result.ImpactEast, result.ImpactNorth)
	res, err := textResult(SimulateResponse{
		ImpactEastM:     result.ImpactEast,
		ImpactNorthM:    result.ImpactNorth,
		ImpactUpM:       result.ImpactUp,
		ImpactLatitude:  ilat,
		ImpactLongitude: ilon,
		TimeOfFlightS:   result.TimeOfFlight,
		MissDistanceM:   result.MissDistance,
		TargetDistanceM: math.Hypot(result.TargetEast, result.TargetNorth),
		Timeout:         result.Timeout,
	})
	return res, nil, err
}

// --- recommend_aim ---

// RecommendResponse is a fixed-speed aiming solution.
type RecommendResponse struct {
	YawDeg   float64 `json:"yaw_deg"`
	PitchDeg float64 `json:"pitch_deg"`
	MissM    float64 `json:"predicted_miss_m"`

	SeedYawDeg   float64 `json:"seed_yaw_deg"`
	SeedPitchDeg float64 `json:"seed_pitch_deg"`

	// deltas from the turret's current aim; yaw is the shortest
	// signed correction
	YawDeltaDeg   float64 `json:"yaw_delta_deg"`
	PitchDeltaDeg float64 `json:"pitch_delta_deg"`
}

func (s *Server) handleRecommendAim(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input emptyInput,
) (*mcpsdk.CallToolResult, any, error) {
	sol, err := s.recommend()
	if err != nil {
		return s.errorResult(err), nil, nil
	}

	yaw, pitch := s.scenario.Aim()
	res, err := textResult(RecommendResponse{
		YawDeg:        sol.YawDeg,
		PitchDeg:      sol.PitchDeg,
		MissM:         sol.MissM,
		SeedYawDeg:    sol.SeedYawDeg,
		SeedPitchDeg:  sol.SeedPitchDeg,
		YawDeltaDeg:   geo.AngleDiff(sol.YawDeg, yaw),
		PitchDeltaDeg: sol.PitchDeg - pitch,
	})
	return res, nil, err
}

func (s *Server) recommend() (ballistics.FixedSpeedSolution, error) {
	started := time.Now()
	sol, err := ballistics.RecommendFixedSpeed(s.scenario.Scenario(), s.solver.RefineConfig())
	if err != nil {
		metrics.ObserveSolve("fixed", "error", 0, time.Since(started))
		return ballistics.FixedSpeedSolution{}, err
	}
	metrics.ObserveSolve("fixed", "ok", sol.MissM, time.Since(started))
	return sol, nil
}

// --- solve_free_speed ---

type solveFreeSpeedInput struct {
	SpeedMinMPS *float64 `json:"speed_min_mps,omitempty"`
	SpeedMaxMPS *float64 `json:"speed_max_mps,omitempty"`
	PitchMinDeg *float64 `json:"pitch_min_deg,omitempty"`
	PitchMaxDeg *float64 `json:"pitch_max_deg,omitempty"`

	ChamberDiameterMM *float64 `json:"chamber_diameter_mm,omitempty"`
	ChamberLengthMM   *float64 `json:"chamber_length_mm,omitempty"`
}

// FreeSpeedResponse is the best solution across all optimizer starts,
// plus the chamber charge that reaches its muzzle speed.
type FreeSpeedResponse struct {
	SpeedMPS float64 `json:"muzzle_speed_mps"`
	PitchDeg float64 `json:"pitch_deg"`
	YawDeg   float64 `json:"yaw_deg"`
	MissM    float64 `json:"predicted_miss_m"`
	Starts   int     `json:"optimizer_starts"`

	Chamber ChamberResponse `json:"chamber"`
}

func (s *Server) handleSolveFreeSpeed(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input solveFreeSpeedInput,
) (*mcpsdk.CallToolResult, any, error) {
	cfg := s.solver.GlobalConfig()
	if input.SpeedMinMPS != nil {
		cfg.Bounds.SpeedMin = *input.SpeedMinMPS
	}
	if input.SpeedMaxMPS != nil {
		cfg.Bounds.SpeedMax = *input.SpeedMaxMPS
	}
	if input.PitchMinDeg != nil {
		cfg.Bounds.PitchMin = *input.PitchMinDeg
	}
	if input.PitchMaxDeg != nil {
		cfg.Bounds.PitchMax = *input.PitchMaxDeg
	}

	started := time.Now()
	sol, err := ballistics.RecommendFreeSpeed(s.scenario.Scenario(), cfg)
	if err != nil {
		metrics.ObserveSolve("free", "error", 0, time.Since(started))
		return s.errorResult(err), nil, nil
	}
	metrics.ObserveSolve("free", "ok", sol.MissM, time.Since(started))

	geom := chamberGeometry(input.ChamberDiameterMM, input.ChamberLengthMM)
	fill := chamber.RequiredFill(sol.SpeedMPS, s.scenario.Scenario().Proj.MassKG, geom)

	res, err := textResult(FreeSpeedResponse{
		SpeedMPS: sol.SpeedMPS,
		PitchDeg: sol.PitchDeg,
		YawDeg:   sol.YawDeg,
		MissM:    sol.MissM,
		Starts:   sol.Starts,
		Chamber:  chamberResponse(fill),
	})
	return res, nil, err
}

// --- chamber_fill ---

type chamberFillInput struct {
	MuzzleSpeedMPS    *float64 `json:"muzzle_speed_mps,omitempty"`
	ChamberDiameterMM *float64 `json:"chamber_diameter_mm,omitempty"`
	ChamberLengthMM   *float64 `json:"chamber_length_mm,omitempty"`
}

// ChamberResponse is an acetylene charge sizing.
type ChamberResponse struct {
	Possible bool `json:"possible"`

	ChamberVolumeL float64 `json:"chamber_volume_l"`

	AcetyleneMol    float64 `json:"acetylene_mol"`
	AcetyleneMassG  float64 `json:"acetylene_mass_g"`
	EnergyJ         float64 `json:"energy_j"`
	PressureBar     float64 `json:"partial_pressure_bar"`
	VolumeSTPLiters float64 `json:"acetylene_volume_stp_l"`

	// populated only when the chamber cannot deliver the speed
	MaxVelocityMPS float64 `json:"max_velocity_mps,omitempty"`
	MaxMassG       float64 `json:"max_acetylene_mass_g,omitempty"`
}

func (s *Server) handleChamberFill(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input chamberFillInput,
) (*mcpsdk.CallToolResult, any, error) {
	sc := s.scenario.Scenario()
	speed := sc.MuzzleSpeed
	if input.MuzzleSpeedMPS != nil {
		speed = *input.MuzzleSpeedMPS
	}
	if speed <= 0 {
		err := fmt.Errorf("%w: muzzle speed must be positive (got %v m/s)", ballistics.ErrInvalidInput, speed)
		return s.errorResult(err), nil, nil
	}

	geom := chamberGeometry(input.ChamberDiameterMM, input.ChamberLengthMM)
	fill := chamber.RequiredFill(speed, sc.Proj.MassKG, geom)
	res, err := textResult(chamberResponse(fill))
	return res, nil, err
}

func chamberGeometry(diameterMM, lengthMM *float64) chamber.Geometry {
	geom := chamber.Geometry{DiameterM: defaultChamberDiameterM, LengthM: defaultChamberLengthM}
	if diameterMM != nil {
		geom.DiameterM = *diameterMM / 1000.0
	}
	if lengthMM != nil {
		geom.LengthM = *lengthMM / 1000.0
	}
	return geom
}

func chamberResponse(f chamber.Fill) ChamberResponse {
	resp := ChamberResponse{
		Possible:       f.Possible,
		ChamberVolumeL: f.Limits.VolumeM3 * 1000,
	}
	if f.Possible {
		resp.AcetyleneMol = f.Mol
		resp.AcetyleneMassG = f.MassG
		resp.EnergyJ = f.EnergyJ
		resp.PressureBar = f.PressureBar
		resp.VolumeSTPLiters = f.VolSTPM3 * 1000
	} else {
		resp.MaxVelocityMPS = f.MaxVelocityMPS
		resp.MaxMassG = f.Limits.MaxMassG
		resp.AcetyleneMol = f.Limits.MaxMol
		resp.AcetyleneMassG = f.Limits.MaxMassG
		resp.EnergyJ = f.Limits.MaxEnergyJ
		resp.PressureBar = f.Limits.MaxPressureBar
		resp.VolumeSTPLiters = f.Limits.MaxVolSTPM3 * 1000
	}
	return resp
}

// --- alignment_guidance ---

type alignmentInput struct {
	CurrentYawDeg   *float64 `json:"current_yaw_deg,omitempty"`
	CurrentPitchDeg *float64 `json:"current_pitch_deg,omitempty"`
	DesiredYawDeg   *float64 `json:"desired_yaw_deg,omitempty"`
	DesiredPitchDeg *float64 `json:"desired_pitch_deg,omitempty"`

	TolYawDeg   *float64 `json:"tol_yaw_deg,omitempty"`
	TolPitchDeg *float64 `json:"tol_pitch_deg,omitempty"`
}

// AlignmentResponse is a per-axis correction suggestion. Directions
// are -1 (left/down), +1 (right/up), 0 (hold).
type AlignmentResponse struct {
	DesiredYawDeg   float64 `json:"desired_yaw_deg"`
	DesiredPitchDeg float64 `json:"desired_pitch_deg"`
	CurrentYawDeg   float64 `json:"current_yaw_deg"`
	CurrentPitchDeg float64 `json:"current_pitch_deg"`

	YawErrorDeg   float64 `json:"yaw_error_deg"`
	PitchErrorDeg float64 `json:"pitch_error_deg"`

	YawDir       int     `json:"yaw_dir"`
	YawSpeed01   float64 `json:"yaw_speed01"`
	PitchDir     int     `json:"pitch_dir"`
	PitchSpeed01 float64 `json:"pitch_speed01"`

	Aligned bool `json:"aligned"`
}

func (s *Server) handleAlignmentGuidance(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input alignmentInput,
) (*mcpsdk.CallToolResult, any, error) {
	curYaw, curPitch := s.scenario.Aim()
	if input.CurrentYawDeg != nil {
		curYaw = *input.CurrentYawDeg
	}
	if input.CurrentPitchDeg != nil {
		curPitch = *input.CurrentPitchDeg
	}

	var desYaw, desPitch float64
	if input.DesiredYawDeg != nil && input.DesiredPitchDeg != nil {
		desYaw, desPitch = *input.DesiredYawDeg, *input.DesiredPitchDeg
	} else {
		sol, err := s.recommend()
		if err != nil {
			return s.errorResult(err), nil, nil
		}
		desYaw, desPitch = sol.YawDeg, sol.PitchDeg
		if input.DesiredYawDeg != nil {
			desYaw = *input.DesiredYawDeg
		}
		if input.DesiredPitchDeg != nil {
			desPitch = *input.DesiredPitchDeg
		}
	}

	params := align.DefaultParams()
	if input.TolYawDeg != nil {
		params.TolYawDeg = *input.TolYawDeg
	}
	if input.TolPitchDeg != nil {
		params.TolPitchDeg = *input.TolPitchDeg
	}

	g := align.Suggest(desYaw, desPitch, curYaw, curPitch, params)
	res, err := textResult(AlignmentResponse{
		DesiredYawDeg:   desYaw,
		DesiredPitchDeg: desPitch,
		CurrentYawDeg:   curYaw,
		CurrentPitchDeg: curPitch,
		YawErrorDeg:     g.YawErrorDeg,
		PitchErrorDeg:   g.PitchErrorDeg,
		YawDir:          g.YawDir,
		YawSpeed01:      g.YawSpeed01,
		PitchDir:        g.PitchDir,
		PitchSpeed01:    g.PitchSpeed01,
		Aligned:         g.Aligned,
	})
	return res, nil, err
}

// --- get_risk_sector ---

type riskSectorInput struct {
	HeadingDeg   *float64 `json:"heading_deg,omitempty"`
	HalfAngleDeg float64  `json:"half_angle_deg,omitempty"`
	RangeM       float64  `json:"range_m,omitempty"`
	Steps        int      `json:"steps,omitempty"`
}

func (s *Server) handleGetRiskSector(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input riskSectorInput,
) (*mcpsdk.CallToolResult, any, error) {
	sc := s.scenario.Scenario()

	heading := geo.Bearing(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon)
	if input.HeadingDeg != nil {
		heading = *input.HeadingDeg
	}
	halfAngle := input.HalfAngleDeg
	if halfAngle == 0 {
		halfAngle = 10.0
	}
	rangeM := input.RangeM
	if rangeM == 0 {
		rangeM = geo.Haversine(sc.Launch.Lat, sc.Launch.Lon, sc.Target.Lat, sc.Target.Lon) * 1.2
	}
	steps := input.Steps
	if steps <= 0 {
		steps = 24
	}

	res, err := textResult(sectorGeoJSON(sc.Launch.Lat, sc.Launch.Lon, heading, halfAngle, rangeM, steps))
	return res, nil, err
}

// sectorGeoJSON builds a closed wedge polygon from the apex through an
// arc of destination points. GeoJSON coordinate order is [lon, lat].
func sectorGeoJSON(lat, lon, headingDeg, halfAngleDeg, rangeM float64, steps int) map[string]any {
	coords := [][]float64{{lon, lat}}
	start := headingDeg - halfAngleDeg
	step := 2 * halfAngleDeg / float64(steps)

	for i := 0; i <= steps; i++ {
		plat, plon := geo.Destination(lat, lon, start+float64(i)*step, rangeM)
		coords = append(coords, []float64{plon, plat})
	}
	coords = append(coords, []float64{lon, lat})

	return map[string]any{
		"type": "FeatureCollection",
		"features": []map[string]any{{
			"type": "Feature",
			"properties": map[string]any{
				"kind":           "risk_sector",
				"heading_deg":    headingDeg,
				"half_angle_deg": halfAngleDeg,
				"range_m":        rangeM,
			},
			"geometry": map[string]any{
				"type":        "Polygon",
				"coordinates": [][][]float64{coords},
			},
		}},
	}
}
