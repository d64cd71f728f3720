// Package mcp exposes the aiming solver as MCP tools over stdio. The
// tool set mirrors the interactive workflow: edit the scenario piece
// by piece, then ask for a recommendation, a simulation, or a full
// free-speed solve.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jmorneau/cannonaim-mcp/internal/config"
	"github.com/jmorneau/cannonaim-mcp/internal/elevation"
	"github.com/jmorneau/cannonaim-mcp/internal/state"
	"github.com/jmorneau/cannonaim-mcp/pkg/ballistics"
)

// Server wraps the MCP SDK server and exposes the scenario state and
// solvers as tools.
type Server struct {
	sdk      *mcpsdk.Server
	scenario *state.Manager
	elev     elevation.Provider // optional, may be nil
	solver   config.SolverConfig
}

// NewServer creates a Server and registers the tool set. elev may be
// nil, in which case point elevations must be supplied explicitly.
func NewServer(mgr *state.Manager, elev elevation.Provider, solver config.SolverConfig) *Server {
	s := &Server{
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    "cannonaim-mcp",
			Version: "1.0.0",
		}, nil),
		scenario: mgr,
		elev:     elev,
		solver:   solver,
	}

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Returns the current scenario: launch and target points, range and bearing, wind (with head/crosswind relative to the current aim), projectile, muzzle speed, and current turret aim.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_launch_point",
		Description: "Sets the launch position. Elevation in meters is optional; when omitted it is resolved from the elevation service if one is configured, otherwise the previous value is kept.",
	}, s.handleSetLaunchPoint)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_target_point",
		Description: "Sets the target position. Elevation handling matches set_launch_point.",
	}, s.handleSetTargetPoint)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_wind",
		Description: "Sets the wind as speed (m/s) plus the direction it blows toward, degrees, 0=North 90=East.",
	}, s.handleSetWind)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_air_density",
		Description: "Sets air density, either directly in kg/m3 or computed from station pressure (hPa) and temperature (C). Optionally enables the exponential altitude falloff model.",
	}, s.handleSetAirDensity)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_projectile",
		Description: "Sets the projectile: mass (kg), diameter (mm), and drag coefficient.",
	}, s.handleSetProjectile)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_muzzle_speed",
		Description: "Sets the fixed muzzle speed in m/s used by simulate_shot and recommend_aim.",
	}, s.handleSetMuzzleSpeed)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_aim",
		Description: "Sets the turret's current yaw and pitch in degrees.",
	}, s.handleSetAim)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "jog_aim",
		Description: "Nudges the turret's current aim by yaw/pitch deltas in degrees and returns the new aim.",
	}, s.handleJogAim)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "simulate_shot",
		Description: "Integrates a shot at the current aim and muzzle speed; reports predicted impact (local frame and lat/lon), time of flight, miss distance, and whether the shot timed out without impacting.",
	}, s.handleSimulateShot)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "recommend_aim",
		Description: "Recommends yaw/pitch for the fixed muzzle speed by refining a bearing/vacuum seed, and reports the predicted miss plus deltas from the current aim.",
	}, s.handleRecommendAim)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "solve_free_speed",
		Description: "Searches muzzle speed, elevation, and azimuth together (multi-start bounded search) to minimize miss distance, and sizes the acetylene chamber fill for the resulting speed.",
	}, s.handleSolveFreeSpeed)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "chamber_fill",
		Description: "Sizes the acetylene charge for a muzzle speed (defaults to the scenario's) in a cylindrical combustion chamber.",
	}, s.handleChamberFill)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "alignment_guidance",
		Description: "Computes per-axis correction suggestions (direction, proportional speed, aligned flag) from the current turret attitude toward a desired aim; the desired aim defaults to a fresh recommendation.",
	}, s.handleAlignmentGuidance)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "get_risk_sector",
		Description: "Returns a GeoJSON wedge polygon around a heading from the launch point, for map overlays. Heading defaults to the bearing to the target.",
	}, s.handleGetRiskSector)

	return s
}

// Run starts the MCP server over stdio and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect connects the server to an existing transport (used in tests).
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t, nil)
}

// textResult marshals v and wraps it as a single text content block.
func textResult(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// SolveFailedResponse is returned when a tool cannot produce a result.
type SolveFailedResponse struct {
	Available   bool   `json:"available"`
	Error       string `json:"error"`
	Code        string `json:"code"`
	Recoverable bool   `json:"recoverable"`
	Suggestion  string `json:"suggestion"`
	Timestamp   string `json:"timestamp"`
}

func (s *Server) errorResult(err error) *mcpsdk.CallToolResult {
	resp := SolveFailedResponse{
		Available: false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	switch {
	case errors.Is(err, ballistics.ErrInvalidInput):
		resp.Code = "INVALID_INPUT"
		resp.Recoverable = true
		resp.Suggestion = "Fix the scenario parameters and retry."
	case errors.Is(err, ballistics.ErrOutOfRange):
		resp.Code = "TARGET_OUT_OF_RANGE"
		resp.Recoverable = true
		resp.Suggestion = "Move the target closer or raise the speed bounds."
	case errors.Is(err, ballistics.ErrNoConvergence):
		resp.Code = "NO_CONVERGENCE"
		resp.Recoverable = true
		resp.Suggestion = "Adjust the seed grid or widen the bounds."
	case errors.Is(err, errElevationUnavailable):
		resp.Code = "ELEVATION_UNAVAILABLE"
		resp.Recoverable = true
		resp.Suggestion = "Pass elevation_m explicitly or configure an elevation service."
	default:
		resp.Code = "UNKNOWN_ERROR"
		resp.Recoverable = false
		resp.Suggestion = "Check application logs for details."
	}

	data, _ := json.Marshal(resp)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
		IsError: true,
	}
}

var errElevationUnavailable = errors.New("mcp: elevation unavailable")
