package leagues

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/mcdev12/dynastycap/go/internal/rpcjson"
)

// LeagueServiceName is the fully-qualified name of the league service.
const LeagueServiceName = "dynasty.cap.v1.LeagueService"

const (
	CreateLeagueProcedure = "/" + LeagueServiceName + "/CreateLeague"
	GetLeagueProcedure    = "/" + LeagueServiceName + "/GetLeague"
	CreateTeamProcedure   = "/" + LeagueServiceName + "/CreateTeam"
	ListPresetsProcedure  = "/" + LeagueServiceName + "/ListPresets"
)

// LeaguesApp defines what the service layer needs from the leagues application
type LeaguesApp interface {
	CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error)
	CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.FantasyTeam, error)
	GetLeague(ctx context.Context, req LeagueRequest) (*LeagueSummary, error)
	PresetNames() []string
}

// Service exposes league setup over connect
type Service struct {
	app LeaguesApp
}

// NewService creates a new league service
func NewService(app LeaguesApp) *Service {
	return &Service{
		app: app,
	}
}

// Handler returns the path prefix and handler for every league procedure.
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = rpcjson.HandlerOptions(opts...)
	mux := http.NewServeMux()
	mux.Handle(CreateLeagueProcedure, connect.NewUnaryHandler(CreateLeagueProcedure, s.CreateLeague, opts...))
	mux.Handle(GetLeagueProcedure, connect.NewUnaryHandler(GetLeagueProcedure, s.GetLeague, opts...))
	mux.Handle(CreateTeamProcedure, connect.NewUnaryHandler(CreateTeamProcedure, s.CreateTeam, opts...))
	mux.Handle(ListPresetsProcedure, connect.NewUnaryHandler(ListPresetsProcedure, s.ListPresets, opts...))
	return "/" + LeagueServiceName + "/", mux
}

// CreateLeague creates a new league
func (s *Service) CreateLeague(ctx context.Context, req *connect.Request[CreateLeagueRequest]) (*connect.Response[models.League], error) {
	league, err := s.app.CreateLeague(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(league), nil
}

// GetLeague retrieves a league with its teams
func (s *Service) GetLeague(ctx context.Context, req *connect.Request[LeagueRequest]) (*connect.Response[LeagueSummary], error) {
	summary, err := s.app.GetLeague(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(summary), nil
}

// CreateTeam adds a team to a league
func (s *Service) CreateTeam(ctx context.Context, req *connect.Request[CreateTeamRequest]) (*connect.Response[models.FantasyTeam], error) {
	team, err := s.app.CreateTeam(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(team), nil
}

// ListPresets names the cap presets leagues can be created from
func (s *Service) ListPresets(_ context.Context, _ *connect.Request[ListPresetsRequest]) (*connect.Response[ListPresetsResponse], error) {
	return connect.NewResponse(&ListPresetsResponse{Presets: s.app.PresetNames()}), nil
}
