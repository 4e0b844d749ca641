package contracts

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/mcdev12/dynastycap/go/internal/rpcjson"
)

// ContractServiceName is the fully-qualified name of the contract service.
const ContractServiceName = "dynasty.cap.v1.ContractService"

// Procedure paths served by Service
const (
	CreateContractProcedure           = "/" + ContractServiceName + "/CreateContract"
	ExtendContractProcedure           = "/" + ContractServiceName + "/ExtendContract"
	ApplyFranchiseTagProcedure        = "/" + ContractServiceName + "/ApplyFranchiseTag"
	ReleaseContractProcedure          = "/" + ContractServiceName + "/ReleaseContract"
	ActivateFourthYearOptionProcedure = "/" + ContractServiceName + "/ActivateFourthYearOption"
	GetContractProcedure              = "/" + ContractServiceName + "/GetContract"
	PreviewReleaseProcedure           = "/" + ContractServiceName + "/PreviewRelease"
	PreviewFranchiseTagProcedure      = "/" + ContractServiceName + "/PreviewFranchiseTag"
	GetTeamCapProcedure               = "/" + ContractServiceName + "/GetTeamCap"
)

// ContractApp defines what the service layer needs from the contracts application
type ContractApp interface {
	CreateContract(ctx context.Context, req CreateContractRequest) (*ContractResult, error)
	ExtendContract(ctx context.Context, req ExtendContractRequest) (*ContractResult, error)
	ApplyFranchiseTag(ctx context.Context, req ContractRequest) (*FranchiseTagResult, error)
	ReleaseContract(ctx context.Context, req ContractRequest) (*ReleaseResult, error)
	ActivateFourthYearOption(ctx context.Context, req ContractRequest) (*ContractResult, error)
	GetContract(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	PreviewRelease(ctx context.Context, req ContractRequest) (*ReleasePreview, error)
	PreviewFranchiseTag(ctx context.Context, req ContractRequest) (*FranchiseTagPreview, error)
	TeamCap(ctx context.Context, req TeamRequest) (*TeamCapSummary, error)
}

// Service exposes the contracts App over connect
type Service struct {
	app ContractApp
}

// NewService creates a new contract service
func NewService(app ContractApp) *Service {
	return &Service{
		app: app,
	}
}

// Handler returns the path prefix and handler for every contract procedure.
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = rpcjson.HandlerOptions(opts...)
	mux := http.NewServeMux()
	mux.Handle(CreateContractProcedure, connect.NewUnaryHandler(CreateContractProcedure, s.CreateContract, opts...))
	mux.Handle(ExtendContractProcedure, connect.NewUnaryHandler(ExtendContractProcedure, s.ExtendContract, opts...))
	mux.Handle(ApplyFranchiseTagProcedure, connect.NewUnaryHandler(ApplyFranchiseTagProcedure, s.ApplyFranchiseTag, opts...))
	mux.Handle(ReleaseContractProcedure, connect.NewUnaryHandler(ReleaseContractProcedure, s.ReleaseContract, opts...))
	mux.Handle(ActivateFourthYearOptionProcedure, connect.NewUnaryHandler(ActivateFourthYearOptionProcedure, s.ActivateFourthYearOption, opts...))
	mux.Handle(GetContractProcedure, connect.NewUnaryHandler(GetContractProcedure, s.GetContract, opts...))
	mux.Handle(PreviewReleaseProcedure, connect.NewUnaryHandler(PreviewReleaseProcedure, s.PreviewRelease, opts...))
	mux.Handle(PreviewFranchiseTagProcedure, connect.NewUnaryHandler(PreviewFranchiseTagProcedure, s.PreviewFranchiseTag, opts...))
	mux.Handle(GetTeamCapProcedure, connect.NewUnaryHandler(GetTeamCapProcedure, s.GetTeamCap, opts...))
	return "/" + ContractServiceName + "/", mux
}

// CreateContract signs a new contract
func (s *Service) CreateContract(ctx context.Context, req *connect.Request[CreateContractRequest]) (*connect.Response[ContractResult], error) {
	result, err := s.app.CreateContract(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(result), nil
}

// ExtendContract extends a contract in its final year
func (s *Service) ExtendContract(ctx context.Context, req *connect.Request[ExtendContractRequest]) (*connect.Response[ContractResult], error) {
	result, err := s.app.ExtendContract(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(result), nil
}

// ApplyFranchiseTag tags a contract
func (s *Service) ApplyFranchiseTag(ctx context.Context, req *connect.Request[ContractRequest]) (*connect.Response[FranchiseTagResult], error) {
	result, err := s.app.ApplyFranchiseTag(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(result), nil
}

// ReleaseContract cuts a contract
func (s *Service) ReleaseContract(ctx context.Context, req *connect.Request[ContractRequest]) (*connect.Response[ReleaseResult], error) {
	result, err := s.app.ReleaseContract(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(result), nil
}

// ActivateFourthYearOption picks up a rookie option year
func (s *Service) ActivateFourthYearOption(ctx context.Context, req *connect.Request[ContractRequest]) (*connect.Response[ContractResult], error) {
	result, err := s.app.ActivateFourthYearOption(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(result), nil
}

// GetContract retrieves a contract by ID
func (s *Service) GetContract(ctx context.Context, req *connect.Request[ContractRequest]) (*connect.Response[models.Contract], error) {
	c, err := s.app.GetContract(ctx, req.Msg.ContractID)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(c), nil
}

// PreviewRelease shows the dead money a release would book
func (s *Service) PreviewRelease(ctx context.Context, req *connect.Request[ContractRequest]) (*connect.Response[ReleasePreview], error) {
	preview, err := s.app.PreviewRelease(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(preview), nil
}

// PreviewFranchiseTag prices a tag without applying it
func (s *Service) PreviewFranchiseTag(ctx context.Context, req *connect.Request[ContractRequest]) (*connect.Response[FranchiseTagPreview], error) {
	preview, err := s.app.PreviewFranchiseTag(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(preview), nil
}

// GetTeamCap returns a team's cap summary
func (s *Service) GetTeamCap(ctx context.Context, req *connect.Request[TeamRequest]) (*connect.Response[TeamCapSummary], error) {
	summary, err := s.app.TeamCap(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(summary), nil
}
