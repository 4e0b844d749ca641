package turnover

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mcdev12/dynastycap/go/internal/rpcjson"
)

// TurnoverServiceName is the fully-qualified name of the turnover service.
const TurnoverServiceName = "dynasty.cap.v1.TurnoverService"

// Procedure paths served by Service
const (
	PreviewTurnoverProcedure = "/" + TurnoverServiceName + "/PreviewTurnover"
	CommitTurnoverProcedure  = "/" + TurnoverServiceName + "/CommitTurnover"
)

// TurnoverApp defines what the service layer needs from the turnover application
type TurnoverApp interface {
	Preview(ctx context.Context, req PreviewRequest) (*Plan, error)
	Commit(ctx context.Context, req CommitRequest) (*CommitResult, error)
}

// Service exposes season turnover over connect
type Service struct {
	app TurnoverApp
}

// NewService creates a new turnover service
func NewService(app TurnoverApp) *Service {
	return &Service{
		app: app,
	}
}

// Handler returns the path prefix and handler for every turnover procedure.
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = rpcjson.HandlerOptions(opts...)
	mux := http.NewServeMux()
	mux.Handle(PreviewTurnoverProcedure, connect.NewUnaryHandler(PreviewTurnoverProcedure, s.PreviewTurnover, opts...))
	mux.Handle(CommitTurnoverProcedure, connect.NewUnaryHandler(CommitTurnoverProcedure, s.CommitTurnover, opts...))
	return "/" + TurnoverServiceName + "/", mux
}

// PreviewTurnover returns the before/after of the next turnover
func (s *Service) PreviewTurnover(ctx context.Context, req *connect.Request[PreviewRequest]) (*connect.Response[Plan], error) {
	plan, err := s.app.Preview(ctx, *req.Msg)
	if err != nil {
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(plan), nil
}

// CommitTurnover closes a season
func (s *Service) CommitTurnover(ctx context.Context, req *connect.Request[CommitRequest]) (*connect.Response[CommitResult], error) {
	result, err := s.app.Commit(ctx, *req.Msg)
	if err != nil {
		if errors.Is(err, ErrAlreadyTurnedOver) || errors.Is(err, ErrSeasonMismatch) {
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		}
		return nil, rpcjson.Error(err)
	}
	return connect.NewResponse(result), nil
}
