package rpcjson

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/store"
)

// Error maps engine and store errors onto connect codes.
func Error(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	switch {
	case capengine.IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case capengine.IsEligibility(err):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case capengine.IsLimit(err):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
