package rpcjson

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/store"
)

func TestCodecRoundTripsStructs(t *testing.T) {
	type msg struct {
		ID     string `json:"id"`
		Salary int64  `json:"salary"`
	}
	in := msg{ID: "abc", Salary: 11_500_000}

	data, err := Codec{}.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out msg
	if err := (Codec{}).Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if err := (Codec{}).Unmarshal(nil, &out); err != nil {
		t.Errorf("Unmarshal(empty) error = %v, want nil", err)
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"validation", &capengine.ValidationError{Field: "years", Rule: "must be within 1..4"}, connect.CodeInvalidArgument},
		{"eligibility", fmt.Errorf("failed to tag: %w", &capengine.EligibilityError{ContractID: uuid.New(), Operation: "franchise tag", Rule: "already tagged"}), connect.CodeFailedPrecondition},
		{"limit", &capengine.LimitError{TeamID: uuid.New(), Rule: "max franchise tags per season", Limit: 1, Used: 1}, connect.CodeResourceExhausted},
		{"not found", fmt.Errorf("failed to get contract: %w", store.ErrNotFound), connect.CodeNotFound},
		{"deadline", context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{"other", errors.New("boom"), connect.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(Error(tt.err)); got != tt.want {
				t.Errorf("CodeOf(Error(%v)) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	if Error(nil) != nil {
		t.Error("Error(nil) != nil")
	}
}
