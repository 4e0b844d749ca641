package capengine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError is returned for malformed or out-of-range input.
type ValidationError struct {
	ContractID uuid.UUID
	Field      string
	Rule       string
}

func (e *ValidationError) Error() string {
	if e.ContractID != uuid.Nil {
		return fmt.Sprintf("invalid %s for contract %s: %s", e.Field, e.ContractID, e.Rule)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Rule)
}

// EligibilityError is returned when a contract's state does not allow the operation.
type EligibilityError struct {
	ContractID uuid.UUID
	Operation  string
	Rule       string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("contract %s not eligible for %s: %s", e.ContractID, e.Operation, e.Rule)
}

// LimitError is returned when a league quota would be exceeded.
type LimitError struct {
	TeamID uuid.UUID
	Rule   string
	Limit  int
	Used   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("team %s exceeded %s: %d of %d used", e.TeamID, e.Rule, e.Used, e.Limit)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsEligibility reports whether err wraps an EligibilityError.
func IsEligibility(err error) bool {
	var target *EligibilityError
	return errors.As(err, &target)
}

// IsLimit reports whether err wraps a LimitError.
func IsLimit(err error) bool {
	var target *LimitError
	return errors.As(err, &target)
}

func invalid(contractID uuid.UUID, field, format string, args ...any) error {
	return &ValidationError{ContractID: contractID, Field: field, Rule: fmt.Sprintf(format, args...)}
}

func ineligible(contractID uuid.UUID, operation, format string, args ...any) error {
	return &EligibilityError{ContractID: contractID, Operation: operation, Rule: fmt.Sprintf(format, args...)}
}
