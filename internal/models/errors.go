package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed input: out-of-range period parameters,
// missing linkage, both-or-neither borrower references. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BusinessRuleError reports a rejected operation: insufficient wallet
// balance, over-repayment, repayment on a settled credit. Max carries the
// headroom so the caller can compute the largest allowed amount.
type BusinessRuleError struct {
	Rule    string
	Message string
	Max     decimal.Decimal
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewBusinessRuleError builds a rule violation carrying the allowed headroom.
func NewBusinessRuleError(rule string, max decimal.Decimal, format string, args ...any) error {
	return &BusinessRuleError{Rule: rule, Max: max, Message: fmt.Sprintf(format, args...)}
}
