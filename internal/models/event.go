package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType tags a ledger lifecycle event.
type EventType string

const (
	// EventCreditGranted fires after a grant transaction commits.
	EventCreditGranted EventType = "CREDIT_GRANTED"
	// EventCreditSettled fires when a repayment clears the balance.
	EventCreditSettled EventType = "CREDIT_SETTLED"
	// EventCreditMatured fires when the daily refresh finds a credit past
	// its maturity date with a balance still owing.
	EventCreditMatured EventType = "CREDIT_MATURED"
)

// LedgerEvent is emitted by the service after a successful state change and
// consumed by an external notifier. Message passing keeps side effects like
// email out of the ledger transaction.
type LedgerEvent struct {
	Type          EventType       `json:"type"`
	Receipt       string          `json:"receipt"`
	Reference     string          `json:"reference"`
	Credit        Credit          `json:"credit"`
	Repayment     *Repayment      `json:"repayment,omitempty"`
	BorrowerName  string          `json:"borrower_name"`
	BorrowerEmail string          `json:"borrower_email,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
