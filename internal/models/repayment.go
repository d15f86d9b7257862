package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Repayment is a payment against a credit. Append-only; each creation
// mutates the parent credit's remaining balance.
type Repayment struct {
	ID             int64           `json:"id"`
	CreditID       int64           `json:"credit_id"`
	Amount         decimal.Decimal `json:"amount"`
	SettlementDate time.Time       `json:"settlement_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
