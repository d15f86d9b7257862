package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost of the cooperative, financed exclusively
// from the management-fee pool, never from raw capital.
type Expense struct {
	ID        int64           `json:"id"`
	Label     string          `json:"label"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Total is quantity x unit price. Derived on read, never stored, so the
// two source fields can never diverge from it.
func (e *Expense) Total() decimal.Decimal {
	return e.Quantity.Mul(e.UnitPrice)
}

// DirectDonation is cash given by someone who is neither a member nor a
// client: a plain inflow, unattached to shares or savings.
type DirectDonation struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Label     string          `json:"label,omitempty"`
	DonorName string          `json:"donor_name,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
