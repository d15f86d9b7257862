package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WalletType is a named pool of cooperative cash (mobile-money channel,
// bank account, physical cash box).
type WalletType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SourceKind identifies which kind of money-moving record a wallet
// movement is linked to. The stored values match the record tables.
type SourceKind string

const (
	SourceRepayment      SourceKind = "REMBOURSEMENT"
	SourceCredit         SourceKind = "CREDIT"
	SourceSavingsDeposit SourceKind = "DONNAT_EPARGNE"
	SourceSharePayment   SourceKind = "DONNAT_PART_SOCIAL"
	SourceMembershipFee  SourceKind = "FRAIS_ADHESION"
	SourceExpense        SourceKind = "DEPENSE"
	SourceWithdrawal     SourceKind = "RETRAIT"
	SourceDonation       SourceKind = "DON_DIRECT"
)

// Inflow reports whether records of this kind bring money into the wallet.
// Credits, expenses and withdrawals take money out; everything else comes in.
func (k SourceKind) Inflow() bool {
	switch k {
	case SourceCredit, SourceExpense, SourceWithdrawal:
		return false
	default:
		return true
	}
}

// Valid reports whether k is one of the eight known source kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceRepayment, SourceCredit, SourceSavingsDeposit, SourceSharePayment,
		SourceMembershipFee, SourceExpense, SourceWithdrawal, SourceDonation:
		return true
	}
	return false
}

// SourceRef points at exactly one money-moving record. Using a tagged
// reference instead of eight nullable foreign keys makes the
// "exactly one source" rule unrepresentable to violate in memory; the
// validation below guards values coming from the outside.
type SourceRef struct {
	Kind SourceKind `json:"kind"`
	ID   int64      `json:"id"`
}

// Validate checks that the reference names a known record kind and row.
func (r SourceRef) Validate() error {
	if !r.Kind.Valid() {
		return &ValidationError{Field: "source.kind", Message: fmt.Sprintf("unknown source kind %q", r.Kind)}
	}
	if r.ID <= 0 {
		return &ValidationError{Field: "source.id", Message: "source record id is required"}
	}
	return nil
}

// WalletMovement links one wallet to exactly one money-moving record.
// Immutable after creation except for the audit timestamps.
type WalletMovement struct {
	ID        int64     `json:"id"`
	WalletID  int64     `json:"wallet_id"`
	Source    SourceRef `json:"source"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the movement's linkage before it is persisted.
func (m WalletMovement) Validate() error {
	if m.WalletID <= 0 {
		return &ValidationError{Field: "wallet_id", Message: "wallet is required"}
	}
	return m.Source.Validate()
}

// NaturalKey is the dedup key for idempotent find-or-create: one movement
// per (wallet, source record) pair. Re-creating the same link converges on
// the existing row instead of inserting a duplicate.
func (m WalletMovement) NaturalKey() string {
	return fmt.Sprintf("%d/%s/%d", m.WalletID, m.Source.Kind, m.Source.ID)
}

// MovementLine is a wallet movement joined with the unsigned amount of its
// source record: the repayment or contribution amount, the expense total
// (quantity x unit price) or, for credits, the effectively disbursed amount.
type MovementLine struct {
	Kind   SourceKind
	Amount decimal.Decimal
}

// WalletBalance is the derived position of a wallet. Available is clamped
// to zero for reporting; Raw keeps the unclamped sum so a genuine overdraft
// stays observable.
type WalletBalance struct {
	Available decimal.Decimal `json:"available"`
	Inflows   decimal.Decimal `json:"inflows"`
	Outflows  decimal.Decimal `json:"outflows"`
	Raw       decimal.Decimal `json:"raw"`
}

// ComputeWalletBalance folds movement lines with the fixed sign table.
// Deterministic and total: the empty set yields an all-zero balance.
func ComputeWalletBalance(lines []MovementLine) WalletBalance {
	inflows := decimal.Zero
	outflows := decimal.Zero
	for _, line := range lines {
		if line.Kind.Inflow() {
			inflows = inflows.Add(line.Amount)
		} else {
			outflows = outflows.Add(line.Amount)
		}
	}
	raw := inflows.Sub(outflows)
	available := raw
	if available.IsNegative() {
		available = decimal.Zero
	}
	return WalletBalance{Available: available, Inflows: inflows, Outflows: outflows, Raw: raw}
}
