package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes blocked savings from on-demand accounts.
type AccountType string

const (
	AccountBlocked  AccountType = "BLOQUE"
	AccountOnDemand AccountType = "VUE"
)

// SavingsSubscription is a member's savings plan on one of their accounts.
// Subscription and account management belong to the registry collaborator;
// the ledger only reads them and appends deposits and withdrawals.
type SavingsSubscription struct {
	ID               int64       `json:"id"`
	MemberID         int64       `json:"member_id"`
	AccountType      AccountType `json:"account_type"`
	SubscriptionDate time.Time   `json:"subscription_date"`
}

// SavingsDeposit is one deposit on a savings subscription, attributed to a
// named month of the subscription year.
type SavingsDeposit struct {
	ID             int64           `json:"id"`
	SubscriptionID int64           `json:"subscription_id"`
	Amount         decimal.Decimal `json:"amount"`
	Month          string          `json:"month"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SavingsWithdrawal takes money back out of a savings subscription.
type SavingsWithdrawal struct {
	ID             int64           `json:"id"`
	SubscriptionID int64           `json:"subscription_id"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ShareSubscription is a member's commitment to pay up share capital.
type ShareSubscription struct {
	ID       int64 `json:"id"`
	MemberID int64 `json:"member_id"`
}

// SharePayment is one payment toward a share subscription, attributed to a
// named month.
type SharePayment struct {
	ID             int64           `json:"id"`
	SubscriptionID int64           `json:"subscription_id"`
	Amount         decimal.Decimal `json:"amount"`
	Month          string          `json:"month"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MembershipFee is a one-off joining fee; it feeds the management-fee pool.
type MembershipFee struct {
	ID        int64           `json:"id"`
	MemberID  int64           `json:"member_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MemberRef is the minimal member identity the ledger needs for report
// labels. The member registry itself is another service's concern.
type MemberRef struct {
	ID     int64  `json:"member_id"`
	Number string `json:"member_number"`
	Name   string `json:"member_name"`
}

// ClientRef is the minimal identity of a non-member client borrower.
type ClientRef struct {
	ID     int64  `json:"client_id"`
	Number string `json:"client_number"`
	Name   string `json:"client_name"`
}

// SharePaymentRow is a share payment joined with its member, as the
// allocation engine consumes it.
type SharePaymentRow struct {
	MemberID int64
	Amount   decimal.Decimal
	Month    string
	Date     time.Time
}

// SavingsDepositRow is a savings deposit joined with its member, account
// type and subscription date.
type SavingsDepositRow struct {
	MemberID         int64
	AccountType      AccountType
	Amount           decimal.Decimal
	Month            string
	SubscriptionDate time.Time
}

// SavingsWithdrawalRow is a withdrawal joined with its member and account
// type.
type SavingsWithdrawalRow struct {
	MemberID    int64
	AccountType AccountType
	Amount      decimal.Decimal
	Date        time.Time
}
