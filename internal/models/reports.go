package models

import "github.com/shopspring/decimal"

// BorrowerRef labels a credit's borrower in reports: exactly one of
// MemberID and ClientID is set.
type BorrowerRef struct {
	MemberID *int64 `json:"member_id,omitempty"`
	ClientID *int64 `json:"client_id,omitempty"`
	Number   string `json:"number"`
	Name     string `json:"name"`
}

// CreditInterestRow is the computed interest of a single credit.
type CreditInterestRow struct {
	CreditID  int64           `json:"credit_id"`
	Borrower  BorrowerRef     `json:"borrower"`
	Principal decimal.Decimal `json:"principal"`
	RatePct   decimal.Decimal `json:"rate_pct"`
	Interest  decimal.Decimal `json:"interest"`
}

// BorrowerInterestRow sums a borrower's interest across their credits.
type BorrowerInterestRow struct {
	Borrower      BorrowerRef     `json:"borrower"`
	InterestTotal decimal.Decimal `json:"interest_total"`
	CreditCount   int             `json:"credit_count"`
}

// InterestReport aggregates interest over every credit.
type InterestReport struct {
	PerCredit   []CreditInterestRow   `json:"per_credit"`
	PerBorrower []BorrowerInterestRow `json:"per_borrower"`
	GrandTotal  decimal.Decimal       `json:"grand_total"`
	CreditCount int                   `json:"credit_count"`
}

// BorrowerFeeShare is a borrower's slice of the management-fee pool,
// proportional to their share of the global interest.
type BorrowerFeeShare struct {
	Borrower      BorrowerRef     `json:"borrower"`
	InterestTotal decimal.Decimal `json:"interest_total"`
	Proportion    decimal.Decimal `json:"proportion"`
	FeeShare      decimal.Decimal `json:"fee_share"`
}

// ManagementFeeReport is the derived management-fee pool. It is never
// persisted and never produces a wallet movement.
type ManagementFeeReport struct {
	FeePct             decimal.Decimal    `json:"fee_pct"`
	Year               int                `json:"year,omitempty"`
	InterestGrandTotal decimal.Decimal    `json:"interest_grand_total"`
	FeeOnInterest      decimal.Decimal    `json:"fee_on_interest"`
	MembershipFees     decimal.Decimal    `json:"membership_fees"`
	FeeTotal           decimal.Decimal    `json:"fee_total"`
	ExpensesTotal      decimal.Decimal    `json:"expenses_total"`
	FeeAvailable       decimal.Decimal    `json:"fee_available"`
	PerBorrowerShare   []BorrowerFeeShare `json:"per_borrower_share"`
}

// MemberContribution is one member's contributions in the requested period.
// Net is gross minus the draw of their active credits, floored at zero.
type MemberContribution struct {
	Member           MemberRef       `json:"member"`
	Shares           decimal.Decimal `json:"shares"`
	BlockedSavings   decimal.Decimal `json:"blocked_savings"`
	OnDemandSavings  decimal.Decimal `json:"on_demand_savings"`
	Gross            decimal.Decimal `json:"gross"`
	ActiveCreditDraw decimal.Decimal `json:"active_credit_draw"`
	Net              decimal.Decimal `json:"net"`
}

// ContributionsReport aggregates member contributions. Members with no
// contribution in the period are omitted entirely, so the member list must
// not be assumed complete.
type ContributionsReport struct {
	Month            int                  `json:"month,omitempty"`
	Year             int                  `json:"year,omitempty"`
	PerMember        []MemberContribution `json:"per_member"`
	TotalShares      decimal.Decimal      `json:"total_shares"`
	TotalBlocked     decimal.Decimal      `json:"total_blocked_savings"`
	TotalOnDemand    decimal.Decimal      `json:"total_on_demand_savings"`
	TotalGross       decimal.Decimal      `json:"total_gross"`
	TotalActiveDraw  decimal.Decimal      `json:"total_active_credit_draw"`
	TotalNet         decimal.Decimal      `json:"total_net"`
}

// MemberAttribution is one member's slice of the net interest.
type MemberAttribution struct {
	Member       MemberRef       `json:"member"`
	Contribution decimal.Decimal `json:"contribution"`
	Proportion   decimal.Decimal `json:"proportion"`
	Interest     decimal.Decimal `json:"interest_attributed"`
}

// RedistributionReport distributes the net global interest to members in
// proportion to their net contributions over the requested period.
type RedistributionReport struct {
	Month                 int                 `json:"month,omitempty"`
	Year                  int                 `json:"year,omitempty"`
	FeePct                decimal.Decimal     `json:"fee_pct"`
	InterestGrandTotal    decimal.Decimal     `json:"interest_grand_total"`
	FeeTotal              decimal.Decimal     `json:"fee_total"`
	NetInterest           decimal.Decimal     `json:"net_interest"`
	TotalNetContributions decimal.Decimal     `json:"total_net_contributions"`
	PerMember             []MemberAttribution `json:"per_member_attribution"`
}
