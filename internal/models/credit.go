package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// DurationUnit is the unit of a credit's duration.
type DurationUnit string

const (
	DurationDays   DurationUnit = "JOURS"
	DurationWeeks  DurationUnit = "SEMAINES"
	DurationMonths DurationUnit = "MOIS"
)

// Valid reports whether u is a known duration unit.
func (u DurationUnit) Valid() bool {
	return u == DurationDays || u == DurationWeeks || u == DurationMonths
}

// InterestMethod states when interest is taken.
type InterestMethod string

const (
	// MethodPrecompte deducts the interest from the disbursed amount.
	MethodPrecompte InterestMethod = "PRECOMPTE"
	// MethodPostcompte adds the interest to the payable balance at maturity.
	MethodPostcompte InterestMethod = "POSTCOMPTE"
)

// Valid reports whether m is a known interest method.
func (m InterestMethod) Valid() bool {
	return m == MethodPrecompte || m == MethodPostcompte
}

// CreditStatus is the lifecycle state of a credit.
type CreditStatus string

const (
	StatusOngoing CreditStatus = "EN_COURS"
	StatusOverdue CreditStatus = "ECHEANCE_DEPASSEE"
	StatusSettled CreditStatus = "TERMINE"
)

// Credit is a loan granted to exactly one borrower (member or client).
type Credit struct {
	ID                  int64           `json:"id"`
	MemberID            *int64          `json:"member_id,omitempty"`
	ClientID            *int64          `json:"client_id,omitempty"`
	Principal           decimal.Decimal `json:"principal"`
	RatePct             decimal.Decimal `json:"rate_pct"`
	Duration            int             `json:"duration"`
	DurationUnit        DurationUnit    `json:"duration_unit"`
	Method              InterestMethod  `json:"interest_method"`
	GrantDate           time.Time       `json:"grant_date"`
	MaturityDate        time.Time       `json:"maturity_date"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
	Status              CreditStatus    `json:"status"`
	Score               decimal.Decimal `json:"score"`
	FinalSettlementDate *time.Time      `json:"final_settlement_date,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Interest is principal x rate / 100, identical for both methods. Derived,
// never stored.
func (c *Credit) Interest() decimal.Decimal {
	return c.Principal.Mul(c.RatePct).Div(oneHundred)
}

// EffectiveDisbursed is the amount that actually left the wallet:
// principal minus interest under PRECOMPTE, the full principal otherwise.
func (c *Credit) EffectiveDisbursed() decimal.Decimal {
	if c.Method == MethodPrecompte {
		return c.Principal.Sub(c.Interest())
	}
	return c.Principal
}

// InitialBalance is the payable balance at grant time. Under PRECOMPTE the
// full principal remains payable even though a net amount was disbursed;
// under POSTCOMPTE the interest is added on top.
func (c *Credit) InitialBalance() decimal.Decimal {
	if c.Method == MethodPostcompte {
		return c.Principal.Add(c.Interest())
	}
	return c.Principal
}

// Active reports whether the credit still draws on the cooperative's funds.
func (c *Credit) Active() bool {
	return c.Status == StatusOngoing || c.Status == StatusOverdue
}

// OutstandingDraw is what an active credit subtracts from a member's
// contributions: the amount that actually left the wallet.
func (c *Credit) OutstandingDraw() decimal.Decimal {
	return c.EffectiveDisbursed()
}

// MaturityFrom computes the maturity date from a grant date. Months are an
// explicit 30-day approximation, not calendar-accurate; consumers depend on
// it, so keep it as is.
func (c *Credit) MaturityFrom(grant time.Time) time.Time {
	switch c.DurationUnit {
	case DurationDays:
		return grant.AddDate(0, 0, c.Duration)
	case DurationWeeks:
		return grant.AddDate(0, 0, 7*c.Duration)
	default:
		return grant.AddDate(0, 0, 30*c.Duration)
	}
}

// StatusFor recomputes the lifecycle state from a payable balance and the
// current date.
func StatusFor(balance decimal.Decimal, maturity, today time.Time) CreditStatus {
	if balance.LessThanOrEqual(decimal.Zero) {
		return StatusSettled
	}
	if !maturity.IsZero() && today.After(maturity) {
		return StatusOverdue
	}
	return StatusOngoing
}

// ScoreForSettlement grades repayment timeliness on a 0-10 scale by
// comparing the final settlement date to the maturity date. A credit with
// no recorded maturity settles at the full score.
func ScoreForSettlement(settlement, maturity time.Time) decimal.Decimal {
	if maturity.IsZero() {
		return decimal.NewFromFloat(10.0)
	}
	daysLate := int(settlement.Sub(maturity).Hours() / 24)
	switch {
	case daysLate < 0:
		return decimal.NewFromFloat(10.0)
	case daysLate == 0:
		return decimal.NewFromFloat(8.0)
	case daysLate <= 30:
		return decimal.NewFromFloat(5.0)
	case daysLate <= 60:
		return decimal.NewFromFloat(2.0)
	default:
		return decimal.Zero
	}
}

// MentionFor maps an average score to its letter band.
func MentionFor(average decimal.Decimal) string {
	switch {
	case average.GreaterThanOrEqual(decimal.NewFromInt(9)):
		return "A+"
	case average.GreaterThanOrEqual(decimal.NewFromInt(7)):
		return "A"
	case average.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return "B"
	case average.GreaterThanOrEqual(decimal.NewFromInt(3)):
		return "C"
	default:
		return "D"
	}
}

// BorrowerScore is the rollup of all of a borrower's credit scores.
type BorrowerScore struct {
	Average     decimal.Decimal `json:"average"`
	Percentage  decimal.Decimal `json:"percentage"`
	Mention     string          `json:"mention"`
	CreditCount int             `json:"credit_count"`
}

// RollupScore averages credit scores into a borrower score. A borrower with
// no credits starts with a clean record: 10/10, 100%.
func RollupScore(credits []Credit) BorrowerScore {
	if len(credits) == 0 {
		return BorrowerScore{
			Average:    decimal.NewFromFloat(10.0),
			Percentage: oneHundred,
			Mention:    "A+",
		}
	}
	total := decimal.Zero
	for i := range credits {
		total = total.Add(credits[i].Score)
	}
	average := total.Div(decimal.NewFromInt(int64(len(credits))))
	return BorrowerScore{
		Average:     average,
		Percentage:  average.Mul(decimal.NewFromInt(10)),
		Mention:     MentionFor(average),
		CreditCount: len(credits),
	}
}
