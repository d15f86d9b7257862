package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCredit_Precompte(t *testing.T) {
	t.Parallel()

	c := Credit{
		Principal: dec("1000"),
		RatePct:   dec("5"),
		Method:    MethodPrecompte,
	}

	assert.True(t, c.Interest().Equal(dec("50")))
	assert.True(t, c.EffectiveDisbursed().Equal(dec("950")))
	assert.True(t, c.InitialBalance().Equal(dec("1000")))
}

func TestCredit_Postcompte(t *testing.T) {
	t.Parallel()

	c := Credit{
		Principal: dec("1000"),
		RatePct:   dec("5"),
		Method:    MethodPostcompte,
	}

	assert.True(t, c.Interest().Equal(dec("50")))
	assert.True(t, c.EffectiveDisbursed().Equal(dec("1000")))
	assert.True(t, c.InitialBalance().Equal(dec("1050")))
}

func TestCredit_MaturityFrom(t *testing.T) {
	t.Parallel()

	grant := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		unit     DurationUnit
		duration int
		want     time.Time
	}{
		{"days", DurationDays, 15, time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)},
		{"weeks", DurationWeeks, 2, time.Date(2026, 1, 24, 0, 0, 0, 0, time.UTC)},
		// months are a 30-day approximation, not calendar months
		{"months", DurationMonths, 3, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Credit{Duration: tt.duration, DurationUnit: tt.unit}
			assert.Equal(t, tt.want, c.MaturityFrom(grant))
		})
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	maturity := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		balance decimal.Decimal
		today   time.Time
		want    CreditStatus
	}{
		{"settled when balance is zero", decimal.Zero, maturity.AddDate(0, 0, 10), StatusSettled},
		{"settled wins over overdue", dec("-0.01"), maturity.AddDate(0, 0, 10), StatusSettled},
		{"ongoing before maturity", dec("100"), maturity.AddDate(0, 0, -1), StatusOngoing},
		{"ongoing on maturity day", dec("100"), maturity, StatusOngoing},
		{"overdue after maturity", dec("100"), maturity.AddDate(0, 0, 1), StatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.balance, maturity, tt.today))
		})
	}
}

func TestStatusFor_NoMaturity(t *testing.T) {
	t.Parallel()

	// a credit without a maturity date can never go overdue
	got := StatusFor(dec("100"), time.Time{}, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, StatusOngoing, got)
}

func TestScoreForSettlement(t *testing.T) {
	t.Parallel()

	maturity := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		settlement time.Time
		want       string
	}{
		{"early settlement", maturity.AddDate(0, 0, -5), "10"},
		{"on the maturity day", maturity, "8"},
		{"one day late", maturity.AddDate(0, 0, 1), "5"},
		{"thirty days late", maturity.AddDate(0, 0, 30), "5"},
		{"thirty-one days late", maturity.AddDate(0, 0, 31), "2"},
		{"sixty days late", maturity.AddDate(0, 0, 60), "2"},
		{"sixty-one days late", maturity.AddDate(0, 0, 61), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreForSettlement(tt.settlement, maturity)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestScoreForSettlement_NoMaturity(t *testing.T) {
	t.Parallel()

	got := ScoreForSettlement(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	assert.True(t, got.Equal(dec("10")))
}

func TestMentionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		average string
		want    string
	}{
		{"10", "A+"},
		{"9", "A+"},
		{"8.9", "A"},
		{"7", "A"},
		{"6.9", "B"},
		{"5", "B"},
		{"4.9", "C"},
		{"3", "C"},
		{"2.9", "D"},
		{"0", "D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MentionFor(dec(tt.average)), "average %s", tt.average)
	}
}

func TestRollupScore(t *testing.T) {
	t.Parallel()

	credits := []Credit{
		{Score: dec("10")},
		{Score: dec("8")},
		{Score: dec("5")},
		{Score: dec("5")},
	}

	got := RollupScore(credits)

	require.Equal(t, 4, got.CreditCount)
	assert.True(t, got.Average.Equal(dec("7")), "average %s", got.Average)
	assert.True(t, got.Percentage.Equal(dec("70")), "percentage %s", got.Percentage)
	assert.Equal(t, "A", got.Mention)
}

func TestRollupScore_NoCredits(t *testing.T) {
	t.Parallel()

	got := RollupScore(nil)

	assert.Equal(t, 0, got.CreditCount)
	assert.True(t, got.Average.Equal(dec("10")))
	assert.True(t, got.Percentage.Equal(dec("100")))
	assert.Equal(t, "A+", got.Mention)
}

func TestCredit_Active(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Credit{Status: StatusOngoing}).Active())
	assert.True(t, (&Credit{Status: StatusOverdue}).Active())
	assert.False(t, (&Credit{Status: StatusSettled}).Active())
}

func TestCredit_OutstandingDraw(t *testing.T) {
	t.Parallel()

	pre := Credit{Principal: dec("1000"), RatePct: dec("10"), Method: MethodPrecompte}
	post := Credit{Principal: dec("1000"), RatePct: dec("10"), Method: MethodPostcompte}

	assert.True(t, pre.OutstandingDraw().Equal(dec("900")))
	assert.True(t, post.OutstandingDraw().Equal(dec("1000")))
}
