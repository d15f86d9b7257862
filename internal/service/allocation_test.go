package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmukendi/coopec-service/internal/models"
	"github.com/bmukendi/coopec-service/internal/utils"
)

func bareLabel(c *models.Credit) models.BorrowerRef {
	return models.BorrowerRef{MemberID: c.MemberID, ClientID: c.ClientID}
}

func TestBuildInterestReport(t *testing.T) {
	t.Parallel()

	credits := []models.Credit{
		{ID: 1, MemberID: int64Ptr(1), Principal: dec("1000"), RatePct: dec("5")},
		{ID: 2, MemberID: int64Ptr(1), Principal: dec("2000"), RatePct: dec("10")},
		{ID: 3, ClientID: int64Ptr(7), Principal: dec("500"), RatePct: dec("4")},
	}

	report := buildInterestReport(credits, bareLabel)

	require.Len(t, report.PerCredit, 3)
	assert.True(t, report.PerCredit[0].Interest.Equal(dec("50")))
	assert.True(t, report.PerCredit[1].Interest.Equal(dec("200")))
	assert.True(t, report.PerCredit[2].Interest.Equal(dec("20")))
	assert.True(t, report.GrandTotal.Equal(dec("270")), "grand total %s", report.GrandTotal)
	assert.Equal(t, 3, report.CreditCount)

	require.Len(t, report.PerBorrower, 2)
	assert.True(t, report.PerBorrower[0].InterestTotal.Equal(dec("250")))
	assert.Equal(t, 2, report.PerBorrower[0].CreditCount)
	assert.True(t, report.PerBorrower[1].InterestTotal.Equal(dec("20")))
	assert.Equal(t, 1, report.PerBorrower[1].CreditCount)
}

func TestBuildInterestReport_Empty(t *testing.T) {
	t.Parallel()

	report := buildInterestReport(nil, bareLabel)

	assert.Empty(t, report.PerCredit)
	assert.Empty(t, report.PerBorrower)
	assert.True(t, report.GrandTotal.IsZero())
}

func TestBuildFeeShares(t *testing.T) {
	t.Parallel()

	perBorrower := []models.BorrowerInterestRow{
		{InterestTotal: dec("250")},
		{InterestTotal: dec("50")},
	}
	feeOnInterest := dec("60")

	shares := buildFeeShares(perBorrower, dec("300"), feeOnInterest)

	require.Len(t, shares, 2)
	assert.True(t, shares[0].FeeShare.Equal(dec("50")), "share %s", shares[0].FeeShare)
	assert.True(t, shares[1].FeeShare.Equal(dec("10")), "share %s", shares[1].FeeShare)

	// shares spend exactly the interest part of the fee
	sum := shares[0].FeeShare.Add(shares[1].FeeShare)
	assert.True(t, sum.Equal(feeOnInterest))
}

func TestBuildFeeShares_NoInterest(t *testing.T) {
	t.Parallel()

	perBorrower := []models.BorrowerInterestRow{{InterestTotal: decimal.Zero}}
	shares := buildFeeShares(perBorrower, decimal.Zero, decimal.Zero)

	require.Len(t, shares, 1)
	assert.True(t, shares[0].Proportion.IsZero())
	assert.True(t, shares[0].FeeShare.IsZero())
}

func janDate(day int) time.Time {
	return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestBuildContributionsReport_MonthFilter(t *testing.T) {
	t.Parallel()

	period := utils.Period{Month: 1, Year: 2026}
	members := []models.MemberRef{{ID: 1, Number: "M001", Name: "Kalala"}}

	shares := []models.SharePaymentRow{
		{MemberID: 1, Amount: dec("100"), Month: "JANVIER", Date: janDate(5)},
		// same month name but wrong payment-date year
		{MemberID: 1, Amount: dec("40"), Month: "JANVIER", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
		// right year but another month
		{MemberID: 1, Amount: dec("70"), Month: "FEVRIER", Date: janDate(5)},
	}
	deposits := []models.SavingsDepositRow{
		{MemberID: 1, AccountType: models.AccountBlocked, Amount: dec("200"), Month: "JANVIER", SubscriptionDate: janDate(2)},
		{MemberID: 1, AccountType: models.AccountOnDemand, Amount: dec("50"), Month: "JANVIER", SubscriptionDate: janDate(2)},
		// deposits filter on the subscription year, not the deposit date
		{MemberID: 1, AccountType: models.AccountBlocked, Amount: dec("90"), Month: "JANVIER", SubscriptionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	withdrawals := []models.SavingsWithdrawalRow{
		{MemberID: 1, AccountType: models.AccountOnDemand, Amount: dec("20"), Date: janDate(20)},
		// another month's withdrawal stays out
		{MemberID: 1, AccountType: models.AccountOnDemand, Amount: dec("99"), Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)},
	}

	report := buildContributionsReport(period, shares, deposits, withdrawals, nil, members)

	require.Len(t, report.PerMember, 1)
	m := report.PerMember[0]
	assert.Equal(t, "M001", m.Member.Number)
	assert.True(t, m.Shares.Equal(dec("100")), "shares %s", m.Shares)
	assert.True(t, m.BlockedSavings.Equal(dec("200")), "blocked %s", m.BlockedSavings)
	assert.True(t, m.OnDemandSavings.Equal(dec("30")), "on demand %s", m.OnDemandSavings)
	assert.True(t, m.Gross.Equal(dec("330")), "gross %s", m.Gross)
	assert.True(t, m.Net.Equal(dec("330")))
	assert.True(t, report.TotalNet.Equal(dec("330")))
}

func TestBuildContributionsReport_ActiveCreditDraw(t *testing.T) {
	t.Parallel()

	period := utils.Period{Month: 1, Year: 2026}
	members := []models.MemberRef{
		{ID: 1, Number: "M001", Name: "Kalala"},
		{ID: 2, Number: "M002", Name: "Mbuyi"},
	}
	shares := []models.SharePaymentRow{
		{MemberID: 1, Amount: dec("500"), Month: "JANVIER", Date: janDate(5)},
		{MemberID: 2, Amount: dec("100"), Month: "JANVIER", Date: janDate(5)},
	}
	credits := []models.Credit{
		// disbursed 190 under PRECOMPTE: 200 less 10 interest
		{MemberID: int64Ptr(1), Principal: dec("200"), RatePct: dec("5"),
			Method: models.MethodPrecompte, Status: models.StatusOngoing},
		// settled credits no longer draw
		{MemberID: int64Ptr(1), Principal: dec("900"), RatePct: dec("5"),
			Method: models.MethodPostcompte, Status: models.StatusSettled},
		// a draw larger than the contributions floors the net at zero
		{MemberID: int64Ptr(2), Principal: dec("400"), RatePct: dec("5"),
			Method: models.MethodPostcompte, Status: models.StatusOverdue},
	}

	report := buildContributionsReport(period, shares, nil, nil, credits, members)

	require.Len(t, report.PerMember, 2)

	first := report.PerMember[0]
	assert.True(t, first.ActiveCreditDraw.Equal(dec("190")), "draw %s", first.ActiveCreditDraw)
	assert.True(t, first.Net.Equal(dec("310")), "net %s", first.Net)

	second := report.PerMember[1]
	assert.True(t, second.ActiveCreditDraw.Equal(dec("400")))
	assert.True(t, second.Net.IsZero(), "net %s", second.Net)

	assert.True(t, report.TotalNet.Equal(dec("310")))
}

func TestBuildContributionsReport_ZeroGrossExcluded(t *testing.T) {
	t.Parallel()

	period := utils.Period{Month: 1, Year: 2026}
	deposits := []models.SavingsDepositRow{
		{MemberID: 1, AccountType: models.AccountOnDemand, Amount: dec("50"), Month: "JANVIER", SubscriptionDate: janDate(2)},
	}
	withdrawals := []models.SavingsWithdrawalRow{
		{MemberID: 1, AccountType: models.AccountOnDemand, Amount: dec("50"), Date: janDate(20)},
	}

	report := buildContributionsReport(period, nil, deposits, withdrawals, nil, nil)

	assert.Empty(t, report.PerMember)
	assert.True(t, report.TotalGross.IsZero())
}

func TestBuildContributionsReport_YearOnly(t *testing.T) {
	t.Parallel()

	members := []models.MemberRef{{ID: 1, Number: "M001", Name: "Kalala"}}
	shares := []models.SharePaymentRow{
		{MemberID: 1, Amount: dec("100"), Month: "JANVIER", Date: janDate(5)},
		{MemberID: 1, Amount: dec("100"), Month: "JUIN", Date: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)},
		{MemberID: 1, Amount: dec("100"), Month: "JUIN", Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)},
	}

	report := buildContributionsReport(utils.Period{Year: 2026}, shares, nil, nil, nil, members)

	require.Len(t, report.PerMember, 1)
	assert.True(t, report.PerMember[0].Shares.Equal(dec("200")), "shares %s", report.PerMember[0].Shares)
}

func TestBuildContributionsReport_YearSumsMonthlyPasses(t *testing.T) {
	t.Parallel()

	members := []models.MemberRef{{ID: 1, Number: "M001", Name: "Kalala"}}
	shares := []models.SharePaymentRow{
		{MemberID: 1, Amount: dec("100"), Month: "JANVIER", Date: janDate(5)},
		{MemberID: 1, Amount: dec("100"), Month: "FEVRIER", Date: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	credits := []models.Credit{
		{MemberID: int64Ptr(1), Principal: dec("150"), RatePct: dec("0"),
			Method: models.MethodPostcompte, Status: models.StatusOngoing},
	}

	// The draw offsets every contributing month, so a 150 draw floors
	// both 100-share months at zero even though 200 - 150 = 50.
	report := buildContributionsReport(utils.Period{Year: 2026}, shares, nil, nil, credits, members)

	require.Len(t, report.PerMember, 1)
	m := report.PerMember[0]
	assert.True(t, m.Gross.Equal(dec("200")), "gross %s", m.Gross)
	assert.True(t, m.ActiveCreditDraw.Equal(dec("300")), "draw %s", m.ActiveCreditDraw)
	assert.True(t, m.Net.IsZero(), "net %s", m.Net)
	assert.True(t, report.TotalNet.IsZero(), "total net %s", report.TotalNet)
}

func TestBuildRedistributionReport(t *testing.T) {
	t.Parallel()

	period := utils.Period{Month: 1, Year: 2026}
	fee := &models.ManagementFeeReport{
		FeePct:             dec("20"),
		InterestGrandTotal: dec("1000"),
		FeeTotal:           dec("250"),
	}
	contributions := &models.ContributionsReport{
		TotalNet: dec("600"),
		PerMember: []models.MemberContribution{
			{Member: models.MemberRef{ID: 1}, Net: dec("450")},
			{Member: models.MemberRef{ID: 2}, Net: dec("150")},
		},
	}

	report := buildRedistributionReport(period, fee, contributions)

	assert.True(t, report.NetInterest.Equal(dec("750")))
	require.Len(t, report.PerMember, 2)
	assert.True(t, report.PerMember[0].Interest.Equal(dec("562.5")), "interest %s", report.PerMember[0].Interest)
	assert.True(t, report.PerMember[1].Interest.Equal(dec("187.5")), "interest %s", report.PerMember[1].Interest)

	// attributions spend exactly the net interest
	sum := report.PerMember[0].Interest.Add(report.PerMember[1].Interest)
	assert.True(t, sum.Equal(report.NetInterest))
}

func TestBuildRedistributionReport_NoContributions(t *testing.T) {
	t.Parallel()

	fee := &models.ManagementFeeReport{
		InterestGrandTotal: dec("1000"),
		FeeTotal:           dec("200"),
	}
	contributions := &models.ContributionsReport{
		TotalNet: decimal.Zero,
		PerMember: []models.MemberContribution{
			{Member: models.MemberRef{ID: 1}, Net: decimal.Zero},
		},
	}

	report := buildRedistributionReport(utils.Period{Month: 1, Year: 2026}, fee, contributions)

	assert.True(t, report.NetInterest.Equal(dec("800")))
	require.Len(t, report.PerMember, 1)
	assert.True(t, report.PerMember[0].Proportion.IsZero())
	assert.True(t, report.PerMember[0].Interest.IsZero())
}

func TestBuildRedistributionReport_FeeAboveInterest(t *testing.T) {
	t.Parallel()

	fee := &models.ManagementFeeReport{
		InterestGrandTotal: dec("100"),
		// membership fees can push the fee total past the interest
		FeeTotal: dec("300"),
	}
	contributions := &models.ContributionsReport{
		TotalNet: dec("500"),
		PerMember: []models.MemberContribution{
			{Member: models.MemberRef{ID: 1}, Net: dec("500")},
		},
	}

	report := buildRedistributionReport(utils.Period{Month: 1, Year: 2026}, fee, contributions)

	// the shortfall passes through to the attributions
	assert.True(t, report.NetInterest.Equal(dec("-200")), "net interest %s", report.NetInterest)
	assert.True(t, report.PerMember[0].Interest.Equal(dec("-200")), "interest %s", report.PerMember[0].Interest)
}
