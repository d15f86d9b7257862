package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmukendi/coopec-service/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func validGrant() GrantInput {
	return GrantInput{
		MemberID:     int64Ptr(1),
		WalletID:     1,
		Principal:    dec("1000"),
		RatePct:      dec("5"),
		Duration:     3,
		DurationUnit: models.DurationMonths,
		Method:       models.MethodPrecompte,
	}
}

func TestValidateGrantInput(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateGrantInput(validGrant()))

	tests := []struct {
		name   string
		mutate func(*GrantInput)
	}{
		{"no borrower", func(in *GrantInput) { in.MemberID = nil }},
		{"both borrowers", func(in *GrantInput) { in.ClientID = int64Ptr(2) }},
		{"missing wallet", func(in *GrantInput) { in.WalletID = 0 }},
		{"zero principal", func(in *GrantInput) { in.Principal = decimal.Zero }},
		{"negative principal", func(in *GrantInput) { in.Principal = dec("-10") }},
		{"negative rate", func(in *GrantInput) { in.RatePct = dec("-1") }},
		{"zero duration", func(in *GrantInput) { in.Duration = 0 }},
		{"unknown unit", func(in *GrantInput) { in.DurationUnit = "ANNEES" }},
		{"unknown method", func(in *GrantInput) { in.Method = "MIXTE" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validGrant()
			tt.mutate(&in)
			err := validateGrantInput(in)
			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestValidateGrantInput_ClientBorrower(t *testing.T) {
	t.Parallel()

	in := validGrant()
	in.MemberID = nil
	in.ClientID = int64Ptr(4)
	require.NoError(t, validateGrantInput(in))
}

func TestValidateGrantInput_ZeroRateAllowed(t *testing.T) {
	t.Parallel()

	in := validGrant()
	in.RatePct = decimal.Zero
	require.NoError(t, validateGrantInput(in))
}

func TestCheckWalletSufficiency(t *testing.T) {
	t.Parallel()

	// leaving exactly the floor passes
	require.NoError(t, checkWalletSufficiency(dec("1001"), dec("1000")))

	// equal to the available balance is not strictly below
	err := checkWalletSufficiency(dec("1000"), dec("1000"))
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "insufficient_wallet_balance", rule.Rule)
	assert.True(t, rule.Max.Equal(dec("999")), "headroom %s", rule.Max)

	// below the available balance but eating into the floor
	err = checkWalletSufficiency(dec("1000.50"), dec("1000"))
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "wallet_floor", rule.Rule)
	assert.True(t, rule.Max.Equal(dec("999.50")), "headroom %s", rule.Max)
}

func TestCheckWalletSufficiency_EmptyWallet(t *testing.T) {
	t.Parallel()

	err := checkWalletSufficiency(decimal.Zero, dec("100"))
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)
	// headroom never goes negative
	assert.True(t, rule.Max.IsZero(), "headroom %s", rule.Max)
}
