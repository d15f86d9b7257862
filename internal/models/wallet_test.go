package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKind_Inflow(t *testing.T) {
	t.Parallel()

	inflows := []SourceKind{
		SourceRepayment, SourceSavingsDeposit, SourceSharePayment,
		SourceMembershipFee, SourceDonation,
	}
	outflows := []SourceKind{SourceCredit, SourceExpense, SourceWithdrawal}

	for _, k := range inflows {
		assert.True(t, k.Inflow(), "%s should be an inflow", k)
	}
	for _, k := range outflows {
		assert.False(t, k.Inflow(), "%s should be an outflow", k)
	}
}

func TestComputeWalletBalance(t *testing.T) {
	t.Parallel()

	lines := []MovementLine{
		{Kind: SourceSavingsDeposit, Amount: dec("500")},
		{Kind: SourceSharePayment, Amount: dec("300")},
		{Kind: SourceRepayment, Amount: dec("200")},
		{Kind: SourceCredit, Amount: dec("400")},
		{Kind: SourceExpense, Amount: dec("100")},
	}

	got := ComputeWalletBalance(lines)

	assert.True(t, got.Inflows.Equal(dec("1000")), "inflows %s", got.Inflows)
	assert.True(t, got.Outflows.Equal(dec("500")), "outflows %s", got.Outflows)
	assert.True(t, got.Available.Equal(dec("500")), "available %s", got.Available)
	// conservation: available always equals inflows minus outflows when
	// the wallet is not overdrawn
	assert.True(t, got.Available.Equal(got.Inflows.Sub(got.Outflows)))
	assert.True(t, got.Raw.Equal(got.Available))
}

func TestComputeWalletBalance_Empty(t *testing.T) {
	t.Parallel()

	got := ComputeWalletBalance(nil)

	assert.True(t, got.Available.IsZero())
	assert.True(t, got.Inflows.IsZero())
	assert.True(t, got.Outflows.IsZero())
	assert.True(t, got.Raw.IsZero())
}

func TestComputeWalletBalance_OverdraftClamped(t *testing.T) {
	t.Parallel()

	lines := []MovementLine{
		{Kind: SourceDonation, Amount: dec("100")},
		{Kind: SourceCredit, Amount: dec("250")},
	}

	got := ComputeWalletBalance(lines)

	assert.True(t, got.Available.IsZero(), "available %s", got.Available)
	// the raw position keeps the overdraft visible
	assert.True(t, got.Raw.Equal(dec("-150")), "raw %s", got.Raw)
}

func TestSourceRef_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ref     SourceRef
		wantErr bool
	}{
		{"valid", SourceRef{Kind: SourceRepayment, ID: 1}, false},
		{"unknown kind", SourceRef{Kind: "VIREMENT", ID: 1}, true},
		{"missing id", SourceRef{Kind: SourceRepayment}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWalletMovement_Validate(t *testing.T) {
	t.Parallel()

	m := WalletMovement{Source: SourceRef{Kind: SourceCredit, ID: 7}}
	require.Error(t, m.Validate(), "missing wallet must be rejected")

	m.WalletID = 3
	require.NoError(t, m.Validate())
}

func TestWalletMovement_NaturalKey(t *testing.T) {
	t.Parallel()

	a := WalletMovement{WalletID: 3, Source: SourceRef{Kind: SourceCredit, ID: 7}}
	b := WalletMovement{WalletID: 3, Source: SourceRef{Kind: SourceCredit, ID: 7}, ID: 99}

	// the key ignores the row id: relinking the same record converges
	assert.Equal(t, a.NaturalKey(), b.NaturalKey())

	c := WalletMovement{WalletID: 3, Source: SourceRef{Kind: SourceRepayment, ID: 7}}
	assert.NotEqual(t, a.NaturalKey(), c.NaturalKey())
}

func TestComputeWalletBalance_ZeroAmountLines(t *testing.T) {
	t.Parallel()

	lines := []MovementLine{
		{Kind: SourceSavingsDeposit, Amount: decimal.Zero},
		{Kind: SourceExpense, Amount: decimal.Zero},
	}

	got := ComputeWalletBalance(lines)
	assert.True(t, got.Available.IsZero())
	assert.True(t, got.Raw.IsZero())
}
