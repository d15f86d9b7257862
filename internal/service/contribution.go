package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
	"github.com/bmukendi/coopec-service/internal/utils"
)

// linkMovement pairs a freshly created source record with its wallet
// movement inside the caller's transaction.
func (s *Service) linkMovement(tx *sql.Tx, walletID int64, kind models.SourceKind, sourceID int64, date time.Time) error {
	movement := &models.WalletMovement{
		WalletID: walletID,
		Source:   models.SourceRef{Kind: kind, ID: sourceID},
		Date:     date,
	}
	created, err := s.repo.FindOrCreateMovementTx(tx, movement)
	if err != nil {
		return err
	}
	if !created {
		s.log.Infof("Movement %s already linked, reusing", movement.NaturalKey())
	}
	return nil
}

func validateContribution(amount decimal.Decimal, walletID int64) error {
	if !amount.IsPositive() {
		return models.NewValidationError("amount", "amount must be greater than zero")
	}
	if walletID <= 0 {
		return models.NewValidationError("wallet_id", "wallet is required")
	}
	return nil
}

// RecordSharePayment records a payment toward a member's share
// subscription, attributed to the named month.
func (s *Service) RecordSharePayment(ctx context.Context, subscriptionID int64, amount decimal.Decimal, month int, walletID int64, date time.Time) (*models.SharePayment, error) {
	if err := validateContribution(amount, walletID); err != nil {
		return nil, err
	}
	monthName, ok := utils.MonthName(month)
	if !ok {
		return nil, models.NewValidationError("month", "month must be between 1 and 12, got %d", month)
	}
	if _, err := s.repo.FindShareSubscription(subscriptionID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindWalletTypeByID(walletID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	payment := &models.SharePayment{SubscriptionID: subscriptionID, Amount: amount, Month: monthName, Date: date}
	err := s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateSharePaymentTx(tx, payment); err != nil {
			return err
		}
		return s.linkMovement(tx, walletID, models.SourceSharePayment, payment.ID, date)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Share payment of %s recorded on subscription %d (%s)", amount, subscriptionID, monthName)
	return payment, nil
}

// RecordSavingsDeposit records a deposit on a savings subscription.
func (s *Service) RecordSavingsDeposit(ctx context.Context, subscriptionID int64, amount decimal.Decimal, month int, walletID int64, date time.Time) (*models.SavingsDeposit, error) {
	if err := validateContribution(amount, walletID); err != nil {
		return nil, err
	}
	monthName, ok := utils.MonthName(month)
	if !ok {
		return nil, models.NewValidationError("month", "month must be between 1 and 12, got %d", month)
	}
	if _, err := s.repo.FindSavingsSubscription(subscriptionID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindWalletTypeByID(walletID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	deposit := &models.SavingsDeposit{SubscriptionID: subscriptionID, Amount: amount, Month: monthName, Date: date}
	err := s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateSavingsDepositTx(tx, deposit); err != nil {
			return err
		}
		return s.linkMovement(tx, walletID, models.SourceSavingsDeposit, deposit.ID, date)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Savings deposit of %s recorded on subscription %d (%s)", amount, subscriptionID, monthName)
	return deposit, nil
}

// RecordSavingsWithdrawal takes money out of a savings subscription. The
// withdrawal may not exceed the subscription's balance nor the wallet's
// available funds.
func (s *Service) RecordSavingsWithdrawal(ctx context.Context, subscriptionID int64, amount decimal.Decimal, walletID int64, date time.Time) (*models.SavingsWithdrawal, error) {
	if err := validateContribution(amount, walletID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindSavingsSubscription(subscriptionID); err != nil {
		return nil, err
	}

	savings, err := s.repo.SavingsBalance(subscriptionID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(savings) {
		return nil, models.NewBusinessRuleError("insufficient_savings", savings,
			"withdrawal %s exceeds the savings balance %s", amount, savings)
	}

	balance, err := s.WalletBalance(walletID, nil, nil)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(balance.Available) {
		return nil, models.NewBusinessRuleError("insufficient_wallet_balance", balance.Available,
			"withdrawal %s exceeds the wallet's available balance %s", amount, balance.Available)
	}

	if date.IsZero() {
		date = time.Now()
	}
	withdrawal := &models.SavingsWithdrawal{SubscriptionID: subscriptionID, Amount: amount, Date: date}
	err = s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateSavingsWithdrawalTx(tx, withdrawal); err != nil {
			return err
		}
		return s.linkMovement(tx, walletID, models.SourceWithdrawal, withdrawal.ID, date)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Withdrawal of %s recorded on subscription %d", amount, subscriptionID)
	return withdrawal, nil
}

// RecordMembershipFee records a member's joining fee. Fees feed the
// management-fee pool when it is computed; nothing is stored for the pool
// itself.
func (s *Service) RecordMembershipFee(ctx context.Context, memberID int64, amount decimal.Decimal, walletID int64, date time.Time) (*models.MembershipFee, error) {
	if err := validateContribution(amount, walletID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindMemberRef(memberID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindWalletTypeByID(walletID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	fee := &models.MembershipFee{MemberID: memberID, Amount: amount, Date: date}
	err := s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateMembershipFeeTx(tx, fee); err != nil {
			return err
		}
		return s.linkMovement(tx, walletID, models.SourceMembershipFee, fee.ID, date)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Membership fee of %s recorded for member %d", amount, memberID)
	return fee, nil
}

// RecordExpense records an operating cost. Expenses are financed from the
// management-fee pool only; one that does not fit in the pool's available
// remainder is refused.
func (s *Service) RecordExpense(ctx context.Context, label, unit string, quantity, unitPrice decimal.Decimal, walletID int64, date time.Time) (*models.Expense, error) {
	if label == "" {
		return nil, models.NewValidationError("label", "label is required")
	}
	if !quantity.IsPositive() || !unitPrice.IsPositive() {
		return nil, models.NewValidationError("quantity", "quantity and unit price must be greater than zero")
	}
	if _, err := s.repo.FindWalletTypeByID(walletID); err != nil {
		return nil, err
	}

	expense := &models.Expense{Label: label, Unit: unit, Quantity: quantity, UnitPrice: unitPrice}
	feeReport, err := s.ManagementFeeReport(s.DefaultFeePct(), 0)
	if err != nil {
		return nil, err
	}
	if expense.Total().GreaterThan(feeReport.FeeAvailable) {
		return nil, models.NewBusinessRuleError("insufficient_management_fees", feeReport.FeeAvailable,
			"expense total %s exceeds the available management fees %s", expense.Total(), feeReport.FeeAvailable)
	}

	if date.IsZero() {
		date = time.Now()
	}
	expense.Date = date
	err = s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateExpenseTx(tx, expense); err != nil {
			return err
		}
		return s.linkMovement(tx, walletID, models.SourceExpense, expense.ID, date)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Expense recorded: %s, total %s", label, expense.Total())
	return expense, nil
}

// RecordDonation records a direct gift from someone who is neither member
// nor client.
func (s *Service) RecordDonation(ctx context.Context, amount decimal.Decimal, donorName, label string, walletID int64, date time.Time) (*models.DirectDonation, error) {
	if err := validateContribution(amount, walletID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindWalletTypeByID(walletID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	donation := &models.DirectDonation{Amount: amount, Date: date, Label: label, DonorName: donorName}
	err := s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateDonationTx(tx, donation); err != nil {
			return err
		}
		return s.linkMovement(tx, walletID, models.SourceDonation, donation.ID, date)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Donation of %s recorded from %s", amount, donorName)
	return donation, nil
}
