package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
)

// FindSavingsSubscription retrieves a savings subscription with its member
// and account type.
func (r *Repository) FindSavingsSubscription(id int64) (*models.SavingsSubscription, error) {
	s := &models.SavingsSubscription{}
	query := `
		SELECT id, member_id, account_type, subscription_date
		FROM coopec.savings_subscriptions
		WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.MemberID, &s.AccountType, &s.SubscriptionDate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("savings subscription %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find savings subscription: %w", err)
	}
	return s, nil
}

// FindShareSubscription retrieves a share subscription
func (r *Repository) FindShareSubscription(id int64) (*models.ShareSubscription, error) {
	s := &models.ShareSubscription{}
	query := `SELECT id, member_id FROM coopec.share_subscriptions WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.MemberID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("share subscription %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find share subscription: %w", err)
	}
	return s, nil
}

// SavingsBalance is the current balance of one savings subscription:
// deposits minus withdrawals, recomputed on read.
func (r *Repository) SavingsBalance(subscriptionID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `
		SELECT COALESCE((SELECT SUM(amount) FROM coopec.savings_deposits WHERE subscription_id = $1), 0)
			 - COALESCE((SELECT SUM(amount) FROM coopec.savings_withdrawals WHERE subscription_id = $1), 0)`
	if err := r.db.QueryRow(query, subscriptionID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute savings balance: %w", err)
	}
	return balance, nil
}

// CreateSavingsDepositTx inserts a savings deposit within its transaction
func (r *Repository) CreateSavingsDepositTx(tx *sql.Tx, d *models.SavingsDeposit) error {
	query := `
		INSERT INTO coopec.savings_deposits (subscription_id, amount, month, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, d.SubscriptionID, d.Amount, d.Month, d.Date).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create savings deposit: %w", err)
	}
	return nil
}

// CreateSavingsWithdrawalTx inserts a withdrawal within its transaction
func (r *Repository) CreateSavingsWithdrawalTx(tx *sql.Tx, w *models.SavingsWithdrawal) error {
	query := `
		INSERT INTO coopec.savings_withdrawals (subscription_id, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, w.SubscriptionID, w.Amount, w.Date).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create savings withdrawal: %w", err)
	}
	return nil
}

// CreateSharePaymentTx inserts a share-capital payment within its transaction
func (r *Repository) CreateSharePaymentTx(tx *sql.Tx, p *models.SharePayment) error {
	query := `
		INSERT INTO coopec.share_payments (subscription_id, amount, month, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, p.SubscriptionID, p.Amount, p.Month, p.Date).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create share payment: %w", err)
	}
	return nil
}

// CreateMembershipFeeTx inserts a membership fee within its transaction
func (r *Repository) CreateMembershipFeeTx(tx *sql.Tx, f *models.MembershipFee) error {
	query := `
		INSERT INTO coopec.membership_fees (member_id, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, f.MemberID, f.Amount, f.Date).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create membership fee: %w", err)
	}
	return nil
}

// CreateExpenseTx inserts an expense within its transaction
func (r *Repository) CreateExpenseTx(tx *sql.Tx, e *models.Expense) error {
	query := `
		INSERT INTO coopec.expenses (label, unit, quantity, unit_price, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, e.Label, e.Unit, e.Quantity, e.UnitPrice, e.Date).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// CreateDonationTx inserts a direct donation within its transaction
func (r *Repository) CreateDonationTx(tx *sql.Tx, d *models.DirectDonation) error {
	query := `
		INSERT INTO coopec.direct_donations (amount, date, label, donor_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, d.Amount, d.Date, d.Label, d.DonorName).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

// ListSharePaymentRows loads every share payment joined with its member,
// for the allocation engine's in-memory scan.
func (r *Repository) ListSharePaymentRows() ([]models.SharePaymentRow, error) {
	rows, err := r.db.Query(`
		SELECT s.member_id, p.amount, p.month, p.date
		FROM coopec.share_payments p
		JOIN coopec.share_subscriptions s ON s.id = p.subscription_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list share payments: %w", err)
	}
	defer rows.Close()

	var result []models.SharePaymentRow
	for rows.Next() {
		var row models.SharePaymentRow
		if err := rows.Scan(&row.MemberID, &row.Amount, &row.Month, &row.Date); err != nil {
			return nil, fmt.Errorf("failed to scan share payment: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListSavingsDepositRows loads every savings deposit joined with its
// member, account type and subscription date.
func (r *Repository) ListSavingsDepositRows() ([]models.SavingsDepositRow, error) {
	rows, err := r.db.Query(`
		SELECT s.member_id, s.account_type, d.amount, d.month, s.subscription_date
		FROM coopec.savings_deposits d
		JOIN coopec.savings_subscriptions s ON s.id = d.subscription_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings deposits: %w", err)
	}
	defer rows.Close()

	var result []models.SavingsDepositRow
	for rows.Next() {
		var row models.SavingsDepositRow
		if err := rows.Scan(&row.MemberID, &row.AccountType, &row.Amount, &row.Month, &row.SubscriptionDate); err != nil {
			return nil, fmt.Errorf("failed to scan savings deposit: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListSavingsWithdrawalRows loads every withdrawal joined with its member
// and account type.
func (r *Repository) ListSavingsWithdrawalRows() ([]models.SavingsWithdrawalRow, error) {
	rows, err := r.db.Query(`
		SELECT s.member_id, s.account_type, w.amount, w.date
		FROM coopec.savings_withdrawals w
		JOIN coopec.savings_subscriptions s ON s.id = w.subscription_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings withdrawals: %w", err)
	}
	defer rows.Close()

	var result []models.SavingsWithdrawalRow
	for rows.Next() {
		var row models.SavingsWithdrawalRow
		if err := rows.Scan(&row.MemberID, &row.AccountType, &row.Amount, &row.Date); err != nil {
			return nil, fmt.Errorf("failed to scan savings withdrawal: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListMembershipFees loads membership fees, optionally year filtered.
func (r *Repository) ListMembershipFees(year int) ([]models.MembershipFee, error) {
	query := `
		SELECT id, member_id, amount, date, created_at, updated_at
		FROM coopec.membership_fees`
	var args []any
	if year != 0 {
		query += ` WHERE EXTRACT(YEAR FROM date) = $1`
		args = append(args, year)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list membership fees: %w", err)
	}
	defer rows.Close()

	var fees []models.MembershipFee
	for rows.Next() {
		var f models.MembershipFee
		if err := rows.Scan(&f.ID, &f.MemberID, &f.Amount, &f.Date, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership fee: %w", err)
		}
		fees = append(fees, f)
	}
	return fees, rows.Err()
}

// ListExpenses loads every expense.
func (r *Repository) ListExpenses() ([]models.Expense, error) {
	rows, err := r.db.Query(`
		SELECT id, label, unit, quantity, unit_price, date, created_at, updated_at
		FROM coopec.expenses
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Label, &e.Unit, &e.Quantity, &e.UnitPrice, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
