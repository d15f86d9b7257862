package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
)

const creditColumns = `
	id, member_id, client_id, principal, rate_pct, duration, duration_unit,
	interest_method, grant_date, maturity_date, remaining_balance, status,
	score, final_settlement_date, created_at, updated_at`

// CreateCreditTx inserts a new credit within the grant transaction
func (r *Repository) CreateCreditTx(tx *sql.Tx, c *models.Credit) error {
	query := `
		INSERT INTO coopec.credits (
			member_id, client_id, principal, rate_pct, duration, duration_unit,
			interest_method, grant_date, maturity_date, remaining_balance, status,
			score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query,
		c.MemberID, c.ClientID, c.Principal, c.RatePct, c.Duration, c.DurationUnit,
		c.Method, c.GrantDate, c.MaturityDate, c.RemainingBalance, c.Status, c.Score).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create credit: %w", err)
	}
	return nil
}

// UpdateCreditStateTx persists the mutable lifecycle fields of a credit
func (r *Repository) UpdateCreditStateTx(tx *sql.Tx, c *models.Credit) error {
	query := `
		UPDATE coopec.credits
		SET remaining_balance = $2, status = $3, score = $4,
			final_settlement_date = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	if _, err := tx.Exec(query, c.ID, c.RemainingBalance, c.Status, c.Score, c.FinalSettlementDate); err != nil {
		return fmt.Errorf("failed to update credit %d: %w", c.ID, err)
	}
	return nil
}

func scanCredit(row interface{ Scan(...any) error }) (*models.Credit, error) {
	c := &models.Credit{}
	var maturity, settled sql.NullTime
	err := row.Scan(&c.ID, &c.MemberID, &c.ClientID, &c.Principal, &c.RatePct,
		&c.Duration, &c.DurationUnit, &c.Method, &c.GrantDate, &maturity,
		&c.RemainingBalance, &c.Status, &c.Score, &settled, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if maturity.Valid {
		c.MaturityDate = maturity.Time
	}
	if settled.Valid {
		t := settled.Time
		c.FinalSettlementDate = &t
	}
	return c, nil
}

// FindCreditByID retrieves a credit by id
func (r *Repository) FindCreditByID(id int64) (*models.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM coopec.credits WHERE id = $1`
	c, err := scanCredit(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("credit %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credit: %w", err)
	}
	return c, nil
}

func (r *Repository) listCredits(query string, args ...any) ([]models.Credit, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer rows.Close()

	var credits []models.Credit
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, *c)
	}
	return credits, rows.Err()
}

// ListCredits retrieves all credits, most recent grants first
func (r *Repository) ListCredits() ([]models.Credit, error) {
	return r.listCredits(`SELECT ` + creditColumns + ` FROM coopec.credits ORDER BY grant_date DESC, id DESC`)
}

// ListActiveCredits retrieves credits still drawing on the wallets
func (r *Repository) ListActiveCredits() ([]models.Credit, error) {
	return r.listCredits(`SELECT `+creditColumns+` FROM coopec.credits WHERE status = ANY($1)`,
		pq.Array([]string{string(models.StatusOngoing), string(models.StatusOverdue)}))
}

// ListCreditsByMember retrieves all credits of one member
func (r *Repository) ListCreditsByMember(memberID int64) ([]models.Credit, error) {
	return r.listCredits(`SELECT `+creditColumns+` FROM coopec.credits WHERE member_id = $1`, memberID)
}

// ListCreditsByClient retrieves all credits of one client
func (r *Repository) ListCreditsByClient(clientID int64) ([]models.Credit, error) {
	return r.listCredits(`SELECT `+creditColumns+` FROM coopec.credits WHERE client_id = $1`, clientID)
}

// CreateRepaymentTx inserts a repayment within the repay transaction
func (r *Repository) CreateRepaymentTx(tx *sql.Tx, p *models.Repayment) error {
	query := `
		INSERT INTO coopec.repayments (credit_id, amount, settlement_date, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, p.CreditID, p.Amount, p.SettlementDate).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create repayment: %w", err)
	}
	return nil
}

// SumRepayments totals the repayments already recorded against a credit
func (r *Repository) SumRepayments(creditID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM coopec.repayments WHERE credit_id = $1`
	if err := r.db.QueryRow(query, creditID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum repayments: %w", err)
	}
	return total, nil
}

// FindCreditWalletID returns the wallet the credit was disbursed from,
// via its grant movement.
func (r *Repository) FindCreditWalletID(creditID int64) (int64, error) {
	var walletID int64
	query := `
		SELECT wallet_id FROM coopec.wallet_movements
		WHERE source_kind = $1 AND source_id = $2`
	err := r.db.QueryRow(query, models.SourceCredit, creditID).Scan(&walletID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("credit %d has no grant movement", creditID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find credit wallet: %w", err)
	}
	return walletID, nil
}
