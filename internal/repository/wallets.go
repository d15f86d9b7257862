package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
)

// CreateWalletType creates a new wallet (cash pool) in the database
func (r *Repository) CreateWalletType(w *models.WalletType) error {
	query := `
		INSERT INTO coopec.wallet_types (name, description, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, w.Name, w.Description).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wallet type: %w", err)
	}
	return nil
}

// FindWalletTypeByID retrieves a wallet by id
func (r *Repository) FindWalletTypeByID(id int64) (*models.WalletType, error) {
	w := &models.WalletType{}
	query := `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM coopec.wallet_types
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&w.ID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wallet type %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet type: %w", err)
	}
	return w, nil
}

// ListWalletTypes retrieves all wallets ordered by name
func (r *Repository) ListWalletTypes() ([]models.WalletType, error) {
	rows, err := r.db.Query(`
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM coopec.wallet_types
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet types: %w", err)
	}
	defer rows.Close()

	var wallets []models.WalletType
	for rows.Next() {
		var w models.WalletType
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet type: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// FindOrCreateMovementTx links a source record to a wallet, converging on
// the existing row when the same (wallet, source) pair was already linked.
// Two callers racing on the same natural key both see success; "already
// exists" is not a conflict here.
func (r *Repository) FindOrCreateMovementTx(tx *sql.Tx, m *models.WalletMovement) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}

	lookup := `
		SELECT id, date, created_at, updated_at
		FROM coopec.wallet_movements
		WHERE wallet_id = $1 AND source_kind = $2 AND source_id = $3`
	err := tx.QueryRow(lookup, m.WalletID, m.Source.Kind, m.Source.ID).
		Scan(&m.ID, &m.Date, &m.CreatedAt, &m.UpdatedAt)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to look up wallet movement: %w", err)
	}

	insert := `
		INSERT INTO coopec.wallet_movements (wallet_id, source_kind, source_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(insert, m.WalletID, m.Source.Kind, m.Source.ID, m.Date).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create wallet movement: %w", err)
	}
	return true, nil
}

// movementRef is a movement row before its source amount is resolved.
type movementRef struct {
	kind models.SourceKind
	id   int64
}

// ListMovementLines loads every movement of a wallet, optionally date
// filtered, and resolves each one to the unsigned amount of its source.
// Amounts that are derived (expense totals, effective disbursements) are
// recomputed here rather than read from storage.
func (r *Repository) ListMovementLines(walletID int64, from, to *time.Time) ([]models.MovementLine, error) {
	query := `
		SELECT source_kind, source_id
		FROM coopec.wallet_movements
		WHERE wallet_id = $1`
	args := []any{walletID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet movements: %w", err)
	}
	defer rows.Close()

	byKind := make(map[models.SourceKind][]int64)
	var refs []movementRef
	for rows.Next() {
		var ref movementRef
		if err := rows.Scan(&ref.kind, &ref.id); err != nil {
			return nil, fmt.Errorf("failed to scan wallet movement: %w", err)
		}
		refs = append(refs, ref)
		byKind[ref.kind] = append(byKind[ref.kind], ref.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	amounts := make(map[models.SourceKind]map[int64]decimal.Decimal, len(byKind))
	for kind, ids := range byKind {
		resolved, err := r.resolveSourceAmounts(kind, ids)
		if err != nil {
			return nil, err
		}
		amounts[kind] = resolved
	}

	lines := make([]models.MovementLine, 0, len(refs))
	for _, ref := range refs {
		amount, ok := amounts[ref.kind][ref.id]
		if !ok {
			return nil, fmt.Errorf("movement source %s/%d not found", ref.kind, ref.id)
		}
		lines = append(lines, models.MovementLine{Kind: ref.kind, Amount: amount})
	}
	return lines, nil
}

// resolveSourceAmounts fetches the unsigned amounts of source records of a
// single kind.
func (r *Repository) resolveSourceAmounts(kind models.SourceKind, ids []int64) (map[int64]decimal.Decimal, error) {
	switch kind {
	case models.SourceRepayment:
		return r.sourceAmounts(`SELECT id, amount FROM coopec.repayments WHERE id = ANY($1)`, ids)
	case models.SourceSavingsDeposit:
		return r.sourceAmounts(`SELECT id, amount FROM coopec.savings_deposits WHERE id = ANY($1)`, ids)
	case models.SourceSharePayment:
		return r.sourceAmounts(`SELECT id, amount FROM coopec.share_payments WHERE id = ANY($1)`, ids)
	case models.SourceMembershipFee:
		return r.sourceAmounts(`SELECT id, amount FROM coopec.membership_fees WHERE id = ANY($1)`, ids)
	case models.SourceWithdrawal:
		return r.sourceAmounts(`SELECT id, amount FROM coopec.savings_withdrawals WHERE id = ANY($1)`, ids)
	case models.SourceDonation:
		return r.sourceAmounts(`SELECT id, amount FROM coopec.direct_donations WHERE id = ANY($1)`, ids)
	case models.SourceExpense:
		return r.expenseAmounts(ids)
	case models.SourceCredit:
		return r.creditAmounts(ids)
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

func (r *Repository) sourceAmounts(query string, ids []int64) (map[int64]decimal.Decimal, error) {
	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source amounts: %w", err)
	}
	defer rows.Close()

	amounts := make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var id int64
		var amount decimal.Decimal
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan source amount: %w", err)
		}
		amounts[id] = amount
	}
	return amounts, rows.Err()
}

func (r *Repository) expenseAmounts(ids []int64) (map[int64]decimal.Decimal, error) {
	rows, err := r.db.Query(`SELECT id, quantity, unit_price FROM coopec.expenses WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve expense amounts: %w", err)
	}
	defer rows.Close()

	amounts := make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Quantity, &e.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		amounts[e.ID] = e.Total()
	}
	return amounts, rows.Err()
}

func (r *Repository) creditAmounts(ids []int64) (map[int64]decimal.Decimal, error) {
	rows, err := r.db.Query(`
		SELECT id, principal, rate_pct, interest_method
		FROM coopec.credits WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credit amounts: %w", err)
	}
	defer rows.Close()

	amounts := make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var c models.Credit
		if err := rows.Scan(&c.ID, &c.Principal, &c.RatePct, &c.Method); err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		amounts[c.ID] = c.EffectiveDisbursed()
	}
	return amounts, rows.Err()
}
