package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bmukendi/coopec-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn inside a single transaction. Every mutation path of the
// ledger goes through here: validation, state change and movement linking
// commit or roll back together.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateUser creates a new operator account in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO coopec.users (username, email, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.Role, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves an operator account by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, role, password_hash, created_at
		FROM coopec.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindMemberRef retrieves the report label of a member
func (r *Repository) FindMemberRef(id int64) (*models.MemberRef, error) {
	ref := &models.MemberRef{}
	query := `SELECT id, number, name FROM coopec.members WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&ref.ID, &ref.Number, &ref.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return ref, nil
}

// FindClientRef retrieves the report label of a client
func (r *Repository) FindClientRef(id int64) (*models.ClientRef, error) {
	ref := &models.ClientRef{}
	query := `SELECT id, number, name FROM coopec.clients WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&ref.ID, &ref.Number, &ref.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return ref, nil
}

// ListMemberRefs retrieves the report labels of all members
func (r *Repository) ListMemberRefs() ([]models.MemberRef, error) {
	rows, err := r.db.Query(`SELECT id, number, name FROM coopec.members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var refs []models.MemberRef
	for rows.Next() {
		var ref models.MemberRef
		if err := rows.Scan(&ref.ID, &ref.Number, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// BorrowerContact is the notification address of a member or client.
type BorrowerContact struct {
	Name  string
	Email string
}

// FindMemberContact retrieves a member's name and email for notifications
func (r *Repository) FindMemberContact(id int64) (*BorrowerContact, error) {
	c := &BorrowerContact{}
	query := `SELECT name, COALESCE(email, '') FROM coopec.members WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&c.Name, &c.Email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member contact: %w", err)
	}
	return c, nil
}

// FindClientContact retrieves a client's name and email for notifications
func (r *Repository) FindClientContact(id int64) (*BorrowerContact, error) {
	c := &BorrowerContact{}
	query := `SELECT name, COALESCE(email, '') FROM coopec.clients WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&c.Name, &c.Email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client contact: %w", err)
	}
	return c, nil
}
