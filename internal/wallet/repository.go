package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound occurs when a wallet identifier does not resolve to a record.
	ErrNotFound = errors.New("wallet not found")

	// ErrInsufficientFunds occurs when an expense would drive a wallet's
	// balance negative, or when removing an income would do the same.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotOwner indicates the caller does not own the wallet.
	ErrNotOwner = errors.New("not owner of wallet")
)

// Repository persists wallet records and applies balance adjustments.
type Repository interface {
	Create(ctx context.Context, w Wallet) error
	Get(ctx context.Context, id string) (Wallet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Wallet, error)
	UpdateDetails(ctx context.Context, id, name, icon string) error
	// Adjust adds amountDelta to the wallet's balance and totalDelta to the
	// selected cumulative total in a single statement.
	Adjust(ctx context.Context, id string, amountDelta int64, field TotalField, totalDelta int64) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(w.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, name, icon, amount, total_income, total_expenses, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		walletID, ownerID, w.Name, w.Icon, w.Amount, w.TotalIncome, w.TotalExpenses, w.CreatedAt.UTC())
	return err
}

// Get fetches a wallet by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Wallet, error) {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, name, icon, amount, total_income, total_expenses, created_at
        FROM wallets WHERE id = $1`, walletUUID)
	return scanWallet(row)
}

// ListByOwner returns all wallets belonging to the owner, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Wallet, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, name, icon, amount, total_income, total_expenses, created_at
        FROM wallets WHERE owner_id = $1 ORDER BY created_at DESC`, ownerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// UpdateDetails replaces the wallet's name and icon, leaving balances untouched.
func (r *PostgresRepository) UpdateDetails(ctx context.Context, id, name, icon string) error {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE wallets SET name = $1, icon = $2 WHERE id = $3`, name, icon, walletUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Adjust applies both deltas in one additive UPDATE so concurrent adjustments
// against the same wallet cannot lose each other's writes.
func (r *PostgresRepository) Adjust(ctx context.Context, id string, amountDelta int64, field TotalField, totalDelta int64) error {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	var query string
	switch field {
	case TotalIncomeField:
		query = `UPDATE wallets SET amount = amount + $1, total_income = total_income + $2 WHERE id = $3`
	case TotalExpensesField:
		query = `UPDATE wallets SET amount = amount + $1, total_expenses = total_expenses + $2 WHERE id = $3`
	default:
		return fmt.Errorf("unknown total field %q", field)
	}

	cmd, err := r.db.Exec(ctx, query, amountDelta, totalDelta, walletUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the wallet record. It does not touch transactions; the
// reconciler removes those first.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, walletUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (Wallet, error) {
	var (
		w         Wallet
		idVal     uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&idVal, &ownerID, &w.Name, &w.Icon, &w.Amount, &w.TotalIncome, &w.TotalExpenses, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	w.ID = idVal.String()
	w.OwnerID = ownerID.String()
	w.CreatedAt = createdAt.UTC()
	return w, nil
}
