package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound occurs when a transaction identifier does not resolve to a record.
var ErrNotFound = errors.New("transaction not found")

// Repository persists transaction records.
type Repository interface {
	Create(ctx context.Context, tx Transaction) error
	Get(ctx context.Context, id string) (Transaction, error)
	Update(ctx context.Context, tx Transaction) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error)
	ListByWallet(ctx context.Context, walletID string) ([]Transaction, error)
	DeleteByWallet(ctx context.Context, walletID string) error
}

// PostgresRepository stores transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a transaction record.
func (r *PostgresRepository) Create(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	walletID, err := uuid.Parse(tx.WalletID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(tx.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions (id, owner_id, wallet_id, type, amount, description, category, date, receipt, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		txID, ownerID, walletID, string(tx.Type), tx.Amount, tx.Description, tx.Category, tx.Date.UTC(), tx.Receipt, tx.CreatedAt.UTC())
	return err
}

// Get fetches a transaction by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Transaction, error) {
	txUUID, err := uuid.Parse(id)
	if err != nil {
		return Transaction{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, wallet_id, type, amount, description, category, date, receipt, created_at
        FROM transactions WHERE id = $1`, txUUID)
	return scanTransaction(row)
}

// Update replaces all mutable fields of an existing record, keeping its identifier.
func (r *PostgresRepository) Update(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return ErrNotFound
	}
	walletID, err := uuid.Parse(tx.WalletID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET wallet_id = $1, type = $2, amount = $3, description = $4, category = $5, date = $6, receipt = $7
        WHERE id = $8`,
		walletID, string(tx.Type), tx.Amount, tx.Description, tx.Category, tx.Date.UTC(), tx.Receipt, txID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a transaction record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	txUUID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, txUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns the owner's transactions, most recent date first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, wallet_id, type, amount, description, category, date, receipt, created_at
        FROM transactions WHERE owner_id = $1 ORDER BY date DESC`, ownerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByWallet returns the wallet's transactions, most recent date first.
func (r *PostgresRepository) ListByWallet(ctx context.Context, walletID string) ([]Transaction, error) {
	walletUUID, err := uuid.Parse(walletID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, wallet_id, type, amount, description, category, date, receipt, created_at
        FROM transactions WHERE wallet_id = $1 ORDER BY date DESC`, walletUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// DeleteByWallet removes every transaction referencing the wallet.
func (r *PostgresRepository) DeleteByWallet(ctx context.Context, walletID string) error {
	walletUUID, err := uuid.Parse(walletID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM transactions WHERE wallet_id = $1`, walletUUID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		tx        Transaction
		idVal     uuid.UUID
		ownerID   uuid.UUID
		walletID  uuid.UUID
		kind      string
		date      time.Time
		createdAt time.Time
	)
	if err := row.Scan(&idVal, &ownerID, &walletID, &kind, &tx.Amount, &tx.Description, &tx.Category, &date, &tx.Receipt, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	tx.ID = idVal.String()
	tx.OwnerID = ownerID.String()
	tx.WalletID = walletID.String()
	tx.Type = Type(kind)
	tx.Date = date.UTC()
	tx.CreatedAt = createdAt.UTC()
	return tx, nil
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	var txs []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
