package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/spendwise/internal/media"
	"github.com/spendwise/spendwise/internal/notification"
	"github.com/spendwise/spendwise/internal/wallet"
)

// receiptFolder is the CDN folder receipt images are uploaded under.
const receiptFolder = "transactions"

var (
	// ErrInvalidInput occurs when a transaction write is missing or has
	// malformed required fields. Nothing is persisted in that case.
	ErrInvalidInput = errors.New("invalid transaction data")

	// ErrNotOwner indicates the caller does not own the transaction.
	ErrNotOwner = errors.New("not owner of transaction")
)

// Service is the transaction reconciler. It keeps each wallet's amount,
// totalIncome and totalExpenses consistent with the net effect of the
// transactions recorded against it, across creates, edits (including moves to
// another wallet) and deletes.
type Service struct {
	repo     Repository
	wallets  *wallet.Service
	uploader media.Uploader
	notifier notification.Notifier
}

// NewService constructs a reconciler over the given wallet ledger store.
func NewService(repo Repository, wallets *wallet.Service, uploader media.Uploader, notifier notification.Notifier) *Service {
	if uploader == nil {
		uploader = media.StaticUploader{}
	}
	return &Service{repo: repo, wallets: wallets, uploader: uploader, notifier: notifier}
}

// SaveInput captures a desired transaction state. An empty ID means create;
// a non-empty ID edits the existing record.
type SaveInput struct {
	ID          string
	OwnerID     string
	WalletID    string
	Type        Type
	Amount      int64
	Description string
	Category    string
	Date        time.Time
	Receipt     string
}

// Save creates or updates a transaction, adjusting wallet balances first so
// the record is only written once every wallet mutation has succeeded.
func (s *Service) Save(ctx context.Context, input SaveInput) (Transaction, error) {
	if err := validate(input); err != nil {
		return Transaction{}, err
	}

	// Upload the receipt before touching any wallet so an upload failure
	// leaves zero mutation behind.
	receipt := input.Receipt
	if receipt != "" && !media.IsRemote(receipt) {
		url, err := s.uploader.Upload(ctx, receipt, receiptFolder)
		if err != nil {
			return Transaction{}, err
		}
		receipt = url
	}

	var saved Transaction
	var err error
	if input.ID == "" {
		saved, err = s.create(ctx, input, receipt)
	} else {
		saved, err = s.update(ctx, input, receipt)
	}
	if err != nil {
		return Transaction{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransactionRecorded,
			Destination: saved.OwnerID,
			Body:        fmt.Sprintf("%s of %d recorded on wallet %s", saved.Type, saved.Amount, saved.WalletID),
		})
	}

	return saved, nil
}

func (s *Service) create(ctx context.Context, input SaveInput, receipt string) (Transaction, error) {
	if err := s.applyNewEffect(ctx, input.WalletID, input.OwnerID, input.Amount, input.Type); err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:          uuid.New().String(),
		OwnerID:     input.OwnerID,
		WalletID:    input.WalletID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Date:        input.Date.UTC(),
		Receipt:     receipt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (s *Service) update(ctx context.Context, input SaveInput, receipt string) (Transaction, error) {
	old, err := s.repo.Get(ctx, input.ID)
	if err != nil {
		return Transaction{}, err
	}
	if input.OwnerID != "" && old.OwnerID != input.OwnerID {
		return Transaction{}, ErrNotOwner
	}

	shouldRevert := old.Type != input.Type || old.Amount != input.Amount || old.WalletID != input.WalletID
	if shouldRevert {
		if err := s.revertAndReapply(ctx, old, input.OwnerID, input.Amount, input.Type, input.WalletID); err != nil {
			return Transaction{}, err
		}
	}

	updated := old
	updated.WalletID = input.WalletID
	updated.Type = input.Type
	updated.Amount = input.Amount
	updated.Description = input.Description
	updated.Category = input.Category
	updated.Date = input.Date.UTC()
	if receipt != "" {
		updated.Receipt = receipt
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Transaction{}, err
	}
	return updated, nil
}

// applyNewEffect validates ownership and funds, then posts the signed effect
// of a brand-new transaction onto its wallet.
func (s *Service) applyNewEffect(ctx context.Context, walletID, ownerID string, amount int64, kind Type) error {
	w, err := s.wallets.Get(ctx, walletID)
	if err != nil {
		return err
	}
	if ownerID != "" && w.OwnerID != ownerID {
		return wallet.ErrNotOwner
	}

	if kind == TypeExpense && w.Amount-amount < 0 {
		return wallet.ErrInsufficientFunds
	}

	return s.wallets.Adjust(ctx, walletID, signedEffect(kind, amount), totalField(kind), amount)
}

// revertAndReapply undoes the old transaction's effect on its original wallet
// and applies the new effect to the target wallet. The target is re-read after
// the reversal is applied: when old and new wallet are the same record, the
// reapplication must start from the reverted state, not stale numbers.
func (s *Service) revertAndReapply(ctx context.Context, old Transaction, ownerID string, newAmount int64, newType Type, newWalletID string) error {
	original, err := s.wallets.Get(ctx, old.WalletID)
	if err != nil {
		return err
	}

	revertDelta := -signedEffect(old.Type, old.Amount)
	revertedBalance := original.Amount + revertDelta

	// Resolve the target before any mutation so a missing or foreign wallet
	// aborts cleanly.
	target := original
	if newWalletID != old.WalletID {
		target, err = s.wallets.Get(ctx, newWalletID)
		if err != nil {
			return err
		}
	}
	if ownerID != "" && target.OwnerID != ownerID {
		return wallet.ErrNotOwner
	}

	if newType == TypeExpense {
		// One consistent baseline: the balance the target wallet holds
		// immediately before reapplication.
		available := target.Amount
		if newWalletID == old.WalletID {
			available = revertedBalance
		}
		if available < newAmount {
			return wallet.ErrInsufficientFunds
		}
	}

	if err := s.wallets.Adjust(ctx, old.WalletID, revertDelta, totalField(old.Type), -old.Amount); err != nil {
		return err
	}

	// Adjust is additive at the store, so a same-wallet reapplication lands on
	// the reverted balance without a re-read.
	return s.wallets.Adjust(ctx, newWalletID, signedEffect(newType, newAmount), totalField(newType), newAmount)
}

// Delete reverts the transaction's wallet effect, then removes the record.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != "" && tx.OwnerID != ownerID {
		return ErrNotOwner
	}

	w, err := s.wallets.Get(ctx, tx.WalletID)
	if err != nil {
		return err
	}

	revertDelta := -signedEffect(tx.Type, tx.Amount)
	// Removing an income is the only reversal that lowers the balance; refuse
	// it when the wallet would go negative.
	if w.Amount+revertDelta < 0 {
		return wallet.ErrInsufficientFunds
	}

	if err := s.wallets.Adjust(ctx, tx.WalletID, revertDelta, totalField(tx.Type), -tx.Amount); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransactionDeleted,
			Destination: tx.OwnerID,
			Body:        fmt.Sprintf("%s of %d reverted on wallet %s", tx.Type, tx.Amount, tx.WalletID),
		})
	}

	return nil
}

// RemoveWallet deletes every transaction recorded against the wallet, then
// the wallet itself.
func (s *Service) RemoveWallet(ctx context.Context, walletID, ownerID string) error {
	w, err := s.wallets.Get(ctx, walletID)
	if err != nil {
		return err
	}
	if ownerID != "" && w.OwnerID != ownerID {
		return wallet.ErrNotOwner
	}

	if err := s.repo.DeleteByWallet(ctx, walletID); err != nil {
		return err
	}
	if err := s.wallets.Delete(ctx, walletID, ownerID); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWalletRemoved,
			Destination: w.OwnerID,
			Body:        fmt.Sprintf("wallet %s removed with its transactions", walletID),
		})
	}

	return nil
}

// Get fetches a transaction by identifier.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

// ListByOwner returns the owner's transactions.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListByWallet returns the wallet's transactions.
func (s *Service) ListByWallet(ctx context.Context, walletID string) ([]Transaction, error) {
	return s.repo.ListByWallet(ctx, walletID)
}

func validate(input SaveInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.WalletID == "" {
		return fmt.Errorf("%w: wallet id is required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if input.Type == TypeExpense && input.Category == "" {
		return fmt.Errorf("%w: category is required for expenses", ErrInvalidInput)
	}
	return nil
}

// signedEffect is the wallet balance delta a transaction applies.
func signedEffect(kind Type, amount int64) int64 {
	if kind == TypeIncome {
		return amount
	}
	return -amount
}

func totalField(kind Type) wallet.TotalField {
	if kind == TypeIncome {
		return wallet.TotalIncomeField
	}
	return wallet.TotalExpensesField
}
