package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/spendwise/internal/media"
)

// iconFolder is the CDN folder wallet icons are uploaded under.
const iconFolder = "wallets"

// ErrInvalidDraft occurs when a wallet draft is missing required fields.
var ErrInvalidDraft = fmt.Errorf("invalid wallet data")

// Service exposes the wallet ledger store: record lifecycle plus balance
// adjustments. It never decides whether an adjustment is allowed; that is the
// transaction reconciler's job.
type Service struct {
	repo     Repository
	uploader media.Uploader
}

// NewService builds a wallet service instance.
func NewService(repo Repository, uploader media.Uploader) *Service {
	if uploader == nil {
		uploader = media.StaticUploader{}
	}
	return &Service{repo: repo, uploader: uploader}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	OwnerID string
	Name    string
	Icon    string
}

// Create provisions a wallet with zeroed balances.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	if input.Name == "" {
		return Wallet{}, fmt.Errorf("%w: name is required", ErrInvalidDraft)
	}
	if input.Icon == "" {
		return Wallet{}, fmt.Errorf("%w: icon is required", ErrInvalidDraft)
	}
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Wallet{}, fmt.Errorf("%w: invalid owner id", ErrInvalidDraft)
	}

	icon, err := s.uploader.Upload(ctx, input.Icon, iconFolder)
	if err != nil {
		return Wallet{}, err
	}

	w := Wallet{
		ID:        uuid.New().String(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return Wallet{}, err
	}

	return w, nil
}

// Get retrieves a wallet by identifier.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	return s.repo.Get(ctx, id)
}

// List returns the owner's wallets.
func (s *Service) List(ctx context.Context, ownerID string) ([]Wallet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// UpdateInput captures an edit to a wallet's non-monetary fields.
type UpdateInput struct {
	WalletID string
	OwnerID  string
	Name     string
	Icon     string
}

// Update replaces the wallet's name and icon. Balances are never edited this
// way; the same identifier is preserved.
func (s *Service) Update(ctx context.Context, input UpdateInput) (Wallet, error) {
	if input.Name == "" {
		return Wallet{}, fmt.Errorf("%w: name is required", ErrInvalidDraft)
	}

	w, err := s.repo.Get(ctx, input.WalletID)
	if err != nil {
		return Wallet{}, err
	}
	if input.OwnerID != "" && w.OwnerID != input.OwnerID {
		return Wallet{}, ErrNotOwner
	}

	icon := w.Icon
	if input.Icon != "" {
		icon, err = s.uploader.Upload(ctx, input.Icon, iconFolder)
		if err != nil {
			return Wallet{}, err
		}
	}

	if err := s.repo.UpdateDetails(ctx, w.ID, input.Name, icon); err != nil {
		return Wallet{}, err
	}

	w.Name = input.Name
	w.Icon = icon
	return w, nil
}

// Adjust applies a signed balance delta plus a delta on one cumulative total.
func (s *Service) Adjust(ctx context.Context, walletID string, amountDelta int64, field TotalField, totalDelta int64) error {
	return s.repo.Adjust(ctx, walletID, amountDelta, field, totalDelta)
}

// Delete removes the wallet record after an ownership check. Transactions
// referencing the wallet are removed by the reconciler before this is called.
func (s *Service) Delete(ctx context.Context, walletID, ownerID string) error {
	w, err := s.repo.Get(ctx, walletID)
	if err != nil {
		return err
	}
	if ownerID != "" && w.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, walletID)
}
