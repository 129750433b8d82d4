package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/spendwise/internal/media"
	"github.com/spendwise/spendwise/internal/wallet"
)

const testIcon = "https://cdn.example.com/icons/cash.png"

type testEnv struct {
	svc        *Service
	wallets    *wallet.Service
	walletRepo wallet.Repository
	ownerID    string
}

func newTestEnv(t *testing.T) (*testEnv, context.Context) {
	t.Helper()
	walletRepo := wallet.NewMemoryRepository()
	walletSvc := wallet.NewService(walletRepo, media.StaticUploader{})
	svc := NewService(NewMemoryRepository(), walletSvc, media.StaticUploader{}, nil)
	return &testEnv{
		svc:        svc,
		wallets:    walletSvc,
		walletRepo: walletRepo,
		ownerID:    uuid.NewString(),
	}, context.Background()
}

func (e *testEnv) newWallet(t *testing.T, ctx context.Context, name string) wallet.Wallet {
	t.Helper()
	w, err := e.wallets.Create(ctx, wallet.CreateInput{OwnerID: e.ownerID, Name: name, Icon: testIcon})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	return w
}

func (e *testEnv) mustWallet(t *testing.T, ctx context.Context, id string) wallet.Wallet {
	t.Helper()
	w, err := e.wallets.Get(ctx, id)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	return w
}

func (e *testEnv) save(t *testing.T, ctx context.Context, input SaveInput) Transaction {
	t.Helper()
	if input.OwnerID == "" {
		input.OwnerID = e.ownerID
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	tx, err := e.svc.Save(ctx, input)
	if err != nil {
		t.Fatalf("save transaction: %v", err)
	}
	return tx
}

func expectBalances(t *testing.T, w wallet.Wallet, amount, totalIncome, totalExpenses int64) {
	t.Helper()
	if w.Amount != amount || w.TotalIncome != totalIncome || w.TotalExpenses != totalExpenses {
		t.Fatalf("wallet %s: amount=%d income=%d expenses=%d, want %d/%d/%d",
			w.ID, w.Amount, w.TotalIncome, w.TotalExpenses, amount, totalIncome, totalExpenses)
	}
}

func TestCreateUpdatesWalletTotals(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")

	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 10_000})
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 3_000, Category: "groceries"})
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 1_500, Category: "dining"})

	expectBalances(t, env.mustWallet(t, ctx, w.ID), 5_500, 10_000, 4_500)
}

func TestCreateExpenseInsufficientFunds(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 2_000})

	_, err := env.svc.Save(ctx, SaveInput{
		OwnerID:  env.ownerID,
		WalletID: w.ID,
		Type:     TypeExpense,
		Amount:   2_001,
		Category: "rent",
		Date:     time.Now(),
	})
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	expectBalances(t, env.mustWallet(t, ctx, w.ID), 2_000, 2_000, 0)
	txs, _ := env.svc.ListByWallet(ctx, w.ID)
	if len(txs) != 1 {
		t.Fatalf("expected only the seed income to be recorded, got %d transactions", len(txs))
	}
}

func TestSaveValidation(t *testing.T) {
	env, ctx := newTestEnv(t)
	now := time.Now()

	cases := []struct {
		name  string
		input SaveInput
	}{
		{"missing type", SaveInput{WalletID: "w", Amount: 100, Date: now}},
		{"zero amount", SaveInput{WalletID: "w", Type: TypeIncome, Amount: 0, Date: now}},
		{"negative amount", SaveInput{WalletID: "w", Type: TypeIncome, Amount: -50, Date: now}},
		{"missing wallet", SaveInput{Type: TypeIncome, Amount: 100, Date: now}},
		{"missing date", SaveInput{WalletID: "w", Type: TypeIncome, Amount: 100}},
		{"expense without category", SaveInput{WalletID: "w", Type: TypeExpense, Amount: 100, Date: now}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.svc.Save(ctx, tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateAgainstMissingWallet(t *testing.T) {
	env, ctx := newTestEnv(t)
	_, err := env.svc.Save(ctx, SaveInput{
		OwnerID:  env.ownerID,
		WalletID: uuid.NewString(),
		Type:     TypeIncome,
		Amount:   1_000,
		Date:     time.Now(),
	})
	if !errors.Is(err, wallet.ErrNotFound) {
		t.Fatalf("expected wallet not found, got %v", err)
	}
}

// Mirrors the canonical scenario: balance 100.00, expense 30.00 edited to
// 50.00, then deleted.
func TestEditAmountSameWalletThenDelete(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 10_000})

	exp := env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 3_000, Category: "groceries"})
	expectBalances(t, env.mustWallet(t, ctx, w.ID), 7_000, 10_000, 3_000)

	env.save(t, ctx, SaveInput{ID: exp.ID, WalletID: w.ID, Type: TypeExpense, Amount: 5_000, Category: "groceries"})
	expectBalances(t, env.mustWallet(t, ctx, w.ID), 5_000, 10_000, 5_000)

	if err := env.svc.Delete(ctx, exp.ID, env.ownerID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expectBalances(t, env.mustWallet(t, ctx, w.ID), 10_000, 10_000, 0)
}

func TestEditNonMonetaryFieldsSkipsWalletMutation(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 10_000})
	exp := env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 3_000, Category: "groceries"})

	before := env.mustWallet(t, ctx, w.ID)

	updated := env.save(t, ctx, SaveInput{
		ID:          exp.ID,
		WalletID:    w.ID,
		Type:        TypeExpense,
		Amount:      3_000,
		Category:    "dining",
		Description: "team lunch",
	})
	if updated.Description != "team lunch" || updated.Category != "dining" {
		t.Fatalf("non-monetary fields not updated: %+v", updated)
	}

	after := env.mustWallet(t, ctx, w.ID)
	expectBalances(t, after, before.Amount, before.TotalIncome, before.TotalExpenses)
}

func TestMoveExpenseBetweenWallets(t *testing.T) {
	env, ctx := newTestEnv(t)
	w1 := env.newWallet(t, ctx, "Checking")
	w2 := env.newWallet(t, ctx, "Savings")
	env.save(t, ctx, SaveInput{WalletID: w1.ID, Type: TypeIncome, Amount: 10_000})
	env.save(t, ctx, SaveInput{WalletID: w2.ID, Type: TypeIncome, Amount: 5_000})

	exp := env.save(t, ctx, SaveInput{WalletID: w1.ID, Type: TypeExpense, Amount: 2_000, Category: "utilities"})
	expectBalances(t, env.mustWallet(t, ctx, w1.ID), 8_000, 10_000, 2_000)

	moved := env.save(t, ctx, SaveInput{ID: exp.ID, WalletID: w2.ID, Type: TypeExpense, Amount: 2_000, Category: "utilities"})
	if moved.WalletID != w2.ID {
		t.Fatalf("expected transaction to reference wallet %s, got %s", w2.ID, moved.WalletID)
	}

	expectBalances(t, env.mustWallet(t, ctx, w1.ID), 10_000, 10_000, 0)
	expectBalances(t, env.mustWallet(t, ctx, w2.ID), 3_000, 5_000, 2_000)
}

func TestMoveExpenseInsufficientTargetFunds(t *testing.T) {
	env, ctx := newTestEnv(t)
	w1 := env.newWallet(t, ctx, "Checking")
	w2 := env.newWallet(t, ctx, "Savings")
	env.save(t, ctx, SaveInput{WalletID: w1.ID, Type: TypeIncome, Amount: 10_000})
	env.save(t, ctx, SaveInput{WalletID: w2.ID, Type: TypeIncome, Amount: 1_000})

	exp := env.save(t, ctx, SaveInput{WalletID: w1.ID, Type: TypeExpense, Amount: 2_000, Category: "utilities"})

	_, err := env.svc.Save(ctx, SaveInput{
		ID:       exp.ID,
		OwnerID:  env.ownerID,
		WalletID: w2.ID,
		Type:     TypeExpense,
		Amount:   2_000,
		Category: "utilities",
		Date:     time.Now(),
	})
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	// Neither wallet moved and the record still points at the original wallet.
	expectBalances(t, env.mustWallet(t, ctx, w1.ID), 8_000, 10_000, 2_000)
	expectBalances(t, env.mustWallet(t, ctx, w2.ID), 1_000, 1_000, 0)
	current, err := env.svc.Get(ctx, exp.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if current.WalletID != w1.ID {
		t.Fatalf("expected transaction to stay on wallet %s, got %s", w1.ID, current.WalletID)
	}
}

func TestEditExpenseBeyondRevertedBalance(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 10_000})
	exp := env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 3_000, Category: "rent"})

	// Reverted balance would be 10_000, so 15_000 cannot be covered.
	_, err := env.svc.Save(ctx, SaveInput{
		ID:       exp.ID,
		OwnerID:  env.ownerID,
		WalletID: w.ID,
		Type:     TypeExpense,
		Amount:   15_000,
		Category: "rent",
		Date:     time.Now(),
	})
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	expectBalances(t, env.mustWallet(t, ctx, w.ID), 7_000, 10_000, 3_000)
}

func TestChangeExpenseToIncome(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 10_000})
	exp := env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 2_000, Category: "groceries"})
	expectBalances(t, env.mustWallet(t, ctx, w.ID), 8_000, 10_000, 2_000)

	env.save(t, ctx, SaveInput{ID: exp.ID, WalletID: w.ID, Type: TypeIncome, Amount: 2_000})
	expectBalances(t, env.mustWallet(t, ctx, w.ID), 12_000, 12_000, 0)
}

func TestDeleteIncomeOverdrawGuard(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	inc := env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 10_000})
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 8_000, Category: "rent"})

	if err := env.svc.Delete(ctx, inc.ID, env.ownerID); !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	expectBalances(t, env.mustWallet(t, ctx, w.ID), 2_000, 10_000, 8_000)
}

func TestRoundTripCreateDelete(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	wallet.SeedBalances(env.walletRepo, w.ID, 10_000, 10_000, 0)

	tx := env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 4_000, Category: "clothing"})
	if err := env.svc.Delete(ctx, tx.ID, env.ownerID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	expectBalances(t, env.mustWallet(t, ctx, w.ID), 10_000, 10_000, 0)
	if _, err := env.svc.Get(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transaction to be gone, got %v", err)
	}
}

type failingUploader struct{}

func (failingUploader) Upload(context.Context, string, string) (string, error) {
	return "", media.ErrUploadFailed
}

func TestUploadFailureLeavesZeroMutation(t *testing.T) {
	walletRepo := wallet.NewMemoryRepository()
	walletSvc := wallet.NewService(walletRepo, media.StaticUploader{})
	svc := NewService(NewMemoryRepository(), walletSvc, failingUploader{}, nil)
	ctx := context.Background()
	ownerID := uuid.NewString()

	w, err := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: ownerID, Name: "Checking", Icon: testIcon})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	wallet.SeedBalances(walletRepo, w.ID, 10_000, 10_000, 0)

	_, err = svc.Save(ctx, SaveInput{
		OwnerID:  ownerID,
		WalletID: w.ID,
		Type:     TypeExpense,
		Amount:   1_000,
		Category: "dining",
		Date:     time.Now(),
		Receipt:  "file:///tmp/receipt.jpg",
	})
	if !errors.Is(err, media.ErrUploadFailed) {
		t.Fatalf("expected upload failure, got %v", err)
	}

	got, _ := walletSvc.Get(ctx, w.ID)
	expectBalances(t, got, 10_000, 10_000, 0)
	txs, _ := svc.ListByWallet(ctx, w.ID)
	if len(txs) != 0 {
		t.Fatalf("expected no transaction record, got %d", len(txs))
	}
}

func TestReceiptPassThrough(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")

	tx := env.save(t, ctx, SaveInput{
		WalletID: w.ID,
		Type:     TypeIncome,
		Amount:   1_000,
		Receipt:  "https://cdn.example.com/receipts/abc.jpg",
	})
	if tx.Receipt != "https://cdn.example.com/receipts/abc.jpg" {
		t.Fatalf("expected remote receipt to pass through, got %q", tx.Receipt)
	}
}

func TestCreateOnForeignWalletRejected(t *testing.T) {
	env, ctx := newTestEnv(t)
	victimOwner := uuid.NewString()
	victim, err := env.wallets.Create(ctx, wallet.CreateInput{OwnerID: victimOwner, Name: "Victim", Icon: testIcon})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	_, err = env.svc.Save(ctx, SaveInput{
		OwnerID:  env.ownerID,
		WalletID: victim.ID,
		Type:     TypeIncome,
		Amount:   9_999,
		Date:     time.Now(),
	})
	if !errors.Is(err, wallet.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	expectBalances(t, env.mustWallet(t, ctx, victim.ID), 0, 0, 0)
	txs, _ := env.svc.ListByWallet(ctx, victim.ID)
	if len(txs) != 0 {
		t.Fatalf("expected no transaction on the foreign wallet, got %d", len(txs))
	}
}

func TestMoveToForeignWalletRejected(t *testing.T) {
	env, ctx := newTestEnv(t)
	own := env.newWallet(t, ctx, "Checking")
	env.save(t, ctx, SaveInput{WalletID: own.ID, Type: TypeIncome, Amount: 10_000})
	exp := env.save(t, ctx, SaveInput{WalletID: own.ID, Type: TypeExpense, Amount: 2_000, Category: "utilities"})

	victimOwner := uuid.NewString()
	victim, err := env.wallets.Create(ctx, wallet.CreateInput{OwnerID: victimOwner, Name: "Victim", Icon: testIcon})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	wallet.SeedBalances(env.walletRepo, victim.ID, 5_000, 5_000, 0)

	_, err = env.svc.Save(ctx, SaveInput{
		ID:       exp.ID,
		OwnerID:  env.ownerID,
		WalletID: victim.ID,
		Type:     TypeExpense,
		Amount:   2_000,
		Category: "utilities",
		Date:     time.Now(),
	})
	if !errors.Is(err, wallet.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// Neither wallet moved and the record still points at the caller's wallet.
	expectBalances(t, env.mustWallet(t, ctx, own.ID), 8_000, 10_000, 2_000)
	expectBalances(t, env.mustWallet(t, ctx, victim.ID), 5_000, 5_000, 0)
	current, err := env.svc.Get(ctx, exp.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if current.WalletID != own.ID {
		t.Fatalf("expected transaction to stay on wallet %s, got %s", own.ID, current.WalletID)
	}
}

func TestDeleteNotOwner(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	tx := env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 1_000})

	if err := env.svc.Delete(ctx, tx.ID, uuid.NewString()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestRemoveWalletCascades(t *testing.T) {
	env, ctx := newTestEnv(t)
	w := env.newWallet(t, ctx, "Checking")
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeIncome, Amount: 5_000})
	env.save(t, ctx, SaveInput{WalletID: w.ID, Type: TypeExpense, Amount: 1_000, Category: "others"})

	if err := env.svc.RemoveWallet(ctx, w.ID, env.ownerID); err != nil {
		t.Fatalf("remove wallet: %v", err)
	}

	if _, err := env.wallets.Get(ctx, w.ID); !errors.Is(err, wallet.ErrNotFound) {
		t.Fatalf("expected wallet to be gone, got %v", err)
	}
	txs, _ := env.svc.ListByWallet(ctx, w.ID)
	if len(txs) != 0 {
		t.Fatalf("expected cascade to delete transactions, got %d", len(txs))
	}
}
