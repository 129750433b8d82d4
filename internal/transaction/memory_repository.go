package transaction

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Transaction
}

// NewMemoryRepository constructs an in-memory repository for tests and
// development runs without a database.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Transaction)}
}

func (r *memoryRepository) Create(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[tx.ID] = tx
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.storage[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (r *memoryRepository) Update(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[tx.ID]; !ok {
		return ErrNotFound
	}
	r.storage[tx.ID] = tx
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var txs []Transaction
	for _, tx := range r.storage {
		if tx.OwnerID == ownerID {
			txs = append(txs, tx)
		}
	}
	sortByDate(txs)
	return txs, nil
}

func (r *memoryRepository) ListByWallet(_ context.Context, walletID string) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var txs []Transaction
	for _, tx := range r.storage {
		if tx.WalletID == walletID {
			txs = append(txs, tx)
		}
	}
	sortByDate(txs)
	return txs, nil
}

func (r *memoryRepository) DeleteByWallet(_ context.Context, walletID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, tx := range r.storage {
		if tx.WalletID == walletID {
			delete(r.storage, id)
		}
	}
	return nil
}

func sortByDate(txs []Transaction) {
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
}
