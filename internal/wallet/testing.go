package wallet

// SeedBalances is a test helper that overwrites a wallet's monetary fields
// when using the in-memory repository.
func SeedBalances(r Repository, id string, amount, totalIncome, totalExpenses int64) {
	if mem, ok := r.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		w := mem.storage[id]
		w.Amount = amount
		w.TotalIncome = totalIncome
		w.TotalExpenses = totalExpenses
		mem.storage[id] = w
	}
}
