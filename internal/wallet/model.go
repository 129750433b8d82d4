package wallet

import "time"

// Wallet is a named money container owned by a single user. Amount,
// TotalIncome and TotalExpenses are int64 minor units and are mutated only
// through Adjust, so they always reflect the last adjustment applied.
type Wallet struct {
	ID            string
	OwnerID       string
	Name          string
	Icon          string
	Amount        int64
	TotalIncome   int64
	TotalExpenses int64
	CreatedAt     time.Time
}

// TotalField selects which cumulative total an adjustment touches.
type TotalField string

const (
	// TotalIncomeField addresses the cumulative income total.
	TotalIncomeField TotalField = "total_income"
	// TotalExpensesField addresses the cumulative expenses total.
	TotalExpensesField TotalField = "total_expenses"
)
