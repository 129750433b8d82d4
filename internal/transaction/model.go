package transaction

import "time"

// Type enumerates the two transaction kinds.
type Type string

const (
	// TypeIncome credits a wallet.
	TypeIncome Type = "income"
	// TypeExpense debits a wallet.
	TypeExpense Type = "expense"
)

// Valid reports whether the type is one of the known kinds.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense event with a signed effect on
// exactly one wallet: +Amount for income, -Amount for expense. Amount is in
// int64 minor units and is always positive.
type Transaction struct {
	ID          string
	OwnerID     string
	WalletID    string
	Type        Type
	Amount      int64
	Description string
	Category    string
	Date        time.Time
	Receipt     string
	CreatedAt   time.Time
}
