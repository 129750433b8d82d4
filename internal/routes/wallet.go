package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spendwise/spendwise/internal/transaction"
	"github.com/spendwise/spendwise/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints. Deletion goes through
// the transaction handler so the wallet's transactions are removed with it.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, tx *transaction.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets", h.List)
	r.Get("/wallets/:walletId", h.Get)
	r.Put("/wallets/:walletId", h.Update)
	r.Delete("/wallets/:walletId", tx.DeleteWallet)
}
