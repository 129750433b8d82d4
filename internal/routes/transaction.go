package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spendwise/spendwise/internal/transaction"
)

// RegisterTransactionRoutes wires transaction endpoints.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler) {
	r.Post("/transactions", h.Create)
	r.Get("/transactions", h.List)
	r.Put("/transactions/:transactionId", h.Update)
	r.Delete("/transactions/:transactionId", h.Delete)
}
