package transaction

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spendwise/spendwise/internal/media"
	"github.com/spendwise/spendwise/internal/wallet"
)

// Handler exposes transaction HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type saveRequest struct {
	WalletID    string    `json:"wallet_id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Receipt     string    `json:"receipt"`
}

type transactionResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	WalletID    string    `json:"wallet_id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Date        time.Time `json:"date"`
	Receipt     string    `json:"receipt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(tx Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		OwnerID:     tx.OwnerID,
		WalletID:    tx.WalletID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Description: tx.Description,
		Category:    tx.Category,
		Date:        tx.Date,
		Receipt:     tx.Receipt,
		CreatedAt:   tx.CreatedAt,
	}
}

// Create records a new transaction against a wallet.
func (h *Handler) Create(c *fiber.Ctx) error {
	return h.save(c, "")
}

// Update edits an existing transaction, reconciling wallet balances.
func (h *Handler) Update(c *fiber.Ctx) error {
	return h.save(c, c.Params("transactionId"))
}

func (h *Handler) save(c *fiber.Ctx, id string) error {
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	tx, err := h.service.Save(c.UserContext(), SaveInput{
		ID:          id,
		OwnerID:     uid,
		WalletID:    req.WalletID,
		Type:        Type(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Receipt:     req.Receipt,
	})
	if err != nil {
		return mapError(err)
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(toResponse(tx))
}

// List returns the authenticated owner's transactions, optionally filtered by wallet.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	var (
		txs []Transaction
		err error
	)
	if walletID := c.Query("wallet_id"); walletID != "" {
		txs, err = h.service.ListByWallet(c.UserContext(), walletID)
	} else {
		txs, err = h.service.ListByOwner(c.UserContext(), uid)
	}
	if err != nil {
		return mapError(err)
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		if uid != "" && tx.OwnerID != uid {
			continue
		}
		out = append(out, toResponse(tx))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Delete reverts and removes a transaction.
func (h *Handler) Delete(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if err := h.service.Delete(c.UserContext(), c.Params("transactionId"), uid); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

// DeleteWallet removes a wallet together with all of its transactions.
func (h *Handler) DeleteWallet(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if err := h.service.RemoveWallet(c.UserContext(), c.Params("walletId"), uid); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, "selected wallet does not have enough balance for this transaction")
	case errors.Is(err, ErrNotOwner), errors.Is(err, wallet.ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, media.ErrUploadFailed):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
