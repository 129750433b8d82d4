package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spendwise/spendwise/internal/media"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type walletRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type walletResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Icon          string    `json:"icon,omitempty"`
	Amount        int64     `json:"amount"`
	TotalIncome   int64     `json:"total_income"`
	TotalExpenses int64     `json:"total_expenses"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(w Wallet) walletResponse {
	return walletResponse{
		ID:            w.ID,
		OwnerID:       w.OwnerID,
		Name:          w.Name,
		Icon:          w.Icon,
		Amount:        w.Amount,
		TotalIncome:   w.TotalIncome,
		TotalExpenses: w.TotalExpenses,
		CreatedAt:     w.CreatedAt,
	}
}

// Create provisions a wallet for the authenticated owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	w, err := h.service.Create(c.UserContext(), CreateInput{OwnerID: uid, Name: req.Name, Icon: req.Icon})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(w))
}

// List returns the authenticated owner's wallets.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	wallets, err := h.service.List(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, toResponse(w))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns a single wallet with its running balances.
func (h *Handler) Get(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	w, err := h.service.Get(c.UserContext(), c.Params("walletId"))
	if err != nil {
		return mapError(err)
	}
	if uid != "" && w.OwnerID != uid {
		return fiber.NewError(http.StatusForbidden, ErrNotOwner.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(w))
}

// Update edits the wallet's name and icon.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	w, err := h.service.Update(c.UserContext(), UpdateInput{
		WalletID: c.Params("walletId"),
		OwnerID:  uid,
		Name:     req.Name,
		Icon:     req.Icon,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(w))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidDraft):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, media.ErrUploadFailed):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
