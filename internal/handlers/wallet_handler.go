package handlers

import (
	"errors"
	"fmt"
	"log"

	"shop/internal/middleware"
	"shop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// WalletHandler handles HTTP requests for the authenticated user's wallet.
type WalletHandler struct {
	service  *services.WalletService
	validate *validator.Validate
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(service *services.WalletService) *WalletHandler {
	return &WalletHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the wallet routes with the Fiber app.
func (h *WalletHandler) RegisterRoutes(router fiber.Router) {
	walletRoutes := router.Group("/wallet")
	walletRoutes.Get("/", h.HandleGetBalance)
	walletRoutes.Get("/transactions", h.HandleGetTransactions)
	walletRoutes.Post("/topup", h.HandleTopUp)
}

// TopUpRequest represents the request body for crediting a wallet.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"omitempty,max=100"`
}

// HandleGetBalance returns the caller's wallet.
func (h *WalletHandler) HandleGetBalance(c *fiber.Ctx) error {
	wallet, err := h.service.Balance(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting wallet balance: %v", err)
		if errors.Is(err, services.ErrWalletNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Wallet not found",
				"code":    "WALLET_NOT_FOUND",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve wallet",
			"error":   err.Error(),
		})
	}
	return c.JSON(wallet)
}

// HandleGetTransactions returns the caller's ledger history.
func (h *WalletHandler) HandleGetTransactions(c *fiber.Ctx) error {
	entries, err := h.service.Transactions(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting wallet transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve wallet transactions",
			"error":   err.Error(),
		})
	}
	return c.JSON(entries)
}

// HandleTopUp credits the caller's wallet.
func (h *WalletHandler) HandleTopUp(c *fiber.Ctx) error {
	var req TopUpRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing top-up request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	reason := req.Reason
	if reason == "" {
		reason = "TOP_UP"
	}

	entry, err := h.service.Credit(middleware.UserID(c), req.Amount, reason, "")
	if err != nil {
		log.Printf("Error crediting wallet: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not credit wallet",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
