package handlers

import (
	"errors"
	"fmt"
	"log"

	"shop/internal/middleware"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// OrderHandler handles HTTP requests for orders, checkout and the payment
// callback.
type OrderHandler struct {
	orderService    *services.OrderService
	checkoutService *services.CheckoutService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, checkoutService *services.CheckoutService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		checkoutService: checkoutService,
	}
}

// RegisterPublicRoutes registers the routes that serve guests as well:
// checkout (with optional authentication) and the gateway callback. Must be
// registered before RegisterRoutes so the static callback path wins over
// the :id parameter.
func (h *OrderHandler) RegisterPublicRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Get("/payment/callback", h.HandlePaymentCallback)
}

// RegisterRoutes registers the authenticated order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// CheckoutRequest represents the request body for checkout. Guests must
// send cart and address; authenticated callers' stored carts are used and
// the cart field is ignored. The nested shipping_address form is accepted
// as a fallback for the flat address field.
type CheckoutRequest struct {
	Cart            []services.CheckoutLine `json:"cart"`
	Address         string                  `json:"address"`
	PostalCode      string                  `json:"postal_code"`
	ShippingMethod  string                  `json:"shipping_method"`
	ShippingCost    decimal.Decimal         `json:"shipping_cost"`
	PaymentMethod   string                  `json:"payment_method"`
	CouponCode      string                  `json:"coupon_code"`
	ShippingAddress *struct {
		Line1 string `json:"line1"`
		City  string `json:"city"`
	} `json:"shipping_address"`
}

// HandleCheckout places an order from the caller's cart (authenticated) or
// the supplied cart payload (guest) and runs the selected settlement.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	address := req.Address
	if address == "" && req.ShippingAddress != nil {
		address = req.ShippingAddress.Line1
	}

	userID := middleware.UserID(c)
	if userID == "" && address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Address is required",
		})
	}

	result, err := h.checkoutService.Checkout(services.CheckoutRequest{
		UserID:         userID,
		Cart:           req.Cart,
		Address:        address,
		PostalCode:     req.PostalCode,
		ShippingMethod: req.ShippingMethod,
		ShippingCost:   req.ShippingCost,
		PaymentMethod:  req.PaymentMethod,
		CouponCode:     req.CouponCode,
	})
	if err != nil {
		log.Printf("Error during checkout: %v", err)
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cart is empty",
				"code":    "EMPTY_CART",
			})
		case errors.Is(err, services.ErrGuestUserNotConfigured):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Guest user not found. Create one and set GUEST_USER_ID.",
				"code":    "GUEST_USER_NOT_CONFIGURED",
			})
		case errors.Is(err, services.ErrCouponInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Coupon is not valid",
				"code":    "COUPON_INVALID",
			})
		case errors.Is(err, services.ErrWalletNotFound):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Wallet not found for user",
				"code":    "WALLET_NOT_FOUND",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not complete checkout",
				"error":   err.Error(),
			})
		}
	}

	// A failed settlement still created a pending order; report it without
	// the created status so clients can offer a retry or another method.
	status := fiber.StatusCreated
	if !result.OK {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(result)
}

// HandlePaymentCallback completes a gateway payment: the gateway redirects
// the customer here with the authority and its status, and the order is
// verified and marked paid.
func (h *OrderHandler) HandlePaymentCallback(c *fiber.Ctx) error {
	authority := c.Query("Authority", c.Query("authority"))
	gatewayStatus := c.Query("Status", c.Query("status"))
	if authority == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Authority is required",
		})
	}

	order, err := h.checkoutService.CompletePayment(authority, gatewayStatus)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotCompleted) {
			return c.JSON(fiber.Map{
				"ok":       false,
				"order_id": order.ID,
				"status":   order.Status,
				"message":  "Payment was not completed",
			})
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "No order found for this payment",
			})
		}
		log.Printf("Error completing payment for authority %s: %v", authority, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Payment verification failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"ok":       true,
		"order_id": order.ID,
		"ref_id":   order.PaymentRefID,
		"status":   order.Status,
	})
}

// HandleGetOrders retrieves the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetOrdersForUser(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	err := h.orderService.UpdateOrderStatus(orderID, updateData.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		if errors.Is(err, services.ErrInvalidStatusTransition) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("Order update failed: %v", err.Error()),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}
