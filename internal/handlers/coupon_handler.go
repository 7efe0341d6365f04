package handlers

import (
	"fmt"
	"log"

	"shop/internal/models"
	"shop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles HTTP requests for discount coupons.
type CouponHandler struct {
	service  *services.CouponService
	validate *validator.Validate
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *services.CouponService) *CouponHandler {
	return &CouponHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the coupon routes with the Fiber app. Creation
// belongs on a protected router; Apply is public so storefronts can probe
// codes before checkout.
func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	couponRoutes := router.Group("/coupons")
	couponRoutes.Post("/", h.HandleCreateCoupon)
}

// RegisterPublicRoutes registers the public coupon routes.
func (h *CouponHandler) RegisterPublicRoutes(router fiber.Router) {
	couponRoutes := router.Group("/coupons")
	couponRoutes.Post("/apply", h.HandleApply)
}

// HandleCreateCoupon creates a new coupon.
func (h *CouponHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		log.Printf("Error parsing coupon request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(coupon); err != nil {
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

	if err := h.service.CreateCoupon(&coupon); err != nil {
		log.Printf("Error creating coupon: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create coupon",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// ApplyRequest represents the request body for checking a coupon code.
type ApplyRequest struct {
	Code string `json:"code" validate:"required"`
}

// HandleApply checks a coupon code and reports its validity and discount.
func (h *CouponHandler) HandleApply(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing coupon apply request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Code is required",
		})
	}

	application, err := h.service.Apply(req.Code)
	if err != nil {
		log.Printf("Error applying coupon %s: %v", req.Code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not check coupon",
			"error":   err.Error(),
		})
	}
	return c.JSON(application)
}
