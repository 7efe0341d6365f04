package services

import (
	"errors"
	"fmt"
	"log"

	"shop/internal/models"
	"shop/internal/repositories"
	"shop/pkg/rabbitmq"
	"shop/pkg/zarinpal"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentGateway is the contract the checkout flow needs from the external
// payment provider.
type PaymentGateway interface {
	RequestPayment(amount int64, description, callbackURL string) (*zarinpal.PaymentRequest, error)
	VerifyPayment(authority string, amount int64) (*zarinpal.PaymentVerification, error)
}

// CheckoutLine is one (product, quantity) entry of a guest cart payload.
type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// CheckoutRequest carries everything needed to place an order. UserID is
// empty for guest checkout, in which case Cart supplies the line items.
type CheckoutRequest struct {
	UserID         string
	Cart           []CheckoutLine
	Address        string
	PostalCode     string
	ShippingMethod string
	ShippingCost   decimal.Decimal
	PaymentMethod  string
	CouponCode     string
}

// CheckoutResult is the outcome of a checkout. OK is false when settlement
// did not complete (insufficient wallet funds, gateway failure); the order
// itself is still created and left pending in those cases.
type CheckoutResult struct {
	OK            bool                      `json:"ok"`
	OrderID       string                    `json:"order_id"`
	TotalAmount   decimal.Decimal           `json:"total_amount"`
	PaymentMethod string                    `json:"payment_method"`
	Status        string                    `json:"status"`
	TrackingCode  string                    `json:"tracking_code,omitempty"`
	PaymentURL    string                    `json:"payment_url,omitempty"`
	WalletTx      *models.WalletTransaction `json:"wallet_transaction,omitempty"`
	FailureReason string                    `json:"failure_reason,omitempty"`
}

// CheckoutService orchestrates order creation and settlement: it resolves
// line items, snapshots prices, computes totals and hands off to the
// selected settlement strategy, all inside one database transaction.
type CheckoutService struct {
	db          *gorm.DB
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	walletRepo  repositories.WalletRepository
	userRepo    repositories.UserRepository
	couponRepo  repositories.CouponRepository
	gateway     PaymentGateway
	mqClient    *rabbitmq.Client
	guestUserID string
	callbackURL string
}

// NewCheckoutService creates a new CheckoutService. The RabbitMQ client and
// gateway may be nil; event publishing and gateway settlement are then
// skipped or rejected respectively.
func NewCheckoutService(
	db *gorm.DB,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	walletRepo repositories.WalletRepository,
	userRepo repositories.UserRepository,
	couponRepo repositories.CouponRepository,
	gateway PaymentGateway,
	mqClient *rabbitmq.Client,
	guestUserID string,
	callbackURL string,
) *CheckoutService {
	return &CheckoutService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		walletRepo:  walletRepo,
		userRepo:    userRepo,
		couponRepo:  couponRepo,
		gateway:     gateway,
		mqClient:    mqClient,
		guestUserID: guestUserID,
		callbackURL: callbackURL,
	}
}

// transact runs fn inside a database transaction. Tests built on in-memory
// repositories pass a nil DB, in which case fn runs directly.
func (s *CheckoutService) transact(fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.Transaction(fn)
}

type resolvedLine struct {
	product *models.Product
	qty     int
}

// Checkout places an order. Authenticated callers (req.UserID set) check out
// their stored cart; guests supply line items in req.Cart, with unknown
// products and non-positive quantities dropped silently. Order, items and
// totals are persisted atomically; wallet settlement happens inside the same
// transaction, while the gateway redirect is requested after commit so a
// slow or failing gateway leaves a clean pending order behind.
func (s *CheckoutService) Checkout(req CheckoutRequest) (*CheckoutResult, error) {
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCOD
	}
	switch method {
	case models.PaymentMethodCOD, models.PaymentMethodWallet, models.PaymentMethodGateway:
	default:
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	var (
		result *CheckoutResult
		order  *models.Order
	)
	err := s.transact(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		walletRepo := s.walletRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)
		var couponRepo repositories.CouponRepository
		if s.couponRepo != nil {
			couponRepo = s.couponRepo.WithTx(tx)
		}

		authenticated := req.UserID != ""

		// 1. Resolve line items from the stored cart or the guest payload.
		lines, err := s.resolveLines(cartRepo, productRepo, req, authenticated)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		// 2. Resolve the order owner.
		ownerID := req.UserID
		if !authenticated {
			guest, err := s.guestUser(userRepo)
			if err != nil {
				return err
			}
			ownerID = guest.ID
		}

		// Coupon applies per line so the subtotal stays the exact sum of the
		// snapshotted line totals.
		coupon, err := s.validCoupon(couponRepo, req.CouponCode)
		if err != nil {
			return err
		}

		// 3. Create the order row.
		shippingMethod := req.ShippingMethod
		if shippingMethod == "" {
			shippingMethod = "post"
		}
		order = &models.Order{
			UserID:         ownerID,
			Status:         models.OrderStatusPending,
			Address:        req.Address,
			PostalCode:     req.PostalCode,
			ShippingMethod: shippingMethod,
			ShippingCost:   req.ShippingCost,
			PaymentMethod:  method,
		}
		if coupon != nil {
			order.CouponCode = coupon.Code
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		// 4. Snapshot unit prices onto order items and accumulate the subtotal.
		subtotal := decimal.Zero
		for _, ln := range lines {
			charge, _, err := ResolvePrice(ln.product)
			if err != nil {
				return fmt.Errorf("product %s: %w", ln.product.ID, err)
			}
			if coupon != nil {
				charge = applyPercentOff(charge, coupon.PercentOff)
			}
			item := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: ln.product.ID,
				Price:     charge,
				Quantity:  ln.qty,
			}
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
			order.Items = append(order.Items, *item)
			subtotal = subtotal.Add(charge.Mul(decimal.NewFromInt(int64(ln.qty))))
		}

		// 5. Persist the computed totals.
		order.ItemsSubtotal = subtotal
		order.TotalAmount = subtotal.Add(order.ShippingCost)

		// 6. The stored cart is consumed by a successful checkout.
		if authenticated {
			if err := cartRepo.Clear(req.UserID); err != nil {
				return err
			}
		}

		// 7. Settlement.
		result = &CheckoutResult{
			OrderID:       order.ID,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: method,
			Status:        order.Status,
		}
		switch method {
		case models.PaymentMethodCOD:
			order.TrackingCode = fmt.Sprintf("COD-%s", order.ID)
			if err := orderRepo.Update(order); err != nil {
				return err
			}
			result.TrackingCode = order.TrackingCode
			result.OK = true

		case models.PaymentMethodWallet:
			if err := orderRepo.Update(order); err != nil {
				return err
			}
			entry, err := s.debitWallet(walletRepo, orderRepo, order)
			if err != nil {
				return err
			}
			result.WalletTx = entry
			result.Status = order.Status
			if entry.Status == models.WalletTxSuccess {
				result.OK = true
			} else {
				result.FailureReason = entry.Reason
			}

		case models.PaymentMethodGateway:
			if s.gateway == nil {
				return fmt.Errorf("payment gateway is not configured")
			}
			// Totals are committed first; the gateway call happens after the
			// transaction so its latency or failure cannot hold locks or
			// leave partial rows.
			if err := orderRepo.Update(order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if method == models.PaymentMethodGateway {
		s.requestGatewayRedirect(order, result)
	}

	// Gateway orders redeem their coupon in CompletePayment, once the payment
	// is actually verified; a redirect URL alone is not a sale.
	if req.CouponCode != "" && result.OK && method != models.PaymentMethodGateway {
		s.redeemCoupon(req.CouponCode)
	}

	s.publishEvent(rabbitmq.EventOrderCreated, order)
	if order.Status == models.OrderStatusPaid {
		s.publishEvent(rabbitmq.EventOrderPaid, order)
	}
	return result, nil
}

// resolveLines builds the line-item list for the checkout. Guest payload
// entries referencing unknown products or non-positive quantities are
// dropped silently; the caller turns an empty result into ErrEmptyCart.
func (s *CheckoutService) resolveLines(
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	req CheckoutRequest,
	authenticated bool,
) ([]resolvedLine, error) {
	var lines []resolvedLine
	if authenticated {
		items, err := cartRepo.ListByUser(req.UserID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			product, err := productRepo.GetByID(it.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					continue
				}
				return nil, err
			}
			lines = append(lines, resolvedLine{product: product, qty: it.Quantity})
		}
		return lines, nil
	}

	for _, it := range req.Cart {
		if it.ProductID == "" || it.Qty < 1 {
			continue
		}
		product, err := productRepo.GetByID(it.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, err
		}
		lines = append(lines, resolvedLine{product: product, qty: it.Qty})
	}
	return lines, nil
}

// guestUser resolves the configured placeholder user that owns guest orders.
func (s *CheckoutService) guestUser(userRepo repositories.UserRepository) (*models.User, error) {
	if s.guestUserID == "" {
		return nil, ErrGuestUserNotConfigured
	}
	guest, err := userRepo.GetByID(s.guestUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuestUserNotConfigured
		}
		return nil, err
	}
	return guest, nil
}

// validCoupon fetches and validates the coupon code, if one was supplied.
func (s *CheckoutService) validCoupon(couponRepo repositories.CouponRepository, code string) (*models.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	if couponRepo == nil {
		return nil, ErrCouponInvalid
	}
	coupon, err := couponRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCouponInvalid
		}
		return nil, err
	}
	if !coupon.IsValid(timeNow()) {
		return nil, ErrCouponInvalid
	}
	return coupon, nil
}

// debitWallet settles the order total from the owner's wallet inside the
// checkout transaction, linking the ledger entry to the order.
func (s *CheckoutService) debitWallet(
	walletRepo repositories.WalletRepository,
	orderRepo repositories.OrderRepository,
	order *models.Order,
) (*models.WalletTransaction, error) {
	if _, err := walletRepo.GetByUserID(order.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	entry, err := walletRepo.Debit(order.UserID, order.TotalAmount, "ORDER_PAYMENT",
		fmt.Sprintf(`{"order_id":%q}`, order.ID), order.ID)
	if err != nil {
		return nil, err
	}
	if entry.Status == models.WalletTxSuccess {
		if err := orderRepo.UpdateStatus(order.ID, models.OrderStatusPaid); err != nil {
			return nil, err
		}
		order.Status = models.OrderStatusPaid
	}
	return entry, nil
}

// requestGatewayRedirect asks the gateway for a redirect URL and persists
// the authority (and the amount, as the order total) on the order. A failed
// or timed-out request leaves the order pending with nothing to undo; the
// caller can retry.
func (s *CheckoutService) requestGatewayRedirect(order *models.Order, result *CheckoutResult) {
	payment, err := s.gateway.RequestPayment(
		order.TotalAmount.IntPart(),
		fmt.Sprintf("Order %s", order.ID),
		s.callbackURL,
	)
	if err != nil {
		log.Printf("Gateway payment request failed for order %s: %v", order.ID, err)
		result.FailureReason = "gateway request failed"
		return
	}

	order.PaymentAuthority = payment.Authority
	if err := s.orderRepo.Update(order); err != nil {
		log.Printf("Failed to persist payment authority for order %s: %v", order.ID, err)
		result.FailureReason = "gateway request failed"
		return
	}
	result.PaymentURL = payment.RedirectURL
	result.OK = true
}

// CompletePayment handles the gateway callback: it finds the order by
// authority, verifies the payment against the persisted order total and
// marks the order paid. gatewayStatus is the gateway's redirect status
// parameter ("OK" when the customer completed the payment).
func (s *CheckoutService) CompletePayment(authority, gatewayStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByAuthority(authority)
	if err != nil {
		return nil, err
	}

	// Gateways retry callbacks; an already-settled order must not be
	// re-verified, re-published or re-redeemed.
	if order.Status == models.OrderStatusPaid {
		return order, nil
	}

	if gatewayStatus != "OK" {
		return order, ErrPaymentNotCompleted
	}

	// Verification uses the order's persisted total — the same amount the
	// payment was requested with — never an in-memory record.
	verification, err := s.gateway.VerifyPayment(authority, order.TotalAmount.IntPart())
	if err != nil {
		return order, fmt.Errorf("payment verification failed for order %s: %w", order.ID, err)
	}

	order.Status = models.OrderStatusPaid
	order.PaymentRefID = verification.RefID
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	if order.CouponCode != "" {
		s.redeemCoupon(order.CouponCode)
	}

	s.publishEvent(rabbitmq.EventOrderPaid, order)
	return order, nil
}

// redeemCoupon bumps the coupon usage counter after a successful checkout.
func (s *CheckoutService) redeemCoupon(code string) {
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		log.Printf("Failed to reload coupon %s for redemption: %v", code, err)
		return
	}
	if err := s.couponRepo.IncrementUsed(coupon.ID); err != nil {
		log.Printf("Failed to record coupon usage for %s: %v", code, err)
	}
}

// publishEvent publishes an order lifecycle event; a missing broker client
// only logs.
func (s *CheckoutService) publishEvent(event string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishOrderEvent(rabbitmq.OrderEvent{
		Event:         event,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		TotalAmount:   order.TotalAmount.String(),
	})
	if err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}

// applyPercentOff discounts a unit price by a whole percentage, rounded to
// two decimal places.
func applyPercentOff(price decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return price
	}
	factor := decimal.NewFromInt(int64(100 - percent)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2)
}
