package services

import "errors"

// Sentinel errors for the checkout and wallet flows. Handlers map these to
// client-facing error codes.
var (
	// ErrEmptyCart means no valid line items could be resolved for checkout.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrGuestUserNotConfigured means the guest placeholder user is missing;
	// this is a deployment problem, not retryable by the caller.
	ErrGuestUserNotConfigured = errors.New("guest user is not configured")
	// ErrWalletNotFound means a user has no wallet. Wallets are created at
	// registration, so this indicates an invariant violation.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrPriceUnavailable means neither the product nor any of its variants
	// carries a usable price.
	ErrPriceUnavailable = errors.New("no price available for product")
	// ErrInvalidStatusTransition rejects an order status change the state
	// machine does not allow.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	// ErrCouponInvalid rejects a coupon that is unknown, inactive, exhausted
	// or outside its validity window.
	ErrCouponInvalid = errors.New("coupon is not valid")
	// ErrPaymentNotCompleted means the customer aborted or the gateway
	// reported an unpaid status on callback.
	ErrPaymentNotCompleted = errors.New("payment was not completed")
)
