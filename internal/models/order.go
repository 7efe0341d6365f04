package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses. Transitions are validated by the order service:
// pending -> paid -> shipped -> delivered, with canceled reachable
// from pending or paid.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// Payment methods a checkout request can select.
const (
	PaymentMethodCOD     = "cod"
	PaymentMethodWallet  = "wallet"
	PaymentMethodGateway = "gateway"
)

// OrderItem represents a single line within an order. Price is the unit
// price captured at order time and never changes afterward, even if the
// referenced product is repriced later.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36)"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Quantity  int             `json:"quantity"`
	gorm.Model
}

// Order represents a customer order. TotalAmount is always
// ItemsSubtotal + ShippingCost once both are computed.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items          []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	ItemsSubtotal  decimal.Decimal `json:"items_subtotal" gorm:"type:decimal(12,2)"`
	ShippingCost   decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(12,2)"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2)"`
	Status         string          `json:"status" gorm:"type:varchar(20);default:pending"`
	Address        string          `json:"address"`
	PostalCode     string          `json:"postal_code" gorm:"type:varchar(20)"`
	ShippingMethod string          `json:"shipping_method" gorm:"type:varchar(50);default:post"`
	TrackingCode   string          `json:"tracking_code" gorm:"type:varchar(64)"`
	PaymentMethod  string          `json:"payment_method" gorm:"type:varchar(20)"`
	// CouponCode records the discount code applied at checkout, so gateway
	// orders can redeem it once the payment is verified.
	CouponCode string `json:"coupon_code,omitempty" gorm:"type:varchar(40)"`
	// PaymentAuthority is the gateway token for a pending redirect payment.
	// The amount used for the gateway request is TotalAmount, persisted here
	// so verification survives process restarts.
	PaymentAuthority string `json:"payment_authority,omitempty" gorm:"index;type:varchar(64)"`
	PaymentRefID     string `json:"payment_ref_id,omitempty" gorm:"type:varchar(64)"`
	gorm.Model
}
