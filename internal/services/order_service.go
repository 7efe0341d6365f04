package services

import (
	"errors"
	"fmt"

	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/shopspring/decimal"
)

// statusTransitions is the order state machine: pending -> paid -> shipped
// -> delivered, with canceled reachable from pending or paid.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusPaid, models.OrderStatusCanceled},
	models.OrderStatusPaid:      {models.OrderStatusShipped, models.OrderStatusCanceled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCanceled:  {},
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	walletRepo repositories.WalletRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, walletRepo repositories.WalletRepository) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		walletRepo: walletRepo,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersForUser retrieves the orders owned by a user.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// ComputeItemsSubtotal sums unit price times quantity over all order items
// using exact decimal arithmetic.
func ComputeItemsSubtotal(order *models.Order) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range order.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// ComputeTotal recomputes the order's items subtotal and total amount
// (subtotal + shipping cost) and optionally persists both fields.
func (s *OrderService) ComputeTotal(order *models.Order, persist bool) (decimal.Decimal, error) {
	order.ItemsSubtotal = ComputeItemsSubtotal(order)
	order.TotalAmount = order.ItemsSubtotal.Add(order.ShippingCost)
	if persist {
		if err := s.orderRepo.Update(order); err != nil {
			return decimal.Zero, err
		}
	}
	return order.TotalAmount, nil
}

// PayWithWallet settles the order from the owner's wallet. The resulting
// ledger entry is linked to the order; on SUCCESS the order transitions to
// paid, on FAILED (insufficient funds) it stays pending and the caller must
// inspect the returned entry.
func (s *OrderService) PayWithWallet(order *models.Order) (*models.WalletTransaction, error) {
	if order.TotalAmount.IsZero() {
		if _, err := s.ComputeTotal(order, true); err != nil {
			return nil, err
		}
	}

	// Wallets are created at registration, so a missing one is an invariant
	// violation — still checked rather than assumed.
	if _, err := s.walletRepo.GetByUserID(order.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	entry, err := s.walletRepo.Debit(order.UserID, order.TotalAmount, "ORDER_PAYMENT",
		fmt.Sprintf(`{"order_id":%q}`, order.ID), order.ID)
	if err != nil {
		return nil, err
	}

	if entry.Status == models.WalletTxSuccess {
		if err := s.orderRepo.UpdateStatus(order.ID, models.OrderStatusPaid); err != nil {
			return nil, err
		}
		order.Status = models.OrderStatusPaid
	}
	return entry, nil
}

// UpdateOrderStatus updates the status of an existing order, rejecting
// transitions the state machine does not allow.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}

	allowed, ok := statusTransitions[order.Status]
	if !ok {
		return fmt.Errorf("order %s has unknown status %q", id, order.Status)
	}
	permitted := false
	for _, next := range allowed {
		if next == status {
			permitted = true
			break
		}
	}
	if !permitted {
		return fmt.Errorf("cannot move order %s from %s to %s: %w",
			id, order.Status, status, ErrInvalidStatusTransition)
	}

	return s.orderRepo.UpdateStatus(id, status)
}
