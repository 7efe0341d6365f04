package services_test

import (
	"testing"

	"shop/internal/models"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestComputeItemsSubtotal(t *testing.T) {
	order := &models.Order{
		Items: []models.OrderItem{
			{Price: d(5000), Quantity: 2},
			{Price: d(2500), Quantity: 3},
		},
	}

	subtotal := services.ComputeItemsSubtotal(order)

	assert.True(t, subtotal.Equal(d(17500)), "subtotal = %s", subtotal)
}

func TestOrderService_ComputeTotalPersists(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(orderRepo, repositories.NewMockWalletRepository())

	order := &models.Order{
		UserID:       "user-1",
		Status:       models.OrderStatusPending,
		ShippingCost: d(2000),
	}
	assert.NoError(t, orderRepo.Create(order))
	assert.NoError(t, orderRepo.CreateItem(&models.OrderItem{
		OrderID: order.ID, ProductID: "p1", Price: d(5000), Quantity: 2,
	}))
	order.Items = append(order.Items, models.OrderItem{Price: d(5000), Quantity: 2})

	total, err := service.ComputeTotal(order, true)

	assert.NoError(t, err)
	assert.True(t, total.Equal(d(12000)), "total = %s", total)
	assert.True(t, order.ItemsSubtotal.Equal(d(10000)))

	stored, err := orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(d(12000)))
}

func TestOrderService_PayWithWalletSuccess(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	walletRepo := repositories.NewMockWalletRepository()
	service := services.NewOrderService(orderRepo, walletRepo)

	assert.NoError(t, walletRepo.Create(&models.Wallet{UserID: "user-1", Balance: d(20000)}))
	order := &models.Order{
		UserID:      "user-1",
		Status:      models.OrderStatusPending,
		TotalAmount: d(15000),
	}
	assert.NoError(t, orderRepo.Create(order))

	entry, err := service.PayWithWallet(order)

	assert.NoError(t, err)
	assert.Equal(t, models.WalletTxSuccess, entry.Status)
	assert.Equal(t, order.ID, entry.OrderID)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	wallet, err := walletRepo.GetByUserID("user-1")
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d(5000)), "balance = %s", wallet.Balance)
}

func TestOrderService_PayWithWalletInsufficientFundsLeavesOrderPending(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	walletRepo := repositories.NewMockWalletRepository()
	service := services.NewOrderService(orderRepo, walletRepo)

	assert.NoError(t, walletRepo.Create(&models.Wallet{UserID: "user-1", Balance: d(10000)}))
	order := &models.Order{
		UserID:      "user-1",
		Status:      models.OrderStatusPending,
		TotalAmount: d(15000),
	}
	assert.NoError(t, orderRepo.Create(order))

	entry, err := service.PayWithWallet(order)

	assert.NoError(t, err)
	assert.Equal(t, models.WalletTxFailed, entry.Status)
	assert.Equal(t, models.WalletReasonInsufficientFunds, entry.Reason)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	stored, err := orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	wallet, err := walletRepo.GetByUserID("user-1")
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d(10000)), "balance = %s", wallet.Balance)
}

func TestOrderService_PayWithWalletMissingWallet(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(orderRepo, repositories.NewMockWalletRepository())

	order := &models.Order{UserID: "user-1", TotalAmount: d(1000)}
	assert.NoError(t, orderRepo.Create(order))

	_, err := service.PayWithWallet(order)

	assert.ErrorIs(t, err, services.ErrWalletNotFound)
}

func TestOrderService_UpdateOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to paid", models.OrderStatusPending, models.OrderStatusPaid, true},
		{"pending to canceled", models.OrderStatusPending, models.OrderStatusCanceled, true},
		{"pending to delivered", models.OrderStatusPending, models.OrderStatusDelivered, false},
		{"paid to shipped", models.OrderStatusPaid, models.OrderStatusShipped, true},
		{"paid to pending", models.OrderStatusPaid, models.OrderStatusPending, false},
		{"shipped to delivered", models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{"shipped to canceled", models.OrderStatusShipped, models.OrderStatusCanceled, false},
		{"delivered is terminal", models.OrderStatusDelivered, models.OrderStatusPaid, false},
		{"canceled is terminal", models.OrderStatusCanceled, models.OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := repositories.NewMockOrderRepository()
			service := services.NewOrderService(orderRepo, repositories.NewMockWalletRepository())

			order := &models.Order{UserID: "user-1", Status: tc.from}
			assert.NoError(t, orderRepo.Create(order))

			err := service.UpdateOrderStatus(order.ID, tc.to)

			if tc.allowed {
				assert.NoError(t, err)
				stored, getErr := orderRepo.GetByID(order.ID)
				assert.NoError(t, getErr)
				assert.Equal(t, tc.to, stored.Status)
			} else {
				assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)
				stored, getErr := orderRepo.GetByID(order.ID)
				assert.NoError(t, getErr)
				assert.Equal(t, tc.from, stored.Status)
			}
		})
	}
}

func TestOrderService_UpdateOrderStatusUnknownOrder(t *testing.T) {
	service := services.NewOrderService(repositories.NewMockOrderRepository(), repositories.NewMockWalletRepository())

	err := service.UpdateOrderStatus("missing", models.OrderStatusPaid)

	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
