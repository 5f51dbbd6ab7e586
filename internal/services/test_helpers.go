package services

import (
	"time"

	"commerce-service/internal/domain"
)

func CreateMockProduct(id uint64, name string, price, stock int64) *domain.Product {
	return &domain.Product{
		ID:    id,
		Name:  name,
		Price: price,
		Stock: stock,
	}
}

func CreateMockOrder(id, userID uint64, totalAmount int64, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:          id,
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      status,
		CreatedAt:   time.Now(),
	}
}

func CreateMockPayment(id, orderID uint64, amount int64, status domain.PaymentStatus, transactionID, code string, expiresAt *time.Time) *domain.Payment {
	return &domain.Payment{
		ID:               id,
		OrderID:          orderID,
		Amount:           amount,
		Method:           "dana",
		Status:           status,
		TransactionID:    transactionID,
		VerificationCode: code,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now(),
	}
}

const (
	TestUserID        = uint64(7)
	TestOrderID       = uint64(1)
	TestProductID     = uint64(1)
	TestProductName   = "Recurve Bow"
	TestProductPrice  = int64(10000)
	TestTransactionID = "TXN-1700000000000-AB12CD34E"
)
