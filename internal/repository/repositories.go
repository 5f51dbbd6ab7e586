package repository

import (
	"context"
	"errors"

	"commerce-service/internal/domain"
)

var (
	// ErrInsufficientStock is returned when a conditional stock
	// decrement affects zero rows.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrPaymentAlreadyExists is returned when the unique order_id
	// index rejects a second payment for the same order.
	ErrPaymentAlreadyExists = errors.New("payment already exists for this order")
)

// Finders return (nil, nil) when the row does not exist; callers decide
// whether absence is an error.

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// DecrementStock subtracts qty only when the current stock covers
	// it, as a single conditional UPDATE. Zero rows affected means
	// ErrInsufficientStock.
	DecrementStock(ctx context.Context, id uint64, qty int64) error
	IncrementStock(ctx context.Context, id uint64, qty int64) error
}

type OrderRepository interface {
	// CreateWithItems inserts the order with its nested items and runs
	// every stock decrement inside one transaction. Any item whose
	// stock cannot cover the quantity aborts the whole operation with
	// ErrInsufficientStock.
	CreateWithItems(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID uint64) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
}
