package mysql

import (
	"context"
	"errors"
	"log"

	"commerce-service/internal/domain"
	"commerce-service/internal/repository"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL duplicate-entry error, raised by the unique indexes on
// payments.order_id and payments.transaction_id.
const erDupEntry = 1062

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepo{db: db}
}

// Create is an atomic check-and-insert: the at-most-one-payment-per-
// order invariant lives in the unique index, so two concurrent
// initiations cannot both get past it.
func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == erDupEntry {
			return repository.ErrPaymentAlreadyExists
		}
		log.Printf("payment create error: %v", err)
		return err
	}
	return nil
}

func (r *paymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, orderID uint64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		log.Printf("payment update error: %v", err)
		return err
	}
	return nil
}
