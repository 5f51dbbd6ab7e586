package mysql

import (
	"context"
	"errors"
	"log"

	"commerce-service/internal/domain"
	"commerce-service/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		log.Printf("product create error: %v", err)
		return err
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DecrementStock is the compare-and-decrement the storefront relies on:
// the WHERE clause keeps stock from ever going negative, even under
// concurrent checkouts of the last unit.
func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int64) error {
	return decrementStock(r.db.WithContext(ctx), id, qty)
}

func (r *productRepo) IncrementStock(ctx context.Context, id uint64, qty int64) error {
	result := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func decrementStock(db *gorm.DB, id uint64, qty int64) error {
	result := db.Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrInsufficientStock
	}
	return nil
}
