package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"commerce-service/internal/domain"
	"commerce-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

const productCacheTTL = time.Minute

type ProductService struct {
	repo        repository.ProductRepository
	redisClient *redis.Client
}

func NewProductService(r repository.ProductRepository) *ProductService {
	return &ProductService{repo: r}
}

func (s *ProductService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *ProductService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.Name == "" || product.Price < 0 || product.Stock < 0 {
		return ErrInvalidProductData
	}
	return s.repo.Create(ctx, product)
}

func (s *ProductService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	cacheKey := productCacheKey(id)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(p); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return p, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Restock is the admin-side increment; a quantity below 1 is rejected
// before touching the store.
func (s *ProductService) Restock(ctx context.Context, id uint64, qty int64) (*domain.Product, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := s.repo.IncrementStock(ctx, id, qty); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, id)
	return s.GetProduct(ctx, id)
}

func (s *ProductService) ReduceStock(ctx context.Context, id uint64, qty int64) (*domain.Product, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if err := s.repo.DecrementStock(ctx, id, qty); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, id)
	return s.GetProduct(ctx, id)
}

// WarmupProductCache preloads a known set of products into Redis so the
// first checkout after a deploy does not hit cold cache.
func (s *ProductService) WarmupProductCache(ctx context.Context, productIDs []uint64) error {
	if s.redisClient == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			p, err := s.repo.FindByID(ctx, id)
			if err != nil {
				log.Printf("cache warmup: product %d: %v", id, err)
				return nil
			}
			if p == nil {
				return nil
			}
			if data, err := json.Marshal(p); err == nil {
				s.redisClient.Set(ctx, productCacheKey(id), data, 5*time.Minute)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *ProductService) invalidateCache(ctx context.Context, id uint64) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, productCacheKey(id))
	}
}

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}
