package services

import (
	"context"
	"log"

	"commerce-service/internal/domain"
	"commerce-service/internal/infra/rabbitmq"
	"commerce-service/internal/repository"

	"github.com/go-redis/redis/v8"
)

type OrderItemInput struct {
	ProductID uint64
	Quantity  int64
	Price     int64
}

type OrderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	publisher   rabbitmq.PublisherInterface
	redisClient *redis.Client
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, pub rabbitmq.PublisherInterface) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		publisher: pub,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// CreateOrder creates the order with its items and reserves stock for
// every item in one transaction. The declared total must equal the sum
// of item price x quantity; a mismatch is rejected rather than trusted.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint64, items []OrderItemInput, totalAmount int64) (*domain.Order, error) {
	if userID == 0 || len(items) == 0 {
		return nil, ErrInvalidOrderData
	}

	var sum int64
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity < 1 || item.Price < 0 {
			return nil, ErrInvalidOrderData
		}
		sum += item.Price * item.Quantity
	}
	if sum != totalAmount {
		return nil, ErrInvalidOrderData
	}

	for _, item := range items {
		p, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
	}

	order := &domain.Order{
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      domain.OrderStatusPending,
		Items:       make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx, items)

	go s.publishOrderCreatedEvent(context.Background(), order)

	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) invalidateProductCache(ctx context.Context, items []OrderItemInput) {
	if s.redisClient == nil {
		return
	}
	for _, item := range items {
		s.redisClient.Del(ctx, productCacheKey(item.ProductID))
	}
}

func (s *OrderService) publishOrderCreatedEvent(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("failed to publish order.created for order %d: %v", order.ID, err)
	}
}
