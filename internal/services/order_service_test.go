package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"commerce-service/internal/domain"
	"commerce-service/internal/mocks"
	"commerce-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validItems() []OrderItemInput {
	return []OrderItemInput{{ProductID: TestProductID, Quantity: 2, Price: TestProductPrice}}
}

func TestOrderService_CreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		userID        uint64
		items         []OrderItemInput
		totalAmount   int64
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockProductRepository, *mocks.MockPublisher)
		expectedError error
	}{
		{
			name:        "successful order creation",
			userID:      TestUserID,
			items:       validItems(),
			totalAmount: 20000,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, TestProductName, TestProductPrice, 5), nil)
				orderRepo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*domain.Order")).
					Return(nil).
					Run(func(args mock.Arguments) {
						order := args.Get(1).(*domain.Order)
						order.ID = TestOrderID
					})
				pub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:          "missing user",
			userID:        0,
			items:         validItems(),
			totalAmount:   20000,
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockProductRepository, *mocks.MockPublisher) {},
			expectedError: ErrInvalidOrderData,
		},
		{
			name:          "empty items",
			userID:        TestUserID,
			items:         nil,
			totalAmount:   20000,
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockProductRepository, *mocks.MockPublisher) {},
			expectedError: ErrInvalidOrderData,
		},
		{
			name:          "zero quantity item",
			userID:        TestUserID,
			items:         []OrderItemInput{{ProductID: TestProductID, Quantity: 0, Price: TestProductPrice}},
			totalAmount:   0,
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockProductRepository, *mocks.MockPublisher) {},
			expectedError: ErrInvalidOrderData,
		},
		{
			name:          "declared total does not match items",
			userID:        TestUserID,
			items:         validItems(),
			totalAmount:   15000,
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockProductRepository, *mocks.MockPublisher) {},
			expectedError: ErrInvalidOrderData,
		},
		{
			name:        "product not found",
			userID:      TestUserID,
			items:       validItems(),
			totalAmount: 20000,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).Return(nil, nil)
			},
			expectedError: ErrProductNotFound,
		},
		{
			name:        "insufficient stock aborts the whole order",
			userID:      TestUserID,
			items:       validItems(),
			totalAmount: 20000,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, TestProductName, TestProductPrice, 1), nil)
				orderRepo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*domain.Order")).
					Return(repository.ErrInsufficientStock)
			},
			expectedError: ErrInsufficientStock,
		},
		{
			name:        "repository failure surfaces",
			userID:      TestUserID,
			items:       validItems(),
			totalAmount: 20000,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, TestProductName, TestProductPrice, 5), nil)
				orderRepo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*domain.Order")).
					Return(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(mocks.MockOrderRepository)
			productRepo := new(mocks.MockProductRepository)
			pub := new(mocks.MockPublisher)
			tt.setupMocks(orderRepo, productRepo, pub)

			svc := NewOrderService(orderRepo, productRepo, pub)
			order, err := svc.CreateOrder(context.Background(), tt.userID, tt.items, tt.totalAmount)

			if tt.expectedError != nil {
				assert.Nil(t, order)
				assert.EqualError(t, err, tt.expectedError.Error())
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, TestOrderID, order.ID)
			assert.Equal(t, domain.OrderStatusPending, order.Status)
			assert.Equal(t, tt.totalAmount, order.TotalAmount)
			assert.Len(t, order.Items, len(tt.items))
			assert.Equal(t, tt.items[0].Price, order.Items[0].Price)
			orderRepo.AssertExpectations(t)
			productRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	productRepo := new(mocks.MockProductRepository)
	pub := new(mocks.MockPublisher)
	svc := NewOrderService(orderRepo, productRepo, pub)

	orderRepo.On("FindByID", mock.Anything, TestOrderID).
		Return(CreateMockOrder(TestOrderID, TestUserID, 20000, domain.OrderStatusPending), nil)
	orderRepo.On("FindByID", mock.Anything, uint64(999)).Return(nil, nil)

	order, err := svc.GetOrderByID(context.Background(), TestOrderID)
	assert.NoError(t, err)
	assert.Equal(t, TestOrderID, order.ID)

	_, err = svc.GetOrderByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// stockSafeOrderRepo mimics the conditional-decrement contract of the
// MySQL repository so the never-negative property can be exercised
// under real goroutine contention.
type stockSafeOrderRepo struct {
	mu      sync.Mutex
	stock   map[uint64]int64
	created int
}

func (r *stockSafeOrderRepo) CreateWithItems(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range order.Items {
		if r.stock[item.ProductID] < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	for _, item := range order.Items {
		r.stock[item.ProductID] -= item.Quantity
	}
	r.created++
	order.ID = uint64(r.created)
	return nil
}

func (r *stockSafeOrderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	return nil, nil
}

func (r *stockSafeOrderRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return nil, nil
}

func (r *stockSafeOrderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	return nil
}

func TestOrderService_CreateOrder_ConcurrentStockNeverNegative(t *testing.T) {
	const (
		initialStock  = int64(20)
		totalRequests = 50
	)

	orderRepo := &stockSafeOrderRepo{stock: map[uint64]int64{TestProductID: initialStock}}
	productRepo := new(mocks.MockProductRepository)
	productRepo.On("FindByID", mock.Anything, TestProductID).
		Return(CreateMockProduct(TestProductID, TestProductName, TestProductPrice, initialStock), nil)
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()

	svc := NewOrderService(orderRepo, productRepo, pub)

	var successCount, stockErrCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items := []OrderItemInput{{ProductID: TestProductID, Quantity: 1, Price: TestProductPrice}}
			_, err := svc.CreateOrder(context.Background(), TestUserID, items, TestProductPrice)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrInsufficientStock):
				stockErrCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	assert.Equal(t, int32(totalRequests-int(initialStock)), stockErrCount.Load())
	assert.Equal(t, int64(0), orderRepo.stock[TestProductID])
}
