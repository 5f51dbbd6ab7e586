package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"commerce-service/internal/domain"
	"commerce-service/internal/mocks"
	"commerce-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockProductRepository, *mocks.MockOrderRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	gw := new(mocks.MockGateway)
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	products := services.NewProductService(productRepo)
	orders := services.NewOrderService(orderRepo, productRepo, pub)
	payments := services.NewPaymentService(paymentRepo, orderRepo, gw, pub)

	r := gin.New()
	NewHandler(products, orders, payments, nil).RegisterRoutes(r)
	return r, productRepo, orderRepo
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateOrder_ZeroTotal(t *testing.T) {
	r, productRepo, orderRepo := newTestRouter(t)

	// A fully discounted item makes a legitimate zero-total order.
	productRepo.On("FindByID", mock.Anything, uint64(1)).
		Return(&domain.Product{ID: 1, Name: "Finger Tab", Price: 0, Stock: 10}, nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 42
		})

	w := postJSON(t, r, "/api/orders", gin.H{
		"userId":      7,
		"items":       []gin.H{{"productId": 1, "quantity": 1, "price": 0}},
		"totalAmount": 0,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool         `json:"success"`
		Order   domain.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint64(42), resp.Order.ID)
	orderRepo.AssertExpectations(t)
}

func TestHandler_CreateOrder_NegativeTotalRejected(t *testing.T) {
	r, _, orderRepo := newTestRouter(t)

	w := postJSON(t, r, "/api/orders", gin.H{
		"userId":      7,
		"items":       []gin.H{{"productId": 1, "quantity": 1, "price": 0}},
		"totalAmount": -1,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
}

func TestHandler_CreateOrder_TotalMismatchRejected(t *testing.T) {
	r, _, orderRepo := newTestRouter(t)

	w := postJSON(t, r, "/api/orders", gin.H{
		"userId":      7,
		"items":       []gin.H{{"productId": 1, "quantity": 2, "price": 5000}},
		"totalAmount": 9999,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
}
