package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"commerce-service/internal/domain"
	"commerce-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const orderListCacheTTL = 10 * time.Second

type Handler struct {
	products *services.ProductService
	orders   *services.OrderService
	payments *services.PaymentService
	rdb      *redis.Client
}

func NewHandler(products *services.ProductService, orders *services.OrderService, payments *services.PaymentService, rdb *redis.Client) *Handler {
	return &Handler{products: products, orders: orders, payments: payments, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.POST("/products", h.CreateProduct)
	api.POST("/products/:id/restock", h.Restock)
	api.POST("/products/:id/reduce-stock", h.ReduceStock)

	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)

	api.POST("/payments", h.InitiatePayment)
	api.POST("/payments/verify", h.VerifyPayment)
	api.GET("/payments", h.GetPayment)
	api.GET("/payments/status", h.CheckPaymentStatus)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidOrderData.Error()})
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req.UserID, items, req.TotalAmount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.rdb != nil {
		h.rdb.Del(context.Background(), orderListCacheKey(req.UserID))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handler) ListOrders(c *gin.Context) {
	userIDStr := c.Query("userId")
	if userIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := orderListCacheKey(userID)

	if h.rdb != nil {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var orders []domain.Order
			if err := json.Unmarshal([]byte(b), &orders); err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
				return
			}
		}
	}

	orders, err := h.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(orders); err == nil {
			h.rdb.Set(ctx, cacheKey, data, orderListCacheTTL)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidPaymentData.Error()})
		return
	}

	result, err := h.payments.InitiatePayment(c.Request.Context(), services.InitiatePaymentInput{
		OrderID: req.OrderID,
		UserID:  req.UserID,
		Amount:  req.Amount,
		Method:  req.Method,
		Bank:    req.Bank,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"message": result.Message,
		"payment": result.Payment,
		"order":   result.Order,
	})
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidPaymentData.Error()})
		return
	}

	result, err := h.payments.VerifyPayment(c.Request.Context(), req.TransactionID, req.VerificationCode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"message": result.Message,
		"payment": result.Payment,
	})
}

func (h *Handler) GetPayment(c *gin.Context) {
	transactionID := c.Query("transactionId")
	orderIDStr := c.Query("orderId")
	if transactionID == "" && orderIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transactionId or orderId required"})
		return
	}

	var orderID uint64
	if orderIDStr != "" {
		var err error
		orderID, err = strconv.ParseUint(orderIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderId"})
			return
		}
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), transactionID, orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

func (h *Handler) CheckPaymentStatus(c *gin.Context) {
	transactionID := c.Query("transactionId")
	if transactionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transactionId required"})
		return
	}

	result, err := h.payments.CheckPaymentStatus(c.Request.Context(), transactionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"message": result.Message,
		"payment": result.Payment,
	})
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidProductData.Error()})
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		Description: req.Description,
	}
	if err := h.products.CreateProduct(c.Request.Context(), product); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

func (h *Handler) Restock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidQuantity.Error()})
		return
	}

	product, err := h.products.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

func (h *Handler) ReduceStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidQuantity.Error()})
		return
	}

	product, err := h.products.ReduceStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps the service error taxonomy onto status codes:
// not-found 404, validation and state conflicts 400, everything else a
// logged 500 with a generic body.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidOrderData),
		errors.Is(err, services.ErrInvalidProductData),
		errors.Is(err, services.ErrInvalidPaymentData),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrBankRequired),
		errors.Is(err, services.ErrOrderAlreadyProcessed),
		errors.Is(err, services.ErrPaymentAlreadyExists),
		errors.Is(err, services.ErrPaymentExpired),
		errors.Is(err, services.ErrInvalidVerificationCode),
		errors.Is(err, services.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func orderListCacheKey(userID uint64) string {
	return "orders:user:" + strconv.FormatUint(userID, 10)
}
