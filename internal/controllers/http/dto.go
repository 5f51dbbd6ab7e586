package http

type OrderItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
	Price     int64  `json:"price" binding:"min=0"`
}

type CreateOrderRequest struct {
	UserID      uint64             `json:"userId" binding:"required"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount int64              `json:"totalAmount" binding:"min=0"`
}

type InitiatePaymentRequest struct {
	OrderID uint64 `json:"orderId" binding:"required"`
	UserID  uint64 `json:"userId" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Method  string `json:"method" binding:"required"`
	Bank    string `json:"bank"`
}

type VerifyPaymentRequest struct {
	TransactionID    string `json:"transactionId" binding:"required"`
	VerificationCode string `json:"verificationCode" binding:"required"`
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       int64  `json:"price" binding:"min=0"`
	Stock       int64  `json:"stock" binding:"min=0"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type StockRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}
