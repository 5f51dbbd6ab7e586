package domain

import "time"

type OrderCreatedEvent struct {
	OrderID     uint64    `json:"orderId"`
	UserID      uint64    `json:"userId"`
	TotalAmount int64     `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PaymentInitiatedEvent struct {
	PaymentID     uint64        `json:"paymentId"`
	OrderID       uint64        `json:"orderId"`
	TransactionID string        `json:"transactionId"`
	Method        string        `json:"method"`
	Amount        int64         `json:"amount"`
	Status        PaymentStatus `json:"status"`
}

type PaymentSettledEvent struct {
	PaymentID     uint64    `json:"paymentId"`
	OrderID       uint64    `json:"orderId"`
	TransactionID string    `json:"transactionId"`
	Amount        int64     `json:"amount"`
	PaidAt        time.Time `json:"paidAt"`
}
