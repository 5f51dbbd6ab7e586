package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

type Order struct {
	ID          uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint64      `json:"userId" gorm:"not null;index"`
	TotalAmount int64       `json:"totalAmount" gorm:"not null"`
	Status      OrderStatus `json:"status" gorm:"type:enum('pending','paid');default:'pending'"`
	Items       []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"autoCreateTime"`
}

// OrderItem captures the unit price at order time. The price is a
// historical snapshot and is never updated after creation, even when
// the live product price changes.
type OrderItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64 `json:"orderId" gorm:"not null;index"`
	ProductID uint64 `json:"productId" gorm:"not null;index"`
	Quantity  int64  `json:"quantity" gorm:"not null"`
	Price     int64  `json:"price" gorm:"not null"`
}
