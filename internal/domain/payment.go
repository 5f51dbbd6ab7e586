package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSuccess    PaymentStatus = "success"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusExpired    PaymentStatus = "expired"
)

const MethodBankTransfer = "transfer_bank"

// MethodRequiresBank reports whether the payment method needs a bank
// selection before the gateway can be called.
func MethodRequiresBank(method string) bool {
	return method == MethodBankTransfer
}

// Payment records one settlement attempt against an order. The unique
// index on order_id enforces at most one payment per order at the
// storage layer, so concurrent initiations cannot both insert.
type Payment struct {
	ID               uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID          uint64        `json:"orderId" gorm:"not null;uniqueIndex"`
	Amount           int64         `json:"amount" gorm:"not null"`
	Method           string        `json:"method" gorm:"size:32;not null"`
	Bank             string        `json:"bank,omitempty" gorm:"size:32"`
	Status           PaymentStatus `json:"status" gorm:"type:enum('pending','processing','success','failed','expired');default:'pending'"`
	TransactionID    string        `json:"transactionId" gorm:"size:64;uniqueIndex;not null"`
	VerificationCode string        `json:"verificationCode,omitempty" gorm:"size:8"`
	GatewayResponse  string        `json:"gatewayResponse,omitempty" gorm:"type:text"`
	ExpiresAt        *time.Time    `json:"expiresAt,omitempty"`
	PaidAt           *time.Time    `json:"paidAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt" gorm:"autoCreateTime"`
}

// IsExpired reports whether the payment window has closed at the given
// instant. Payments without an expiry never expire.
func (p *Payment) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
