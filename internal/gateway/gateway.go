package gateway

import (
	"context"
	"time"

	"commerce-service/internal/domain"
)

type PaymentRequest struct {
	OrderID uint64
	UserID  uint64
	Amount  int64
	Method  string
	Bank    string
}

// Payload is the structured gateway response stored alongside the
// payment record. One shape covers every outcome kind; Error is only
// set on failures.
type Payload struct {
	TransactionID    string `json:"transactionId"`
	Amount           int64  `json:"amount,omitempty"`
	Method           string `json:"method,omitempty"`
	Bank             string `json:"bank,omitempty"`
	VerificationCode string `json:"verificationCode,omitempty"`
	Timestamp        string `json:"timestamp"`
	Status           string `json:"status"`
	Error            string `json:"error,omitempty"`
}

type PaymentResponse struct {
	Success          bool
	TransactionID    string
	Status           domain.PaymentStatus
	Message          string
	VerificationCode string
	ExpiresAt        *time.Time
	Payload          Payload
}

// Gateway is the contract the orchestrator consumes. The simulator is
// the only implementation; a real processor would slot in behind the
// same interface.
type Gateway interface {
	ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	VerifyPayment(ctx context.Context, transactionID, verificationCode string) (*PaymentResponse, error)
	CheckPaymentStatus(ctx context.Context, transactionID string) (*PaymentResponse, error)
}
