package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"commerce-service/internal/domain"
	"commerce-service/internal/gateway"
	"commerce-service/internal/infra/rabbitmq"
	"commerce-service/internal/repository"
)

type InitiatePaymentInput struct {
	OrderID uint64
	UserID  uint64
	Amount  int64
	Method  string
	Bank    string
}

// PaymentResult pairs the persisted records with the human-readable
// gateway message the UI shows to the buyer.
type PaymentResult struct {
	Success bool
	Message string
	Payment *domain.Payment
	Order   *domain.Order
}

type PaymentService struct {
	payments  repository.PaymentRepository
	orders    repository.OrderRepository
	gw        gateway.Gateway
	publisher rabbitmq.PublisherInterface
	now       func() time.Time
}

func NewPaymentService(payments repository.PaymentRepository, orders repository.OrderRepository, gw gateway.Gateway, pub rabbitmq.PublisherInterface) *PaymentService {
	return &PaymentService{
		payments:  payments,
		orders:    orders,
		gw:        gw,
		publisher: pub,
		now:       time.Now,
	}
}

func (s *PaymentService) SetClock(now func() time.Time) {
	s.now = now
}

// InitiatePayment runs the first half of the settlement state machine:
// it validates the order is still payable, calls the gateway and
// persists the resulting payment record. The duplicate-payment and
// already-paid checks run before any gateway call, and the unique
// order_id index absorbs the race two concurrent initiations would
// otherwise win together.
func (s *PaymentService) InitiatePayment(ctx context.Context, in InitiatePaymentInput) (*PaymentResult, error) {
	if in.OrderID == 0 || in.UserID == 0 || in.Amount <= 0 || in.Method == "" {
		return nil, ErrInvalidPaymentData
	}
	if domain.MethodRequiresBank(in.Method) && in.Bank == "" {
		return nil, ErrBankRequired
	}

	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return nil, ErrOrderAlreadyProcessed
	}

	existing, err := s.payments.FindByOrderID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPaymentAlreadyExists
	}

	resp, err := s.gw.ProcessPayment(ctx, gateway.PaymentRequest{
		OrderID: in.OrderID,
		UserID:  in.UserID,
		Amount:  in.Amount,
		Method:  in.Method,
		Bank:    in.Bank,
	})
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		OrderID:          in.OrderID,
		Amount:           in.Amount,
		Method:           in.Method,
		Bank:             in.Bank,
		Status:           resp.Status,
		TransactionID:    resp.TransactionID,
		VerificationCode: resp.VerificationCode,
		GatewayResponse:  marshalPayload(resp.Payload),
		ExpiresAt:        resp.ExpiresAt,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	// The simulator only ever answers "processing" or "failed" on the
	// initial call, but a terminal success from a gateway still has to
	// settle the order.
	if resp.Status == domain.PaymentStatusSuccess {
		if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid); err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatusPaid
	}

	go s.publishEvent(context.Background(), "payment.initiated", domain.PaymentInitiatedEvent{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		TransactionID: payment.TransactionID,
		Method:        payment.Method,
		Amount:        payment.Amount,
		Status:        payment.Status,
	})

	return &PaymentResult{
		Success: resp.Success,
		Message: resp.Message,
		Payment: payment,
		Order:   order,
	}, nil
}

// VerifyPayment settles a processing payment. Settlement is decided by
// the stored-code match: a wrong code is rejected without touching the
// record, so the buyer may retry until the payment expires. Expiry is
// evaluated lazily here; there is no background sweep.
func (s *PaymentService) VerifyPayment(ctx context.Context, transactionID, verificationCode string) (*PaymentResult, error) {
	if transactionID == "" || verificationCode == "" {
		return nil, ErrInvalidPaymentData
	}

	payment, err := s.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	// Repeated verification of a settled payment is a no-op.
	if payment.Status == domain.PaymentStatusSuccess {
		return &PaymentResult{
			Success: true,
			Message: "Pembayaran sudah diverifikasi sebelumnya",
			Payment: payment,
		}, nil
	}

	if payment.IsExpired(s.now()) {
		payment.Status = domain.PaymentStatusExpired
		if err := s.payments.Update(ctx, payment); err != nil {
			return nil, err
		}
		return nil, ErrPaymentExpired
	}

	if payment.VerificationCode == "" || payment.VerificationCode != verificationCode {
		return nil, ErrInvalidVerificationCode
	}

	resp, err := s.gw.VerifyPayment(ctx, transactionID, verificationCode)
	if err != nil {
		return nil, err
	}

	// A gateway that declines the settlement leaves the payment
	// unsettled; the buyer may retry before expiry.
	if resp.Status != domain.PaymentStatusSuccess {
		return &PaymentResult{
			Success: false,
			Message: resp.Message,
			Payment: payment,
		}, nil
	}

	paidAt := s.now()
	payment.Status = domain.PaymentStatusSuccess
	payment.PaidAt = &paidAt
	payment.GatewayResponse = marshalPayload(resp.Payload)
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, payment.OrderID, domain.OrderStatusPaid); err != nil {
		return nil, err
	}

	go s.publishEvent(context.Background(), "payment.settled", domain.PaymentSettledEvent{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		PaidAt:        paidAt,
	})

	return &PaymentResult{
		Success: true,
		Message: resp.Message,
		Payment: payment,
	}, nil
}

// GetPayment is the pure read side: lookup by transaction ID when
// given, otherwise by order ID.
func (s *PaymentService) GetPayment(ctx context.Context, transactionID string, orderID uint64) (*domain.Payment, error) {
	var (
		payment *domain.Payment
		err     error
	)
	switch {
	case transactionID != "":
		payment, err = s.payments.FindByTransactionID(ctx, transactionID)
	case orderID != 0:
		payment, err = s.payments.FindByOrderID(ctx, orderID)
	default:
		return nil, ErrInvalidPaymentData
	}
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// CheckPaymentStatus proxies the gateway's probabilistic status poll.
// It persists nothing; settlement only ever happens through Verify.
func (s *PaymentService) CheckPaymentStatus(ctx context.Context, transactionID string) (*PaymentResult, error) {
	if transactionID == "" {
		return nil, ErrInvalidPaymentData
	}

	payment, err := s.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	resp, err := s.gw.CheckPaymentStatus(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		Success: resp.Success,
		Message: resp.Message,
		Payment: payment,
	}, nil
}

func (s *PaymentService) publishEvent(ctx context.Context, routingKey string, data any) {
	if err := s.publisher.Publish(ctx, routingKey, data); err != nil {
		log.Printf("failed to publish %s: %v", routingKey, err)
	}
}

func marshalPayload(p gateway.Payload) string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}
