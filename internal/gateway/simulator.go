package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"commerce-service/internal/domain"

	"github.com/google/uuid"
)

const (
	expiryWindow       = 24 * time.Hour
	defaultSuccessRate = 0.90
	verifyPollRate     = 0.80
)

var successRates = map[string]float64{
	"dana":          0.95,
	"gopay":         0.93,
	"shopeepay":     0.92,
	"linkaja":       0.91,
	"transfer_bank": 0.98,
	"debit":         0.96,
	"credit_card":   0.94,
	"debit_card":    0.95,
}

var processingMessages = map[string]string{
	"dana":        "Pembayaran DANA sedang diproses. Silakan transfer ke nomor +62 895-6013-77400 (JMT Archery) di aplikasi DANA.",
	"gopay":       "Pembayaran GoPay sedang diproses. Silakan transfer ke nomor +62 895-6013-77400 (JMT Archery) di aplikasi GoPay.",
	"shopeepay":   "Pembayaran ShopeePay sedang diproses. Silakan transfer ke nomor +62 895-6013-77400 (JMT Archery) di aplikasi ShopeePay.",
	"linkaja":     "Pembayaran LinkAja sedang diproses. Silakan transfer ke nomor +62 895-6013-77400 (JMT Archery) di aplikasi LinkAja.",
	"debit":       "Pembayaran debit sedang diproses. Silakan masukkan PIN kartu debit Anda.",
	"credit_card": "Pembayaran kartu kredit sedang diproses. Silakan masukkan detail kartu kredit.",
	"debit_card":  "Pembayaran kartu debit sedang diproses. Silakan masukkan detail kartu debit.",
}

var failureMessages = map[string]string{
	"dana":          "Pembayaran DANA gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
	"gopay":         "Pembayaran GoPay gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
	"shopeepay":     "Pembayaran ShopeePay gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
	"linkaja":       "Pembayaran LinkAja gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
	"transfer_bank": "Pembayaran transfer bank gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
	"debit":         "Pembayaran debit gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
	"credit_card":   "Pembayaran kartu kredit gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
	"debit_card":    "Pembayaran kartu debit gagal. Silakan coba lagi atau pilih metode pembayaran lain.",
}

// Simulator stands in for a real payment processor. It holds no state
// between calls, so any instance is interchangeable with any other.
// The RNG, clock and latency bounds are injectable so tests can force
// deterministic outcomes.
type Simulator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	now        func() time.Time
	minLatency time.Duration
	maxLatency time.Duration
}

var _ Gateway = (*Simulator)(nil)

func NewSimulator() *Simulator {
	return &Simulator{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		minLatency: 1 * time.Second,
		maxLatency: 3 * time.Second,
	}
}

func (s *Simulator) SetRand(rng *rand.Rand) {
	s.rng = rng
}

func (s *Simulator) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Simulator) SetLatency(min, max time.Duration) {
	s.minLatency = min
	s.maxLatency = max
}

// ProcessPayment runs the initial gateway round-trip. A success draw
// yields an intermediate "processing" result with a verification code
// and a 24 hour expiry; final settlement always waits for VerifyPayment.
// Failures are returned as data, never as an error: the only error this
// method produces is context cancellation during the simulated latency.
func (s *Simulator) ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	transactionID := s.generateTransactionID()

	if err := s.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	rate, ok := successRates[req.Method]
	if !ok {
		rate = defaultSuccessRate
	}

	now := s.now()
	if s.draw() < rate {
		code := s.generateVerificationCode()
		expiresAt := now.Add(expiryWindow)
		return &PaymentResponse{
			Success:          true,
			TransactionID:    transactionID,
			Status:           domain.PaymentStatusProcessing,
			Message:          processingMessage(req.Method, req.Bank),
			VerificationCode: code,
			ExpiresAt:        &expiresAt,
			Payload: Payload{
				TransactionID: transactionID,
				Amount:        req.Amount,
				Method:        req.Method,
				Bank:          req.Bank,
				Timestamp:     now.Format(time.RFC3339),
				Status:        string(domain.PaymentStatusProcessing),
			},
		}, nil
	}

	return &PaymentResponse{
		Success:       false,
		TransactionID: transactionID,
		Status:        domain.PaymentStatusFailed,
		Message:       failureMessage(req.Method),
		Payload: Payload{
			TransactionID: transactionID,
			Amount:        req.Amount,
			Method:        req.Method,
			Bank:          req.Bank,
			Timestamp:     now.Format(time.RFC3339),
			Status:        string(domain.PaymentStatusFailed),
			Error:         "Payment gateway temporarily unavailable",
		},
	}, nil
}

// VerifyPayment is the settlement step. The code match against the
// stored verification code happens at the caller; by the time this is
// reached the verification has already been accepted, so the gateway
// only simulates the settlement round-trip and manufactures the
// settled payload.
func (s *Simulator) VerifyPayment(ctx context.Context, transactionID, verificationCode string) (*PaymentResponse, error) {
	if err := s.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	return &PaymentResponse{
		Success:       true,
		TransactionID: transactionID,
		Status:        domain.PaymentStatusSuccess,
		Message:       "Pembayaran berhasil diverifikasi!",
		Payload: Payload{
			TransactionID:    transactionID,
			VerificationCode: verificationCode,
			Timestamp:        s.now().Format(time.RFC3339),
			Status:           string(domain.PaymentStatusSuccess),
		},
	}, nil
}

// CheckPaymentStatus is an independent probabilistic poll: 80% settled,
// otherwise still pending. It is a read-only capability and feeds no
// state transition.
func (s *Simulator) CheckPaymentStatus(ctx context.Context, transactionID string) (*PaymentResponse, error) {
	if err := s.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	if s.draw() < verifyPollRate {
		return &PaymentResponse{
			Success:       true,
			TransactionID: transactionID,
			Status:        domain.PaymentStatusSuccess,
			Message:       "Pembayaran berhasil dikonfirmasi",
			Payload: Payload{
				TransactionID: transactionID,
				Timestamp:     now.Format(time.RFC3339),
				Status:        string(domain.PaymentStatusSuccess),
			},
		}, nil
	}

	return &PaymentResponse{
		Success:       false,
		TransactionID: transactionID,
		Status:        domain.PaymentStatusPending,
		Message:       "Pembayaran masih dalam proses",
		Payload: Payload{
			TransactionID: transactionID,
			Timestamp:     now.Format(time.RFC3339),
			Status:        string(domain.PaymentStatusPending),
		},
	}, nil
}

// simulateProcessing models the gateway round-trip as a suspend point
// rather than a blocking sleep, so concurrent initiations across
// different orders proceed independently.
func (s *Simulator) simulateProcessing(ctx context.Context) error {
	spread := int64(s.maxLatency - s.minLatency)
	var jitter time.Duration
	if spread > 0 {
		s.mu.Lock()
		jitter = time.Duration(s.rng.Int63n(spread))
		s.mu.Unlock()
	}
	delay := s.minLatency + jitter
	if delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulator) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// generateTransactionID builds "TXN-<unix ms>-<9 char suffix>". The
// suffix comes from a UUID so IDs stay unique even when two payments
// are initiated in the same millisecond.
func (s *Simulator) generateTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("TXN-%d-%s", s.now().UnixMilli(), suffix)
}

func (s *Simulator) generateVerificationCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%06d", 100000+s.rng.Intn(900000))
}

func processingMessage(method, bank string) string {
	if method == domain.MethodBankTransfer {
		return fmt.Sprintf("Pembayaran transfer bank %s sedang diproses. Silakan transfer sesuai instruksi.", strings.ToUpper(bank))
	}
	if msg, ok := processingMessages[method]; ok {
		return msg
	}
	return "Pembayaran sedang diproses."
}

func failureMessage(method string) string {
	if msg, ok := failureMessages[method]; ok {
		return msg
	}
	return "Pembayaran gagal. Silakan coba lagi."
}
