package payment

import (
	"context"
	rndm "math/rand"
	"time"

	"github.com/google/uuid"

	"storefront/apperr"
)

// Methods accepted by the gateway.
var Methods = []string{"card", "paypal", "cod"}

func ValidMethod(m string) bool {
	for _, v := range Methods {
		if v == m {
			return true
		}
	}
	return false
}

type Request struct {
	Amount   float64
	Currency string
	Method   string
}

type Result struct {
	Success       bool      `json:"success"`
	TransactionID string    `json:"transactionId,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	ProcessedAt   time.Time `json:"processedAt"`
}

// Gateway is the seam between the checkout orchestrator and whatever
// processes payments. The simulator below stands in for a real provider and
// can be swapped without touching the orchestrator.
type Gateway interface {
	Charge(ctx context.Context, req Request) (Result, error)
}

var failureReasons = []string{
	"card_declined",
	"insufficient_funds",
	"expired_card",
	"processing_error",
	"fraud_suspected",
}

// FailureReasons returns the fixed set of simulated decline reasons.
func FailureReasons() []string {
	out := make([]string, len(failureReasons))
	copy(out, failureReasons)
	return out
}

// Simulator fakes an external gateway: it validates the request, sleeps a
// synthetic latency, then succeeds with SuccessRate probability. Charge is
// safe for concurrent use; randomness comes from the locked top-level
// math/rand source.
type Simulator struct {
	Latency     time.Duration
	SuccessRate float64
}

func NewSimulator() *Simulator {
	return &Simulator{
		Latency:     300 * time.Millisecond,
		SuccessRate: 0.8,
	}
}

func (s *Simulator) Charge(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-time.After(s.Latency):
	}

	now := time.Now()
	if rndm.Float64() < s.SuccessRate {
		return Result{
			Success:       true,
			TransactionID: "txn_" + uuid.NewString(),
			ProcessedAt:   now,
		}, nil
	}
	return Result{
		Success:     false,
		Reason:      failureReasons[rndm.Intn(len(failureReasons))],
		ProcessedAt: now,
	}, nil
}

// validateRequest fails fast before the simulated call is attempted.
func validateRequest(req Request) error {
	fields := map[string]string{}
	if req.Amount <= 0 {
		fields["amount"] = "must be greater than 0"
	}
	if !ValidMethod(req.Method) {
		fields["paymentMethod"] = "must be one of: card paypal cod"
	}
	if len(fields) > 0 {
		return apperr.New(apperr.Validation, "invalid payment request").WithFields(fields)
	}
	return nil
}
