package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/blclinic/appointments/pkg/logging"
)

// mockOrderPrefix marks orders issued without real gateway credentials.
// Verification accepts exactly these orders, so the full booking flow can
// be exercised end to end in development.
const mockOrderPrefix = "order_mock_"

// MockGateway is the placeholder-credential gateway. It MUST only be
// selected at startup when Razorpay credentials are absent; it never
// charges anyone.
type MockGateway struct {
	logger *logging.Logger
}

// NewMockGateway creates the development gateway.
func NewMockGateway(logger *logging.Logger) *MockGateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &MockGateway{logger: logger}
}

// CreateOrder fabricates a deterministic-shape order id.
func (g *MockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	_ = ctx
	if amount <= 0 {
		return nil, fmt.Errorf("payments: amount must be positive, got %d", amount)
	}

	order := &Order{
		ID:       mockOrderPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Amount:   amount,
		Currency: currency,
		Status:   "created",
	}
	g.logger.Info("mock payment order created", "order_id", order.ID, "amount", amount, "receipt", receipt)
	return order, nil
}

// Verify accepts any proof referencing a mock order.
func (g *MockGateway) Verify(proof Proof) bool {
	return strings.HasPrefix(proof.OrderRef, mockOrderPrefix)
}
