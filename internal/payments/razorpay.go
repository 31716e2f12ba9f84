package payments

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/blclinic/appointments/pkg/logging"
)

// RazorpayGateway creates orders and verifies payment signatures against
// the live Razorpay API.
type RazorpayGateway struct {
	client *razorpay.Client
	secret string
	logger *logging.Logger
}

// NewRazorpayGateway builds a gateway from API credentials.
func NewRazorpayGateway(keyID, keySecret string, logger *logging.Logger) *RazorpayGateway {
	if keyID == "" || keySecret == "" {
		panic("payments: razorpay credentials required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		secret: keySecret,
		logger: logger,
	}
}

// CreateOrder issues an auto-capture order for the given amount.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	_ = ctx // the razorpay client does not accept a context

	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("payments: razorpay order create: %w", err)
	}

	order := &Order{Amount: amount, Currency: currency}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	if order.ID == "" {
		return nil, fmt.Errorf("payments: razorpay order response missing id")
	}

	g.logger.Info("razorpay order created", "order_id", order.ID, "amount", amount, "currency", currency)
	return order, nil
}

// Verify checks the HMAC signature Razorpay attaches to a successful
// checkout.
func (g *RazorpayGateway) Verify(proof Proof) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   proof.OrderRef,
		"razorpay_payment_id": proof.PaymentRef,
	}
	return utils.VerifyPaymentSignature(params, proof.Signature, g.secret)
}
