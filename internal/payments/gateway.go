// Package payments brokers payment orders through a gateway. The clinic
// collects the consultation fee up front; an appointment only claims its
// slot once the gateway confirms payment.
package payments

import "context"

// Order is a payment order issued by the gateway. Amounts are in minor
// currency units (paise for INR).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Proof is the client-supplied evidence that a payment went through.
type Proof struct {
	OrderRef   string
	PaymentRef string
	Signature  string
}

// Gateway abstracts order creation and proof verification. The Razorpay
// implementation talks to the real API; the mock implementation is selected
// at startup when credentials are absent, so business logic never branches
// on credential strings.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	Verify(proof Proof) bool
}
