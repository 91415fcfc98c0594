package payments

import "context"

// CheckoutParams describes one checkout session to create. Metadata is
// carried on the session verbatim; the processor echoes it back on
// webhook events, which is the only channel for passing submission data
// through the redirect flow.
type CheckoutParams struct {
	PriceInCents  int64
	Currency      string
	ProductName   string
	ProductDesc   string
	CustomerEmail string
	Metadata      map[string]string
}

// CheckoutSession is the created session, as much of it as the caller
// needs. PaymentIntentID may be empty if the processor has not attached
// an intent yet.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
}

// Event is a verified, normalized webhook event.
type Event struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	Metadata        map[string]string
	AmountTotal     int64
	Currency        string
	FailureMessage  string
}

// Recognized event types, mirrored from the processor's names.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// CheckoutProvider abstracts the payment processor. A nil provider in the
// checkout service means demo mode: payments are simulated synchronously.
type CheckoutProvider interface {
	// CreateCheckoutSession creates a hosted checkout session and
	// returns its redirect URL.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// VerifyWebhook authenticates a raw webhook delivery against the
	// shared signing secret and decodes it. It must be called before any
	// state is read or written for the event.
	VerifyWebhook(payload []byte, signatureHeader string) (*Event, error)
}
