package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
)

// StripeProvider implements CheckoutProvider on Stripe Checkout.
type StripeProvider struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewStripeProvider configures the global Stripe client. secretKey must
// be non-empty; callers decide demo mode before constructing one.
func NewStripeProvider(secretKey, webhookSecret, successURL, cancelURL string) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	stripe.Key = secretKey

	return &StripeProvider{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}, nil
}

// CreateCheckoutSession creates a Stripe-hosted checkout session carrying
// the submission metadata.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(p.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(params.PriceInCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(params.ProductName),
						Description: stripe.String(params.ProductDesc),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}
	sessionParams.AddExpand("payment_intent")
	sessionParams.Context = ctx

	s, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	result := &CheckoutSession{
		ID:  s.ID,
		URL: s.URL,
	}
	if s.PaymentIntent != nil {
		result.PaymentIntentID = s.PaymentIntent.ID
	}
	return result, nil
}

// VerifyWebhook checks the Stripe-Signature header against the signing
// secret and normalizes the event. Rejection means zero writes happened.
func (p *StripeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signatureHeader, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification: %w", err)
	}

	event := &Event{
		ID:   stripeEvent.ID,
		Type: string(stripeEvent.Type),
	}

	switch event.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session event: %w", err)
		}
		event.SessionID = sess.ID
		event.Metadata = sess.Metadata
		event.AmountTotal = sess.AmountTotal
		if sess.Currency != "" {
			event.Currency = string(sess.Currency)
		}
		if sess.PaymentIntent != nil {
			event.PaymentIntentID = sess.PaymentIntent.ID
		}

	case EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(stripeEvent.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("decode payment intent event: %w", err)
		}
		event.PaymentIntentID = intent.ID
		if intent.LastPaymentError != nil {
			event.FailureMessage = intent.LastPaymentError.Msg
		}
		if event.FailureMessage == "" {
			event.FailureMessage = "payment failed"
		}
	}

	return event, nil
}
