package checkoutstripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
)

//go:generate mockgen -source=payer.go -package checkoutstripe -destination payer_mock.go Payer
type Payer interface {
	UseAPIKey(key string)
	CreateCheckoutSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error)
	GetCheckoutSession(c context.Context, sessionID string) (stripe.CheckoutSession, error)
}

type stripePayer struct{}

// NewPayer talks to the real Stripe api. Network retries are disabled: one call is one round trip.
func NewPayer() Payer {
	stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	}))
	return &stripePayer{}
}

func (p *stripePayer) UseAPIKey(apiKey string) {
	stripe.Key = apiKey
}

func (p *stripePayer) CreateCheckoutSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	params.Context = c
	session, err := session.New(&params)
	if err != nil {
		return stripe.CheckoutSession{}, myerrors.NewInternalError(fmt.Errorf("error creating stripe session: %s", err))
	}

	return *session, nil
}

func (p *stripePayer) GetCheckoutSession(c context.Context, sessionID string) (stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = c
	session, err := session.Get(sessionID, params)
	if err != nil {
		return stripe.CheckoutSession{}, myerrors.NewNotFoundError(fmt.Errorf("error fetching stripe session %s: %s", sessionID, err))
	}

	return *session, nil
}
